package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/models"
	"github.com/foodshare/backend/internal/service"
	"github.com/foodshare/backend/internal/testutil"
)

func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string) *models.Recipe {
	t.Helper()
	svc := service.NewRecipeService(db, nil)
	ing := testutil.CreateIngredient(t, db, name+" base", "g")
	tag := testutil.CreateTag(t, db, name+" tag")
	recipe, err := svc.CreateRecipe(context.Background(), author.ID, &service.RecipeInput{
		Name:        name,
		Text:        "Cook it.",
		CookingTime: 10,
		TagIDs:      []uint{tag.ID},
		Ingredients: []service.IngredientAmount{{IngredientID: ing.ID, Amount: 100}},
	})
	require.NoError(t, err)
	return recipe
}

func TestFavoriteToggle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewMembershipService(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	viewer := testutil.CreateUser(t, db, "viewer")
	recipe := seedRecipe(t, db, author, "Pancakes")

	got, err := svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)
	assert.True(t, svc.IsFavorited(ctx, viewer.ID, recipe.ID))

	_, err = svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	require.NoError(t, svc.RemoveFavorite(ctx, viewer.ID, recipe.ID))
	assert.False(t, svc.IsFavorited(ctx, viewer.ID, recipe.ID))

	err = svc.RemoveFavorite(ctx, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestShoppingCartToggle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewMembershipService(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	viewer := testutil.CreateUser(t, db, "viewer")
	recipe := seedRecipe(t, db, author, "Soup")

	got, err := svc.AddToCart(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)
	assert.True(t, svc.IsInCart(ctx, viewer.ID, recipe.ID))

	_, err = svc.AddToCart(ctx, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	require.NoError(t, svc.RemoveFromCart(ctx, viewer.ID, recipe.ID))

	err = svc.RemoveFromCart(ctx, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMembershipUnknownRecipe(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewMembershipService(db)
	ctx := context.Background()

	viewer := testutil.CreateUser(t, db, "viewer")
	missing := uuid.New()

	_, err := svc.AddFavorite(ctx, viewer.ID, missing)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.AddToCart(ctx, viewer.ID, missing)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMembershipsAreIndependentPerUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewMembershipService(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	recipe := seedRecipe(t, db, author, "Pie")

	_, err := svc.AddFavorite(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)

	assert.True(t, svc.IsFavorited(ctx, alice.ID, recipe.ID))
	assert.False(t, svc.IsFavorited(ctx, bob.ID, recipe.ID))

	// Bob can still favorite the same recipe for himself.
	_, err = svc.AddFavorite(ctx, bob.ID, recipe.ID)
	require.NoError(t, err)
}
