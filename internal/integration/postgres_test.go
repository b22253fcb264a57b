package integration_test

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodshare/backend/internal/database"
	"github.com/foodshare/backend/internal/service"
	"github.com/foodshare/backend/internal/testutil"
)

// setupPostgres starts a disposable PostgreSQL container and returns a
// migrated connection. Skipped when docker is unavailable.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "foodshare",
				"POSTGRES_PASSWORD": "foodshare",
				"POSTGRES_DB":       "foodshare_test",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=foodshare password=foodshare dbname=foodshare_test sslmode=disable",
		host, port.Port())

	var db *gorm.DB
	// The log line can precede the server accepting connections; retry briefly.
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestPostgresUniqueConstraints(t *testing.T) {
	db := setupPostgres(t)
	svc := service.NewMembershipService(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	viewer := testutil.CreateUser(t, db, "viewer")
	ing := testutil.CreateIngredient(t, db, "flour", "g")
	tag := testutil.CreateTag(t, db, "bake")

	recipe, err := service.NewRecipeService(db, nil).CreateRecipe(ctx, author.ID, &service.RecipeInput{
		Name:        "Bread",
		Text:        "Bake it.",
		CookingTime: 60,
		TagIDs:      []uint{tag.ID},
		Ingredients: []service.IngredientAmount{{IngredientID: ing.ID, Amount: 500}},
	})
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	follows := service.NewFollowService(db)
	_, err = follows.Follow(ctx, viewer.ID, author.ID)
	require.NoError(t, err)
	_, err = follows.Follow(ctx, viewer.ID, author.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyFollowing)
}

func TestPostgresShoppingListAggregation(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	viewer := testutil.CreateUser(t, db, "viewer")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	sugar := testutil.CreateIngredient(t, db, "sugar", "g")
	tag := testutil.CreateTag(t, db, "bake")

	recipes := service.NewRecipeService(db, nil)
	memberships := service.NewMembershipService(db)

	for _, spec := range []struct {
		name string
		rows []service.IngredientAmount
	}{
		{"Bread", []service.IngredientAmount{{IngredientID: flour.ID, Amount: 500}}},
		{"Cake", []service.IngredientAmount{
			{IngredientID: flour.ID, Amount: 300},
			{IngredientID: sugar.ID, Amount: 200},
		}},
	} {
		recipe, err := recipes.CreateRecipe(ctx, author.ID, &service.RecipeInput{
			Name:        spec.name,
			Text:        "Bake it.",
			CookingTime: 60,
			TagIDs:      []uint{tag.ID},
			Ingredients: spec.rows,
		})
		require.NoError(t, err)
		_, err = memberships.AddToCart(ctx, viewer.ID, recipe.ID)
		require.NoError(t, err)
	}

	items, err := service.NewShoppingListService(db, service.NewPDFRenderer()).Aggregate(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "flour", items[0].Name)
	assert.Equal(t, 800, items[0].Amount)
	assert.Equal(t, "sugar", items[1].Name)
	assert.Equal(t, 200, items[1].Amount)
}

func TestPostgresCascadeDelete(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	viewer := testutil.CreateUser(t, db, "viewer")
	ing := testutil.CreateIngredient(t, db, "flour", "g")
	tag := testutil.CreateTag(t, db, "bake")

	recipes := service.NewRecipeService(db, nil)
	memberships := service.NewMembershipService(db)

	recipe, err := recipes.CreateRecipe(ctx, author.ID, &service.RecipeInput{
		Name:        "Bread",
		Text:        "Bake it.",
		CookingTime: 60,
		TagIDs:      []uint{tag.ID},
		Ingredients: []service.IngredientAmount{{IngredientID: ing.ID, Amount: 500}},
	})
	require.NoError(t, err)

	_, err = memberships.AddFavorite(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)
	_, err = memberships.AddToCart(ctx, viewer.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, recipes.DeleteRecipe(ctx, author.ID, recipe.ID))

	assert.False(t, memberships.IsFavorited(ctx, viewer.ID, recipe.ID))
	assert.False(t, memberships.IsInCart(ctx, viewer.ID, recipe.ID))
}
