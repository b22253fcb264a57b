package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/models"
)

// MembershipService implements the favorite and shopping-cart toggles.
// Add fails when the row already exists, Remove fails when it doesn't;
// there are no partial states. The existence check is backed by the
// composite unique index, so a concurrent double-add still lets exactly
// one request win.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

func (s *MembershipService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.add(ctx, &models.Favorite{}, &row, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *MembershipService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, &models.Favorite{}, userID, recipeID)
}

func (s *MembershipService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.add(ctx, &models.ShoppingCart{}, &row, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *MembershipService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, &models.ShoppingCart{}, userID, recipeID)
}

// IsFavorited reports whether the user has favorited the recipe.
func (s *MembershipService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) bool {
	return s.exists(ctx, &models.Favorite{}, userID, recipeID)
}

// IsInCart reports whether the recipe is in the user's shopping cart.
func (s *MembershipService) IsInCart(ctx context.Context, userID, recipeID uuid.UUID) bool {
	return s.exists(ctx, &models.ShoppingCart{}, userID, recipeID)
}

func (s *MembershipService) recipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &recipe, nil
}

func (s *MembershipService) add(ctx context.Context, model, row interface{}, userID, recipeID uuid.UUID) error {
	if s.exists(ctx, model, userID, recipeID) {
		return ErrAlreadyExists
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		// Lost the race against a concurrent add; the unique index decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *MembershipService) remove(ctx context.Context, model interface{}, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MembershipService) exists(ctx context.Context, model interface{}, userID, recipeID uuid.UUID) bool {
	var count int64
	s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count)
	return count > 0
}
