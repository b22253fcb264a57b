package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/models"
)

// IngredientAmount is one submitted (ingredient, amount) pair.
type IngredientAmount struct {
	IngredientID uint `json:"id" binding:"required"`
	Amount       int  `json:"amount" binding:"required"`
}

// RecipeInput is the payload for recipe create and update.
type RecipeInput struct {
	Name        string             `json:"name" binding:"required"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required"`
	Image       string             `json:"image"`
	TagIDs      []uint             `json:"tags" binding:"required"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required"`
}

// Validate checks the submitted payload before anything is written.
// Duplicate ingredients, non-positive amounts, an empty or duplicated tag
// set, and a non-positive cooking time are all rejected.
func (in *RecipeInput) Validate() error {
	seen := make(map[uint]bool, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		if seen[ia.IngredientID] {
			return ErrDuplicateIngredient
		}
		seen[ia.IngredientID] = true
		if ia.Amount <= 0 {
			return ErrInvalidAmount
		}
	}

	if len(in.TagIDs) == 0 {
		return ErrEmptyTagSet
	}
	seenTags := make(map[uint]bool, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if seenTags[id] {
			return ErrDuplicateTag
		}
		seenTags[id] = true
	}

	if in.CookingTime <= 0 {
		return ErrInvalidCookingTime
	}
	return nil
}

// ImageStore resolves a submitted image into an opaque URL reference.
type ImageStore interface {
	UploadBase64(ctx context.Context, dataURI string) (string, error)
}

// RecipeFilter narrows ListRecipes results.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// RecipeService handles recipe reads and writes.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// CreateRecipe validates the payload and persists the recipe with its
// ingredient associations and tag set in one transaction. Returns the
// materialized recipe for response rendering.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in *RecipeInput) (*models.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredientsExist(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL, err := s.resolveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    imageURL,
		AuthorID:    &authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe overwrites the scalar fields and fully replaces the tag set
// and ingredient associations (delete then recreate, not a merge). The
// whole replacement runs in one transaction so readers never observe a
// recipe with zero ingredients.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, in *RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, notFoundOr(err)
	}
	if recipe.AuthorID == nil || *recipe.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredientsExist(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if in.Image != "" {
		imageURL, err = s.resolveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image_url":    imageURL,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a fully materialized recipe by ID.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe together with its ingredient rows, tag
// links and any favorite or cart entries pointing at it. Only the author
// may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return notFoundOr(err)
	}
	if recipe.AuthorID == nil || *recipe.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// ListRecipes lists recipes newest first, optionally filtered by author,
// tag slugs, favorited-by and in-cart-of.
func (s *RecipeService) ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC")

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs).
			Distinct()
	}
	if f.FavoritedBy != nil {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *f.FavoritedBy)
	}
	if f.InCartOf != nil {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", *f.InCartOf)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrNotFound
	}
	return tags, nil
}

func (s *RecipeService) checkIngredientsExist(ctx context.Context, pairs []IngredientAmount) error {
	ids := make([]uint, len(pairs))
	for i, p := range pairs {
		ids[i] = p.IngredientID
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrNotFound
	}
	return nil
}

func (s *RecipeService) resolveImage(ctx context.Context, image string) (string, error) {
	if s.images == nil || !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	return s.images.UploadBase64(ctx, image)
}

func createIngredientRows(tx *gorm.DB, recipeID uuid.UUID, pairs []IngredientAmount) error {
	for _, p := range pairs {
		row := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: p.IngredientID,
			Amount:       p.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
