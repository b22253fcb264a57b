package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/models"
)

// ShoppingListItem is one aggregated row handed to the renderer.
type ShoppingListItem struct {
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int    `json:"amount"`
}

// ShoppingListRenderer turns aggregated rows into a downloadable document.
type ShoppingListRenderer interface {
	Render(items []ShoppingListItem) ([]byte, error)
	ContentType() string
}

// ShoppingListService aggregates ingredient amounts across a user's
// shopping cart.
type ShoppingListService struct {
	db       *gorm.DB
	renderer ShoppingListRenderer
}

func NewShoppingListService(db *gorm.DB, renderer ShoppingListRenderer) *ShoppingListService {
	return &ShoppingListService{db: db, renderer: renderer}
}

// Aggregate collects every ingredient association reachable through the
// user's cart, groups by (name, measurement unit) and sums the amounts.
// Rows keep the first-seen order of their grouping key; an empty cart
// yields an empty slice.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var rows []ShoppingListItem
	err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("recipe_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		name string
		unit string
	}
	index := make(map[key]int, len(rows))
	items := make([]ShoppingListItem, 0, len(rows))
	for _, r := range rows {
		k := key{r.Name, r.Unit}
		if i, ok := index[k]; ok {
			items[i].Amount += r.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, r)
	}
	return items, nil
}

// Download aggregates the user's cart and renders the document.
func (s *ShoppingListService) Download(ctx context.Context, userID uuid.UUID) ([]byte, string, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.renderer.Render(items)
	if err != nil {
		return nil, "", err
	}
	return doc, s.renderer.ContentType(), nil
}
