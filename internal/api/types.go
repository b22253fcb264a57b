package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/backend/internal/models"
)

// Explicit view models: the same recipe renders differently depending on
// the endpoint, so each shape is a named type with its own mapper.

// UserView is the public representation of a user.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeSummary is the compact shape returned by the membership toggles
// and inside subscription listings.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// RecipeIngredientView flattens an association row with its catalog data.
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeDetail is the full recipe shape for list and retrieve responses.
type RecipeDetail struct {
	ID               uuid.UUID              `json:"id"`
	Author           *UserView              `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	Tags             []models.Tag           `json:"tags"`
	Image            string                 `json:"image"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	PubDate          time.Time              `json:"pub_date"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
}

// SubscriptionView is a followed author with their recent recipes.
type SubscriptionView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func NewUserView(u *models.User, isSubscribed bool) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// RecipeFlags carries the per-viewer annotations of a recipe.
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorFollowed   bool
}

func NewRecipeDetail(r *models.Recipe, flags RecipeFlags) RecipeDetail {
	ingredients := make([]RecipeIngredientView, len(r.Ingredients))
	for i, row := range r.Ingredients {
		ingredients[i] = RecipeIngredientView{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		}
	}

	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeDetail{
		ID:               r.ID,
		Author:           NewUserView(r.Author, flags.AuthorFollowed),
		Ingredients:      ingredients,
		Tags:             tags,
		Image:            r.ImageURL,
		Name:             r.Name,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.CreatedAt,
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
	}
}
