package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/models"
)

// Subscription is a followed author annotated with their recipes.
type Subscription struct {
	User        models.User
	RecipeCount int64
	Recipes     []models.Recipe
}

// FollowService manages author subscriptions.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow subscribes user to author. Self-follow is always rejected.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyFollowing
	}

	row := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	return &author, nil
}

// Unfollow removes the subscription, failing when none exists.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// IsFollowing reports whether user is subscribed to author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count)
	return count > 0
}

// Subscriptions returns every author the user follows, each with a recipe
// count and their most recent recipes. recipesLimit caps the recipes per
// author; zero means no cap.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]Subscription, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.id").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(authors))
	for _, author := range authors {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", author.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}

		query := s.db.WithContext(ctx).
			Where("author_id = ?", author.ID).
			Order("created_at DESC")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, err
		}

		subs = append(subs, Subscription{User: author, RecipeCount: count, Recipes: recipes})
	}
	return subs, nil
}
