package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
)

// ReviewStore is the review service's view of persistence.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) (string, error)
	ListByFood(ctx context.Context, foodID string) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
}

// ReviewService manages meal reviews.
type ReviewService struct {
	reviews ReviewStore
}

func NewReviewService(reviews ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// Add persists a review for a meal.
func (s *ReviewService) Add(ctx context.Context, review models.Review) (*models.Review, string, error) {
	if review.FoodID == "" || review.UserEmail == "" {
		return nil, "", apperr.Validation("foodId and userEmail are required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, "", apperr.Validation("rating must be between 1 and 5")
	}
	review.CreatedAt = time.Now()

	id, err := s.reviews.Insert(ctx, &review)
	if err != nil {
		return nil, "", err
	}
	return &review, id, nil
}

// List returns reviews for a meal; an empty foodId returns all reviews.
func (s *ReviewService) List(ctx context.Context, foodID string) ([]models.Review, error) {
	reviews, err := s.reviews.ListByFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Remove deletes a review by id.
func (s *ReviewService) Remove(ctx context.Context, id string) error {
	return s.reviews.Delete(ctx, id)
}
