package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
)

// FavoriteStore is the favorite service's view of persistence.
type FavoriteStore interface {
	Insert(ctx context.Context, fav *models.Favorite) (string, error)
	ListByUser(ctx context.Context, email string) ([]models.Favorite, error)
	Delete(ctx context.Context, id string) error
}

// FavoriteService manages saved meals.
type FavoriteService struct {
	favorites FavoriteStore
}

func NewFavoriteService(favorites FavoriteStore) *FavoriteService {
	return &FavoriteService{favorites: favorites}
}

// Add saves a meal for the user. Saving the same meal twice fails with
// Conflict from the unique index on (userEmail, foodId).
func (s *FavoriteService) Add(ctx context.Context, fav models.Favorite) (*models.Favorite, string, error) {
	if fav.UserEmail == "" || fav.FoodID == "" {
		return nil, "", apperr.Validation("userEmail and foodId are required")
	}
	fav.AddedAt = time.Now()

	id, err := s.favorites.Insert(ctx, &fav)
	if err != nil {
		return nil, "", err
	}
	return &fav, id, nil
}

// List returns the user's saved meals.
func (s *FavoriteService) List(ctx context.Context, email string) ([]models.Favorite, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	favs, err := s.favorites.ListByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []models.Favorite{}
	}
	return favs, nil
}

// Remove deletes a favorite by id.
func (s *FavoriteService) Remove(ctx context.Context, id string) error {
	return s.favorites.Delete(ctx, id)
}
