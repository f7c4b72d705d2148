package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
)

// FavoriteRepository handles database operations for favorites.
type FavoriteRepository struct{}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{}
}

// Insert persists a favorite. The unique index on (userEmail, foodId)
// rejects a second save of the same meal, surfaced as Conflict.
func (r *FavoriteRepository) Insert(ctx context.Context, fav *models.Favorite) (string, error) {
	res, err := mongodb.Collection(mongodb.ColFavorites).InsertOne(ctx, fav)
	if err != nil {
		if mongodb.IsDup(err) {
			return "", apperr.Conflict("meal already in favorites")
		}
		return "", apperr.Internal("insert favorite", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	fav.ID = oid
	return oid.Hex(), nil
}

// ListByUser returns the user's saved meals, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, email string) ([]models.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})
	cur, err := mongodb.Collection(mongodb.ColFavorites).Find(ctx, bson.M{"userEmail": email}, opts)
	if err != nil {
		return nil, apperr.Internal("list favorites", err)
	}
	var favs []models.Favorite
	if err := cur.All(ctx, &favs); err != nil {
		return nil, apperr.Internal("decode favorites", err)
	}
	return favs, nil
}

// Delete removes a favorite by its hex id.
func (r *FavoriteRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid favorite id")
	}
	res, err := mongodb.Collection(mongodb.ColFavorites).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal("delete favorite", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("favorite %s not found", id)
	}
	return nil
}
