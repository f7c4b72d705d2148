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

// ReviewRepository handles database operations for meal reviews.
type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// Insert persists a review and fills in its generated id.
func (r *ReviewRepository) Insert(ctx context.Context, review *models.Review) (string, error) {
	res, err := mongodb.Collection(mongodb.ColReviews).InsertOne(ctx, review)
	if err != nil {
		return "", apperr.Internal("insert review", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	review.ID = oid
	return oid.Hex(), nil
}

// ListByFood returns reviews for the given meal, newest first. An empty
// foodId returns all reviews.
func (r *ReviewRepository) ListByFood(ctx context.Context, foodID string) ([]models.Review, error) {
	filter := bson.M{}
	if foodID != "" {
		filter["foodId"] = foodID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := mongodb.Collection(mongodb.ColReviews).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal("list reviews", err)
	}
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, apperr.Internal("decode reviews", err)
	}
	return reviews, nil
}

// Delete removes a review by its hex id.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid review id")
	}
	res, err := mongodb.Collection(mongodb.ColReviews).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal("delete review", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("review %s not found", id)
	}
	return nil
}
