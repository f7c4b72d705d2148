// Package indexes declares every MongoDB index the backend relies on.
//
// Two of these carry correctness, not just speed:
//   - requests: a partial unique index over (userEmail, requestType) scoped
//     to status "pending" makes the one-pending-request rule atomic; the
//     advisory pre-check in the service only exists for a friendly 409.
//   - users.chefId: a sparse unique index turns the random chef handle draw
//     into retry-on-conflict instead of a data race.
//
// Run via CLI: chefhut db:index
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
)

// Sync creates all indexes. Creation is idempotent; existing indexes with
// the same definition are left alone.
func Sync(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		mongodb.ColUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "chefId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		mongodb.ColRequests: {
			{
				Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "requestType", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": models.RequestPending}),
			},
			{
				Keys: bson.D{{Key: "createdAt", Value: -1}},
			},
		},
		mongodb.ColOrders: {
			{Keys: bson.D{{Key: "chefId", Value: 1}, {Key: "orderTime", Value: -1}}},
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "orderTime", Value: -1}}},
			{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "checkoutSessionId", Value: 1}}},
		},
		mongodb.ColFavorites: {
			{
				Keys:    bson.D{{Key: "userEmail", Value: 1}, {Key: "foodId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		mongodb.ColReviews: {
			{Keys: bson.D{{Key: "foodId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		mongodb.ColMeals: {
			{Keys: bson.D{{Key: "foodName", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for col, ims := range specs {
		names, err := mongodb.Collection(col).Indexes().CreateMany(ctx, ims)
		if err != nil {
			return fmt.Errorf("indexes: %s: %w", col, err)
		}
		logger.Info("indexes synced", "collection", col, "indexes", names)
	}
	return nil
}
