package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
)

// RequestRepository handles database operations for elevation requests.
type RequestRepository struct{}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{}
}

// HasPending reports whether a pending request already exists for the
// (email, type) pair. Advisory only; the partial unique index is the real
// guard against the concurrent-submit race.
func (r *RequestRepository) HasPending(ctx context.Context, email, reqType string) (bool, error) {
	n, err := mongodb.Collection(mongodb.ColRequests).CountDocuments(ctx, bson.M{
		"userEmail":   email,
		"requestType": reqType,
		"status":      models.RequestPending,
	})
	if err != nil {
		return false, apperr.Internal("count pending requests", err)
	}
	return n > 0, nil
}

// Insert persists a new request. A duplicate-key error from the partial
// unique index means another pending request won the race; it maps to Conflict.
func (r *RequestRepository) Insert(ctx context.Context, req *models.Request) (string, error) {
	res, err := mongodb.Collection(mongodb.ColRequests).InsertOne(ctx, req)
	if err != nil {
		if mongodb.IsDup(err) {
			return "", apperr.Conflict("a pending %s request already exists for %s", req.RequestType, req.UserEmail)
		}
		return "", apperr.Internal("insert request", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	req.ID = oid
	return oid.Hex(), nil
}

// FindByID looks up a request by its hex id.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (models.Request, error) {
	var req models.Request
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return req, apperr.Validation("invalid request id")
	}
	err = mongodb.Collection(mongodb.ColRequests).
		FindOne(ctx, bson.M{"_id": oid}).Decode(&req)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return req, apperr.NotFound("request %s not found", id)
		}
		return req, apperr.Internal("find request", err)
	}
	return req, nil
}

// ListFilter narrows the request listing.
type ListFilter struct {
	UserEmail string
	Status    string
}

// List returns matching requests newest first, plus the total match count.
func (r *RequestRepository) List(ctx context.Context, f ListFilter, page, limit int) ([]models.Request, int64, error) {
	filter := bson.M{}
	if f.UserEmail != "" {
		filter["userEmail"] = f.UserEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	col := mongodb.Collection(mongodb.ColRequests)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal("count requests", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal("list requests", err)
	}
	var requests []models.Request
	if err := cur.All(ctx, &requests); err != nil {
		return nil, 0, apperr.Internal("decode requests", err)
	}
	return requests, total, nil
}

// Resolve moves a request out of pending. The caller has already checked
// the current status; the write is a plain overwrite.
func (r *RequestRepository) Resolve(ctx context.Context, id primitive.ObjectID, status string, reviewedAt time.Time) error {
	res, err := mongodb.Collection(mongodb.ColRequests).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "reviewedAt": reviewedAt}})
	if err != nil {
		return apperr.Internal("resolve request", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("request %s not found", id.Hex())
	}
	return nil
}
