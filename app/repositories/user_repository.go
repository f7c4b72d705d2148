package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := mongodb.Collection(mongodb.ColUsers).
		FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return user, apperr.NotFound("user %s not found", email)
		}
		return user, apperr.Internal("find user", err)
	}
	return user, nil
}

// Upsert creates or refreshes a user record keyed by email. Signup hits
// this on every login, so an existing record is updated in place.
func (r *UserRepository) Upsert(ctx context.Context, user models.User) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"photoURL":  user.PhotoURL,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"email":     user.Email,
			"password":  user.Password,
			"role":      user.Role,
			"status":    user.Status,
			"createdAt": now,
		},
	}
	_, err := mongodb.Collection(mongodb.ColUsers).UpdateOne(ctx,
		bson.M{"email": user.Email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Internal("upsert user", err)
	}
	return nil
}

// SetRole overwrites the user's role.
func (r *UserRepository) SetRole(ctx context.Context, email, role string) error {
	res, err := mongodb.Collection(mongodb.ColUsers).UpdateOne(ctx,
		bson.M{"email": email}, bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}})
	if err != nil {
		return apperr.Internal("set user role", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user %s not found", email)
	}
	return nil
}

// AssignChef sets role=chef and the chef handle in one write. The sparse
// unique index on chefId rejects a handle already taken, surfaced as Conflict
// so the caller can draw again.
func (r *UserRepository) AssignChef(ctx context.Context, email, chefID string) error {
	res, err := mongodb.Collection(mongodb.ColUsers).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": models.RoleChef, "chefId": chefID, "updatedAt": time.Now()}})
	if err != nil {
		if mongodb.IsDup(err) {
			return apperr.Conflict("chef id %s already assigned", chefID)
		}
		return apperr.Internal("assign chef id", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user %s not found", email)
	}
	return nil
}

// SetStatus marks an account active or fraud.
func (r *UserRepository) SetStatus(ctx context.Context, email, status string) error {
	res, err := mongodb.Collection(mongodb.ColUsers).UpdateOne(ctx,
		bson.M{"email": email}, bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	if err != nil {
		return apperr.Internal("set user status", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user %s not found", email)
	}
	return nil
}

// All returns all users, newest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := mongodb.Collection(mongodb.ColUsers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, apperr.Internal("decode users", err)
	}
	return users, nil
}
