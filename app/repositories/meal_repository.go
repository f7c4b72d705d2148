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

// MealRepository handles database operations for the meal catalog.
type MealRepository struct{}

func NewMealRepository() *MealRepository {
	return &MealRepository{}
}

// SearchParams narrows and orders a catalog listing.
type SearchParams struct {
	Query     string // case-insensitive substring of foodName
	SortField string // e.g. "price", "rating"; empty sorts by createdAt
	SortAsc   bool
	Skip      int64
	Limit     int64
}

// listProjection trims list results to the fields the catalog page shows.
var listProjection = bson.M{
	"foodName": 1, "price": 1, "rating": 1, "foodImg": 1,
	"category": 1, "chefId": 1, "chefName": 1, "createdAt": 1,
}

// Search returns matching meals plus the total match count.
func (r *MealRepository) Search(ctx context.Context, p SearchParams) ([]models.Meal, int64, error) {
	filter := bson.M{}
	if p.Query != "" {
		filter["foodName"] = bson.M{"$regex": p.Query, "$options": "i"}
	}

	col := mongodb.Collection(mongodb.ColMeals)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal("count meals", err)
	}

	sortField := p.SortField
	if sortField == "" {
		sortField = "createdAt"
	}
	dir := -1
	if p.SortAsc {
		dir = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: dir}}).
		SetSkip(p.Skip).
		SetLimit(p.Limit).
		SetProjection(listProjection)

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal("search meals", err)
	}
	var meals []models.Meal
	if err := cur.All(ctx, &meals); err != nil {
		return nil, 0, apperr.Internal("decode meals", err)
	}
	return meals, total, nil
}

// Featured returns the n newest meals.
func (r *MealRepository) Featured(ctx context.Context, n int64) ([]models.Meal, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(n).
		SetProjection(listProjection)
	cur, err := mongodb.Collection(mongodb.ColMeals).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("featured meals", err)
	}
	var meals []models.Meal
	if err := cur.All(ctx, &meals); err != nil {
		return nil, apperr.Internal("decode meals", err)
	}
	return meals, nil
}

// FindByID looks up a meal by its hex id.
func (r *MealRepository) FindByID(ctx context.Context, id string) (models.Meal, error) {
	var meal models.Meal
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return meal, apperr.Validation("invalid meal id")
	}
	err = mongodb.Collection(mongodb.ColMeals).
		FindOne(ctx, bson.M{"_id": oid}).Decode(&meal)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return meal, apperr.NotFound("meal %s not found", id)
		}
		return meal, apperr.Internal("find meal", err)
	}
	return meal, nil
}

// SetImage stores the public URL of an uploaded meal photo.
func (r *MealRepository) SetImage(ctx context.Context, id, url string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid meal id")
	}
	res, err := mongodb.Collection(mongodb.ColMeals).
		UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"foodImg": url}})
	if err != nil {
		return apperr.Internal("set meal image", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("meal %s not found", id)
	}
	return nil
}

// Insert persists a new meal and fills in its generated id.
func (r *MealRepository) Insert(ctx context.Context, meal *models.Meal) (string, error) {
	res, err := mongodb.Collection(mongodb.ColMeals).InsertOne(ctx, meal)
	if err != nil {
		return "", apperr.Internal("insert meal", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	meal.ID = oid
	return oid.Hex(), nil
}
