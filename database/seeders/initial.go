package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/config"
	"github.com/shashiranjanraj/chefhut/pkg/auth"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
)

func init() {
	Register("admin-user", SeedAdminUser)
	Register("sample-meals", SeedSampleMeals)
}

// SeedAdminUser upserts the bootstrap admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD. Without it nobody can resolve elevation requests.
func SeedAdminUser(ctx context.Context) error {
	email := config.AdminEmail()
	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return err
	}

	_, err = mongodb.Collection(mongodb.ColUsers).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"password":  hash,
				"role":      models.RoleAdmin,
				"status":    models.StatusActive,
				"updatedAt": time.Now(),
			},
			"$setOnInsert": bson.M{
				"email":     email,
				"name":      "Chefhut Admin",
				"createdAt": time.Now(),
			},
		},
		options.Update().SetUpsert(true))
	return err
}

// SeedSampleMeals inserts a small starter catalog when the collection is
// empty, so a fresh install has something on the landing page.
func SeedSampleMeals(ctx context.Context) error {
	col := mongodb.Collection(mongodb.ColMeals)

	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now()
	meals := []interface{}{
		models.Meal{FoodName: "Kacchi Biryani", Price: 550, Rating: 4.8, Category: "rice", ChefID: "chef-0001", ChefName: "Rahim", CreatedAt: now},
		models.Meal{FoodName: "Beef Tehari", Price: 320, Rating: 4.5, Category: "rice", ChefID: "chef-0001", ChefName: "Rahim", CreatedAt: now.Add(-time.Hour)},
		models.Meal{FoodName: "Chicken Korma", Price: 280, Rating: 4.2, Category: "curry", ChefID: "chef-0002", ChefName: "Karim", CreatedAt: now.Add(-2 * time.Hour)},
		models.Meal{FoodName: "Shorshe Ilish", Price: 650, Rating: 4.9, Category: "fish", ChefID: "chef-0002", ChefName: "Karim", CreatedAt: now.Add(-3 * time.Hour)},
		models.Meal{FoodName: "Dal Bhuna", Price: 120, Rating: 4.0, Category: "vegetarian", ChefID: "chef-0003", ChefName: "Salma", CreatedAt: now.Add(-4 * time.Hour)},
		models.Meal{FoodName: "Fuchka Platter", Price: 150, Rating: 4.6, Category: "street", ChefID: "chef-0003", ChefName: "Salma", CreatedAt: now.Add(-5 * time.Hour)},
	}
	_, err = col.InsertMany(ctx, meals)
	return err
}
