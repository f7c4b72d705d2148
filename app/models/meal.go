package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meal is a catalog entry a chef offers for sale.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FoodName    string             `bson:"foodName" json:"foodName"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Rating      float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	ImageURL    string             `bson:"foodImg,omitempty" json:"foodImg,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	ChefID      string             `bson:"chefId,omitempty" json:"chefId,omitempty"`
	ChefName    string             `bson:"chefName,omitempty" json:"chefName,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Favorite marks a meal a user has saved. One per (userEmail, foodId).
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	FoodID    string             `bson:"foodId" json:"foodId"`
	FoodName  string             `bson:"foodName,omitempty" json:"foodName,omitempty"`
	ImageURL  string             `bson:"foodImg,omitempty" json:"foodImg,omitempty"`
	AddedAt   time.Time          `bson:"addedAt,omitempty" json:"addedAt,omitempty"`
}

// Review is a user's rating and comment on a meal.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FoodID    string             `bson:"foodId" json:"foodId"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	UserName  string             `bson:"userName,omitempty" json:"userName,omitempty"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}
