package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. Pending → Paid, never reversed.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderAccepted  = "accepted"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderStatuses is the allowed orderStatus value set.
var OrderStatuses = []string{OrderPending, OrderAccepted, OrderDelivered, OrderCancelled}

// ValidOrderStatus reports whether s is an allowed orderStatus value.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a placed purchase of a single meal.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FoodID            string             `bson:"foodId" json:"foodId"`
	ChefID            string             `bson:"chefId" json:"chefId"`
	UserEmail         string             `bson:"userEmail" json:"userEmail"`
	MealName          string             `bson:"mealName,omitempty" json:"mealName,omitempty"`
	Price             float64            `bson:"price" json:"price"`
	Quantity          int                `bson:"quantity" json:"quantity"`
	UserAddress       string             `bson:"userAddress" json:"userAddress"`
	PaymentStatus     string             `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus       string             `bson:"orderStatus" json:"orderStatus"`
	CheckoutSessionID string             `bson:"checkoutSessionId,omitempty" json:"checkoutSessionId,omitempty"`
	OrderTime         time.Time          `bson:"orderTime" json:"orderTime"`
}
