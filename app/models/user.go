package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser  = "user"
	RoleChef  = "chef"
	RoleAdmin = "admin"
)

// User account statuses.
const (
	StatusActive = "active"
	StatusFraud  = "fraud"
)

// User is the primary account model.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"` // hashed, never serialised
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
	ChefID    string             `bson:"chefId,omitempty" json:"chefId,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// IsChef reports whether the account holds the chef role.
func (u User) IsChef() bool { return u.Role == RoleChef }

// IsAdmin reports whether the account holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
