package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Elevation request types.
const (
	RequestChef  = "chef"
	RequestAdmin = "admin"
)

// Elevation request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Request is a user's ask to be granted the chef or admin role.
// At most one pending request may exist per (userEmail, requestType);
// the partial unique index in database/indexes enforces this.
type Request struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	UserName    string             `bson:"userName" json:"userName"`
	RequestType string             `bson:"requestType" json:"requestType"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ReviewedAt  *time.Time         `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

// Pending reports whether the request is still awaiting resolution.
func (r Request) Pending() bool { return r.Status == RequestPending }
