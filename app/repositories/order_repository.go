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

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Insert persists a new order and fills in its generated id.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) (string, error) {
	res, err := mongodb.Collection(mongodb.ColOrders).InsertOne(ctx, order)
	if err != nil {
		return "", apperr.Internal("insert order", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	order.ID = oid
	return oid.Hex(), nil
}

// FindByID looks up an order by its hex id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return order, apperr.Validation("invalid order id")
	}
	err = mongodb.Collection(mongodb.ColOrders).
		FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return order, apperr.NotFound("order %s not found", id)
		}
		return order, apperr.Internal("find order", err)
	}
	return order, nil
}

// SetStatus unconditionally overwrites orderStatus. Membership in the
// allowed set is checked by the service; no transition graph is enforced.
func (r *OrderRepository) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid order id")
	}
	res, err := mongodb.Collection(mongodb.ColOrders).UpdateOne(ctx,
		bson.M{"_id": oid}, bson.M{"$set": bson.M{"orderStatus": status}})
	if err != nil {
		return apperr.Internal("set order status", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order %s not found", id)
	}
	return nil
}

// SetCheckoutSession records the gateway session created for the order so
// the reconcile sweep can find it later.
func (r *OrderRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid order id")
	}
	_, err = mongodb.Collection(mongodb.ColOrders).UpdateOne(ctx,
		bson.M{"_id": oid}, bson.M{"$set": bson.M{"checkoutSessionId": sessionID}})
	if err != nil {
		return apperr.Internal("set checkout session", err)
	}
	return nil
}

// MarkPaid overwrites paymentStatus to Paid. Overwriting an already paid
// order is a no-op in effect, which keeps confirmation idempotent.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid order id")
	}
	res, err := mongodb.Collection(mongodb.ColOrders).UpdateOne(ctx,
		bson.M{"_id": oid}, bson.M{"$set": bson.M{"paymentStatus": models.PaymentPaid}})
	if err != nil {
		return apperr.Internal("mark order paid", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order %s not found", id)
	}
	return nil
}

// ListByChef returns orders assigned to the given chef, newest first.
func (r *OrderRepository) ListByChef(ctx context.Context, chefID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"chefId": chefID})
}

// ListByUser returns orders placed by the given user. An empty email
// returns all orders; scoping is the API layer's job.
func (r *OrderRepository) ListByUser(ctx context.Context, email string) ([]models.Order, error) {
	filter := bson.M{}
	if email != "" {
		filter["userEmail"] = email
	}
	return r.list(ctx, filter)
}

// ListUnreconciled returns orders still awaiting payment that have a
// recorded checkout session. Input for the reconcile sweep.
func (r *OrderRepository) ListUnreconciled(ctx context.Context, limit int64) ([]models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "orderTime", Value: 1}}).
		SetLimit(limit)
	cur, err := mongodb.Collection(mongodb.ColOrders).Find(ctx, bson.M{
		"paymentStatus":     models.PaymentPending,
		"checkoutSessionId": bson.M{"$exists": true, "$ne": ""},
	}, opts)
	if err != nil {
		return nil, apperr.Internal("list unreconciled orders", err)
	}
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Internal("decode orders", err)
	}
	return orders, nil
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderTime", Value: -1}})
	cur, err := mongodb.Collection(mongodb.ColOrders).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal("list orders", err)
	}
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Internal("decode orders", err)
	}
	return orders, nil
}
