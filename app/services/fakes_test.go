package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/payment"
)

// ------------------- request store -------------------

type fakeRequestStore struct {
	requests map[string]*models.Request
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[string]*models.Request{}}
}

func (f *fakeRequestStore) HasPending(_ context.Context, email, reqType string) (bool, error) {
	for _, r := range f.requests {
		if r.UserEmail == email && r.RequestType == reqType && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestStore) Insert(_ context.Context, req *models.Request) (string, error) {
	for _, r := range f.requests {
		if r.UserEmail == req.UserEmail && r.RequestType == req.RequestType && r.Status == models.RequestPending {
			return "", apperr.Conflict("a pending %s request already exists", req.RequestType)
		}
	}
	req.ID = primitive.NewObjectID()
	f.requests[req.ID.Hex()] = req
	return req.ID.Hex(), nil
}

func (f *fakeRequestStore) FindByID(_ context.Context, id string) (models.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return models.Request{}, apperr.NotFound("request %s not found", id)
	}
	return *r, nil
}

func (f *fakeRequestStore) List(_ context.Context, filter repositories.ListFilter, page, limit int) ([]models.Request, int64, error) {
	var all []models.Request
	for _, r := range f.requests {
		if filter.UserEmail != "" && r.UserEmail != filter.UserEmail {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		all = append(all, *r)
	}
	return all, int64(len(all)), nil
}

func (f *fakeRequestStore) Resolve(_ context.Context, id primitive.ObjectID, status string, reviewedAt time.Time) error {
	r, ok := f.requests[id.Hex()]
	if !ok {
		return apperr.NotFound("request %s not found", id.Hex())
	}
	r.Status = status
	r.ReviewedAt = &reviewedAt
	return nil
}

// ------------------- role store -------------------

type fakeRoleStore struct {
	users       map[string]*models.User
	takenChefID map[string]bool
}

func newFakeRoleStore(users ...models.User) *fakeRoleStore {
	f := &fakeRoleStore{users: map[string]*models.User{}, takenChefID: map[string]bool{}}
	for i := range users {
		u := users[i]
		f.users[u.Email] = &u
		if u.ChefID != "" {
			f.takenChefID[u.ChefID] = true
		}
	}
	return f
}

func (f *fakeRoleStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return models.User{}, apperr.NotFound("user %s not found", email)
	}
	return *u, nil
}

func (f *fakeRoleStore) SetRole(_ context.Context, email, role string) error {
	u, ok := f.users[email]
	if !ok {
		return apperr.NotFound("user %s not found", email)
	}
	u.Role = role
	return nil
}

func (f *fakeRoleStore) AssignChef(_ context.Context, email, chefID string) error {
	u, ok := f.users[email]
	if !ok {
		return apperr.NotFound("user %s not found", email)
	}
	if f.takenChefID[chefID] {
		return apperr.Conflict("chef id %s already assigned", chefID)
	}
	f.takenChefID[chefID] = true
	u.Role = models.RoleChef
	u.ChefID = chefID
	return nil
}

// ------------------- order store -------------------

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*models.Order{}}
}

func (f *fakeOrderStore) put(o models.Order) string {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	f.orders[o.ID.Hex()] = &o
	return o.ID.Hex()
}

func (f *fakeOrderStore) Insert(_ context.Context, order *models.Order) (string, error) {
	order.ID = primitive.NewObjectID()
	f.orders[order.ID.Hex()] = order
	return order.ID.Hex(), nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id string) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order %s not found", id)
	}
	return *o, nil
}

func (f *fakeOrderStore) SetStatus(_ context.Context, id, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order %s not found", id)
	}
	o.OrderStatus = status
	return nil
}

func (f *fakeOrderStore) SetCheckoutSession(_ context.Context, id, sessionID string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order %s not found", id)
	}
	o.CheckoutSessionID = sessionID
	return nil
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, id string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order %s not found", id)
	}
	o.PaymentStatus = models.PaymentPaid
	return nil
}

func (f *fakeOrderStore) ListByChef(_ context.Context, chefID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.ChefID == chefID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, email string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if email == "" || o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListUnreconciled(_ context.Context, limit int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.PaymentStatus == models.PaymentPending && o.CheckoutSessionID != "" {
			out = append(out, *o)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// ------------------- payment gateway -------------------

type fakeGateway struct {
	sessions   map[string]payment.Session
	created    int
	failCreate bool
	failGet    bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]payment.Session{}}
}

func (g *fakeGateway) CreateSession(p payment.CheckoutParams) (payment.Session, error) {
	if g.failCreate {
		return payment.Session{}, fmt.Errorf("gateway unreachable")
	}
	g.created++
	s := payment.Session{
		ID:            fmt.Sprintf("cs_test_%d", g.created),
		URL:           fmt.Sprintf("https://checkout.example/%d", g.created),
		PaymentStatus: "unpaid",
		AmountTotal:   p.UnitAmount,
		CustomerEmail: p.CustomerEmail,
		Metadata:      p.Metadata,
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *fakeGateway) RetrieveSession(id string) (payment.Session, error) {
	if g.failGet {
		return payment.Session{}, fmt.Errorf("gateway unreachable")
	}
	s, ok := g.sessions[id]
	if !ok {
		return payment.Session{}, fmt.Errorf("no such session %s", id)
	}
	return s, nil
}

func fakeLegacySession(orderID string) payment.Session {
	return payment.Session{
		ID:            "cs_legacy",
		PaymentStatus: "unpaid",
		Metadata:      map[string]string{"foodId": orderID},
	}
}

func (g *fakeGateway) settle(id string) {
	s := g.sessions[id]
	s.PaymentStatus = "paid"
	g.sessions[id] = s
}
