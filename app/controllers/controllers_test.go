package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/payment"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// ------------------- in-memory stores -------------------

type memRequests struct {
	byID map[string]*models.Request
}

func (m *memRequests) HasPending(_ context.Context, email, reqType string) (bool, error) {
	for _, r := range m.byID {
		if r.UserEmail == email && r.RequestType == reqType && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRequests) Insert(_ context.Context, req *models.Request) (string, error) {
	req.ID = primitive.NewObjectID()
	m.byID[req.ID.Hex()] = req
	return req.ID.Hex(), nil
}

func (m *memRequests) FindByID(_ context.Context, id string) (models.Request, error) {
	r, ok := m.byID[id]
	if !ok {
		return models.Request{}, apperr.NotFound("request %s not found", id)
	}
	return *r, nil
}

func (m *memRequests) List(_ context.Context, f repositories.ListFilter, page, limit int) ([]models.Request, int64, error) {
	var out []models.Request
	for _, r := range m.byID {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.UserEmail != "" && r.UserEmail != f.UserEmail {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *memRequests) Resolve(_ context.Context, id primitive.ObjectID, status string, at time.Time) error {
	r, ok := m.byID[id.Hex()]
	if !ok {
		return apperr.NotFound("request %s not found", id.Hex())
	}
	r.Status = status
	r.ReviewedAt = &at
	return nil
}

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return models.User{}, apperr.NotFound("user %s not found", email)
	}
	return *u, nil
}

func (m *memUsers) SetRole(_ context.Context, email, role string) error {
	m.byEmail[email].Role = role
	return nil
}

func (m *memUsers) AssignChef(_ context.Context, email, chefID string) error {
	u := m.byEmail[email]
	u.Role = models.RoleChef
	u.ChefID = chefID
	return nil
}

type memOrders struct {
	byID map[string]*models.Order
}

func (m *memOrders) Insert(_ context.Context, o *models.Order) (string, error) {
	o.ID = primitive.NewObjectID()
	m.byID[o.ID.Hex()] = o
	return o.ID.Hex(), nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (models.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order %s not found", id)
	}
	return *o, nil
}

func (m *memOrders) SetStatus(_ context.Context, id, status string) error {
	o, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("order %s not found", id)
	}
	o.OrderStatus = status
	return nil
}

func (m *memOrders) SetCheckoutSession(_ context.Context, id, sid string) error {
	o, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("order %s not found", id)
	}
	o.CheckoutSessionID = sid
	return nil
}

func (m *memOrders) MarkPaid(_ context.Context, id string) error {
	o, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("order %s not found", id)
	}
	o.PaymentStatus = models.PaymentPaid
	return nil
}

func (m *memOrders) ListByChef(_ context.Context, chefID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.byID {
		if o.ChefID == chefID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) ListByUser(_ context.Context, email string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.byID {
		if email == "" || o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) ListUnreconciled(_ context.Context, limit int64) ([]models.Order, error) {
	return nil, nil
}

type memGateway struct {
	sessions map[string]payment.Session
	n        int
}

func (g *memGateway) CreateSession(p payment.CheckoutParams) (payment.Session, error) {
	g.n++
	s := payment.Session{
		ID:            fmt.Sprintf("cs_%d", g.n),
		URL:           "https://checkout.example/redirect",
		PaymentStatus: "paid",
		Metadata:      p.Metadata,
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *memGateway) RetrieveSession(id string) (payment.Session, error) {
	s, ok := g.sessions[id]
	if !ok {
		return payment.Session{}, fmt.Errorf("no such session")
	}
	return s, nil
}

// ------------------- harness -------------------

type fixture struct {
	srv    *httptest.Server
	orders *memOrders
	users  *memUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	requests := &memRequests{byID: map[string]*models.Request{}}
	users := &memUsers{byEmail: map[string]*models.User{
		"a@x.com": {Email: "a@x.com", Name: "A", Role: models.RoleUser},
	}}
	orders := &memOrders{byID: map[string]*models.Order{}}
	gateway := &memGateway{sessions: map[string]payment.Session{}}

	elevation := services.NewElevationService(requests, users)
	orderSvc := services.NewOrderService(orders)
	paymentSvc := services.NewPaymentService(orders, gateway, "https://chefhut.example", 110)

	rc := NewRequestController(elevation)
	oc := NewOrderController(orderSvc)
	pc := NewPaymentController(paymentSvc)

	r := router.New()
	r.Post("/requests", "requests.submit", rc.Submit)
	r.Get("/requests", "requests.list", rc.List)
	r.Patch("/requests/{id}", "requests.resolve", rc.Resolve)
	r.Post("/orders", "orders.create", oc.Create)
	r.Patch("/orders/{id}", "orders.status", oc.SetStatus)
	r.Get("/orders/chef", "orders.chef", oc.ListForChef)
	r.Get("/orders", "orders.user", oc.ListForUser)
	r.Post("/create-checkout-session", "payment.checkout", pc.CreateCheckoutSession)
	r.Patch("/payment-success", "payment.confirm", pc.ConfirmPayment)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, orders: orders, users: users}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

// ------------------- tests -------------------

func TestSubmitThenDuplicateScenario(t *testing.T) {
	f := newFixture(t)

	body := map[string]string{"userEmail": "a@x.com", "userName": "A", "requestType": "chef"}

	res, out := f.do(t, http.MethodPost, "/requests", body)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	data := out["data"].(map[string]interface{})
	assert.NotEmpty(t, data["insertedId"])
	assert.Equal(t, "pending", data["request"].(map[string]interface{})["status"])

	res, _ = f.do(t, http.MethodPost, "/requests", body)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestSubmitValidationErrors(t *testing.T) {
	f := newFixture(t)

	res, _ := f.do(t, http.MethodPost, "/requests", map[string]string{"userName": "A", "requestType": "chef"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = f.do(t, http.MethodPost, "/requests", map[string]string{
		"userEmail": "a@x.com", "userName": "A", "requestType": "owner",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestResolveApproveOverHTTP(t *testing.T) {
	f := newFixture(t)

	_, out := f.do(t, http.MethodPost, "/requests", map[string]string{
		"userEmail": "a@x.com", "userName": "A", "requestType": "chef",
	})
	id := out["data"].(map[string]interface{})["insertedId"].(string)

	res, out := f.do(t, http.MethodPatch, "/requests/"+id, map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	data := out["data"].(map[string]interface{})
	assert.Equal(t, "approved", data["request"].(map[string]interface{})["status"])
	updated := data["updatedUser"].(map[string]interface{})
	assert.Equal(t, "chef", updated["role"])
	assert.Regexp(t, `^chef-\d{4}$`, updated["chefId"])

	// Second resolution of the same request fails.
	res, _ = f.do(t, http.MethodPatch, "/requests/"+id, map[string]string{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Unknown id is a 404.
	res, _ = f.do(t, http.MethodPatch, "/requests/64b000000000000000000000", map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestOrderLifecycleScenario(t *testing.T) {
	f := newFixture(t)

	res, out := f.do(t, http.MethodPost, "/orders", map[string]interface{}{
		"foodId": "f1", "price": 100, "quantity": 1,
		"userAddress": "addr", "chefId": "chef-0001", "userEmail": "a@x.com",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	data := out["data"].(map[string]interface{})
	id := data["insertedId"].(string)
	order := data["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["orderStatus"])
	assert.Equal(t, "Pending", order["paymentStatus"])

	res, _ = f.do(t, http.MethodPatch, "/orders/"+id, map[string]string{"orderStatus": "accepted"})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = f.do(t, http.MethodPatch, "/orders/"+id, map[string]string{"orderStatus": "not-a-status"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	stored, err := f.orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "accepted", stored.OrderStatus)

	// Missing body fields are a 400.
	res, _ = f.do(t, http.MethodPost, "/orders", map[string]interface{}{"foodId": "f1"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOrderListingEndpoints(t *testing.T) {
	f := newFixture(t)

	_, _ = f.do(t, http.MethodPost, "/orders", map[string]interface{}{
		"foodId": "f1", "price": 100, "quantity": 1,
		"userAddress": "addr", "chefId": "chef-0001", "userEmail": "a@x.com",
	})

	res, out := f.do(t, http.MethodGet, "/orders/chef?chefId=chef-0001", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, out["data"], 1)

	// chefId is required on the chef listing.
	res, _ = f.do(t, http.MethodGet, "/orders/chef", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, out = f.do(t, http.MethodGet, "/orders?email=a@x.com", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, out["data"], 1)
}

func TestCheckoutRoundTrip(t *testing.T) {
	f := newFixture(t)

	_, out := f.do(t, http.MethodPost, "/orders", map[string]interface{}{
		"foodId": "f1", "price": 550, "quantity": 1, "mealName": "Biryani",
		"userAddress": "addr", "chefId": "chef-0001", "userEmail": "a@x.com",
	})
	orderID := out["data"].(map[string]interface{})["insertedId"].(string)

	res, out := f.do(t, http.MethodPost, "/create-checkout-session", map[string]interface{}{
		"foodId": orderID, "mealName": "Biryani", "email": "a@x.com", "price": 550,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, out["data"].(map[string]interface{})["url"])

	res, out = f.do(t, http.MethodPatch, "/payment-success?session_id=cs_1", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, out["data"].(map[string]interface{})["success"])

	stored, err := f.orders.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)

	// Zero price never reaches the gateway.
	res, _ = f.do(t, http.MethodPost, "/create-checkout-session", map[string]interface{}{
		"foodId": orderID, "mealName": "Biryani", "email": "a@x.com", "price": 0,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Missing session_id is a 400.
	res, _ = f.do(t, http.MethodPatch, "/payment-success", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
