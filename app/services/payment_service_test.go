package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
)

func newPaymentFixture() (*fakeOrderStore, *fakeGateway, *PaymentService, string) {
	store := newFakeOrderStore()
	gw := newFakeGateway()
	svc := NewPaymentService(store, gw, "https://chefhut.example", 110)

	orderID := store.put(models.Order{
		FoodID:        "f1",
		ChefID:        "chef-0001",
		UserEmail:     "a@x.com",
		MealName:      "Biryani",
		Price:         550,
		Quantity:      1,
		UserAddress:   "addr",
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.OrderPending,
	})
	return store, gw, svc, orderID
}

func TestCreateCheckoutSession(t *testing.T) {
	store, gw, svc, orderID := newPaymentFixture()

	url, err := svc.CreateCheckoutSession(context.Background(), CheckoutInput{
		OrderID: orderID, MealName: "Biryani", Email: "a@x.com", Price: 550,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	// 550 BDT at 110 BDT/USD is 5 USD = 500 cents.
	sess := gw.sessions["cs_test_1"]
	assert.Equal(t, int64(500), sess.AmountTotal)
	assert.Equal(t, orderID, sess.Metadata["orderId"])

	// The session id is recorded on the order for the reconcile sweep.
	o, _ := store.FindByID(context.Background(), orderID)
	assert.Equal(t, "cs_test_1", o.CheckoutSessionID)
}

func TestCreateCheckoutSessionZeroAmount(t *testing.T) {
	_, _, svc, orderID := newPaymentFixture()

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutInput{
		OrderID: orderID, MealName: "Biryani", Email: "a@x.com", Price: 0,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestCreateCheckoutSessionMissingFields(t *testing.T) {
	_, _, svc, orderID := newPaymentFixture()

	cases := []CheckoutInput{
		{MealName: "Biryani", Email: "a@x.com", Price: 550},
		{OrderID: orderID, Email: "a@x.com", Price: 550},
		{OrderID: orderID, MealName: "Biryani", Price: 550},
	}
	for _, in := range cases {
		_, err := svc.CreateCheckoutSession(context.Background(), in)
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	}
}

func TestCreateCheckoutSessionGatewayDown(t *testing.T) {
	_, gw, svc, orderID := newPaymentFixture()
	gw.failCreate = true

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutInput{
		OrderID: orderID, MealName: "Biryani", Email: "a@x.com", Price: 550,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInternal))
}

func TestConfirmPaymentPaidIsIdempotent(t *testing.T) {
	store, gw, svc, orderID := newPaymentFixture()

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutInput{
		OrderID: orderID, MealName: "Biryani", Email: "a@x.com", Price: 550,
	})
	require.NoError(t, err)
	gw.settle("cs_test_1")

	for i := 0; i < 2; i++ {
		res, err := svc.ConfirmPayment(context.Background(), "cs_test_1")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, orderID, res.OrderID)

		o, _ := store.FindByID(context.Background(), orderID)
		assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
	}
}

func TestConfirmPaymentUnpaidLeavesOrderAlone(t *testing.T) {
	store, _, svc, orderID := newPaymentFixture()

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutInput{
		OrderID: orderID, MealName: "Biryani", Email: "a@x.com", Price: 550,
	})
	require.NoError(t, err)

	res, err := svc.ConfirmPayment(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.False(t, res.Success)

	o, _ := store.FindByID(context.Background(), orderID)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
}

func TestConfirmPaymentLegacyMetadataKey(t *testing.T) {
	store, gw, svc, orderID := newPaymentFixture()

	// Sessions created by the old frontend put the order id under foodId.
	gw.sessions["cs_legacy"] = fakeLegacySession(orderID)
	gw.settle("cs_legacy")

	res, err := svc.ConfirmPayment(context.Background(), "cs_legacy")
	require.NoError(t, err)
	assert.True(t, res.Success)

	o, _ := store.FindByID(context.Background(), orderID)
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
}

func TestConfirmPaymentErrors(t *testing.T) {
	_, gw, svc, _ := newPaymentFixture()

	_, err := svc.ConfirmPayment(context.Background(), "")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.ConfirmPayment(context.Background(), "cs_unknown")
	assert.True(t, apperr.IsCode(err, apperr.CodeInternal))

	gw.failGet = true
	_, err = svc.ConfirmPayment(context.Background(), "cs_test_1")
	assert.True(t, apperr.IsCode(err, apperr.CodeInternal))
}

func TestReconcilePendingDispatchesSweep(t *testing.T) {
	store, _, svc, orderID := newPaymentFixture()

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutInput{
		OrderID: orderID, MealName: "Biryani", Email: "a@x.com", Price: 550,
	})
	require.NoError(t, err)

	// A paid order and one without a session must not be swept.
	store.put(models.Order{
		FoodID: "f2", ChefID: "c", UserEmail: "b@x.com", UserAddress: "addr",
		PaymentStatus: models.PaymentPaid, CheckoutSessionID: "cs_done",
	})
	store.put(models.Order{
		FoodID: "f3", ChefID: "c", UserEmail: "c@x.com", UserAddress: "addr",
		PaymentStatus: models.PaymentPending,
	})

	var enqueued []string
	n, err := svc.ReconcilePending(context.Background(), func(sessionID string) error {
		enqueued = append(enqueued, sessionID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"cs_test_1"}, enqueued)
}
