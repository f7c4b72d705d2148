package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
)

func TestCreateOrderDefaults(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store)

	order, id, err := svc.Create(context.Background(), models.Order{
		FoodID:      "f1",
		ChefID:      "chef-0001",
		UserEmail:   "a@x.com",
		UserAddress: "addr",
		Price:       100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.OrderPending, order.OrderStatus)
	assert.Equal(t, 1, order.Quantity)
	assert.False(t, order.OrderTime.IsZero())
}

func TestCreateOrderMissingFields(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore())

	cases := []models.Order{
		{FoodID: "f1", ChefID: "c", UserAddress: "addr"},            // no email
		{ChefID: "c", UserEmail: "a@x.com", UserAddress: "addr"},    // no foodId
		{FoodID: "f1", ChefID: "c", UserEmail: "a@x.com"},           // no address
		{FoodID: "f1", UserEmail: "a@x.com", UserAddress: "addr"},   // no chefId
	}
	for _, order := range cases {
		_, _, err := svc.Create(context.Background(), order)
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	}
}

func TestSetStatusAllowsAnyMemberValue(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store)

	_, id, err := svc.Create(context.Background(), models.Order{
		FoodID: "f1", ChefID: "c", UserEmail: "a@x.com", UserAddress: "addr",
	})
	require.NoError(t, err)

	// Any status is reachable from any status, including leaving a
	// terminal-looking one.
	for _, status := range []string{"accepted", "delivered", "pending", "cancelled"} {
		require.NoError(t, svc.SetStatus(context.Background(), id, status))
		o, _ := store.FindByID(context.Background(), id)
		assert.Equal(t, status, o.OrderStatus)
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store)

	_, id, err := svc.Create(context.Background(), models.Order{
		FoodID: "f1", ChefID: "c", UserEmail: "a@x.com", UserAddress: "addr",
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), id, "accepted"))

	err = svc.SetStatus(context.Background(), id, "not-a-status")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// The order is untouched.
	o, _ := store.FindByID(context.Background(), id)
	assert.Equal(t, "accepted", o.OrderStatus)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore())
	err := svc.SetStatus(context.Background(), "64b000000000000000000000", "accepted")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestListForChefAndUser(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store)

	mk := func(chef, email string) {
		_, _, err := svc.Create(context.Background(), models.Order{
			FoodID: "f1", ChefID: chef, UserEmail: email, UserAddress: "addr",
		})
		require.NoError(t, err)
	}
	mk("chef-0001", "a@x.com")
	mk("chef-0001", "b@x.com")
	mk("chef-0002", "a@x.com")

	byChef, err := svc.ListForChef(context.Background(), "chef-0001")
	require.NoError(t, err)
	assert.Len(t, byChef, 2)

	byUser, err := svc.ListForUser(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	// Absent filter returns everything.
	all, err := svc.ListForUser(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Chef listing without a chefId is a validation error.
	_, err = svc.ListForChef(context.Background(), "")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}
