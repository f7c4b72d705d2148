package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
)

// PaymentController exposes checkout creation and confirmation over HTTP.
type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

// CreateCheckoutSession handles POST /create-checkout-session.
// The foodId field carries the order id; the name is kept for frontend
// compatibility.
func (c *PaymentController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	url, err := c.service.CreateCheckoutSession(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"url": url})
}

// ConfirmPayment handles PATCH /payment-success?session_id=.
func (c *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.ConfirmPayment(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, res)
}
