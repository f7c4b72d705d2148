package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// OrderController exposes the order lifecycle over HTTP.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type createOrderInput struct {
	FoodID        string  `json:"foodId" validate:"required"`
	ChefID        string  `json:"chefId" validate:"required"`
	UserEmail     string  `json:"userEmail" validate:"required,email"`
	MealName      string  `json:"mealName"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Quantity      int     `json:"quantity" validate:"nullable,gte=1"`
	UserAddress   string  `json:"userAddress" validate:"required"`
	PaymentStatus string  `json:"paymentStatus" validate:"nullable,in=Pending,Paid"`
	OrderStatus   string  `json:"orderStatus" validate:"nullable,in=pending,accepted,delivered,cancelled"`
}

// Create handles POST /orders.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in createOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	order, id, err := c.service.Create(r.Context(), models.Order{
		FoodID:        in.FoodID,
		ChefID:        in.ChefID,
		UserEmail:     in.UserEmail,
		MealName:      in.MealName,
		Price:         in.Price,
		Quantity:      in.Quantity,
		UserAddress:   in.UserAddress,
		PaymentStatus: in.PaymentStatus,
		OrderStatus:   in.OrderStatus,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"insertedId": id,
		"order":      order,
	})
}

type setOrderStatusInput struct {
	OrderStatus string `json:"orderStatus" validate:"required"`
}

// SetStatus handles PATCH /orders/{id}.
func (c *OrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in setOrderStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	if err := c.service.SetStatus(r.Context(), router.Param(r, "id"), in.OrderStatus); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"success": true,
		"message": "order status updated",
	})
}

// ListForChef handles GET /orders/chef?chefId=.
func (c *OrderController) ListForChef(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.ListForChef(r.Context(), r.URL.Query().Get("chefId"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, orders)
}

// ListForUser handles GET /orders?email=.
func (c *OrderController) ListForUser(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.ListForUser(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, orders)
}
