package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// RequestController exposes the role-elevation workflow over HTTP.
type RequestController struct {
	service *services.ElevationService
}

func NewRequestController(service *services.ElevationService) *RequestController {
	return &RequestController{service: service}
}

type submitRequestInput struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName" validate:"required,max=120"`
	UserEmail   string `json:"userEmail" validate:"required,email"`
	RequestType string `json:"requestType" validate:"required,in=chef,admin"`
}

// Submit handles POST /requests.
func (c *RequestController) Submit(w http.ResponseWriter, r *http.Request) {
	var in submitRequestInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	req, id, err := c.service.Submit(r.Context(), in.UserEmail, in.UserName, in.RequestType)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"insertedId": id,
		"request":    req,
	})
}

// List handles GET /requests.
func (c *RequestController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := c.service.List(r.Context(), repositories.ListFilter{
		UserEmail: q.Get("userEmail"),
		Status:    q.Get("status"),
	}, page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, res)
}

type resolveInput struct {
	Action string `json:"action" validate:"required,in=approve,reject"`
}

// Resolve handles PATCH /requests/{id}.
func (c *RequestController) Resolve(w http.ResponseWriter, r *http.Request) {
	var in resolveInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	req, user, err := c.service.Resolve(r.Context(), router.Param(r, "id"), in.Action)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"request":     req,
		"updatedUser": user, // null on the reject path
	})
}
