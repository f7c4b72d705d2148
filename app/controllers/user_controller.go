package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// UserController serves account endpoints.
type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

type signupInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoURL" validate:"nullable"`
}

// Signup handles POST /users. Repeat signups refresh the profile.
func (c *UserController) Signup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	err := c.service.Signup(r.Context(), models.User{
		Name:     in.Name,
		Email:    in.Email,
		PhotoURL: in.PhotoURL,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, map[string]bool{"success": true})
}

// Get handles GET /users/{email}.
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	user, err := c.service.Get(r.Context(), router.Param(r, "email"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// List handles GET /users (admin).
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.All(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, users)
}

type setUserStatusInput struct {
	Status string `json:"status" validate:"required,in=active,fraud"`
}

// SetStatus handles PATCH /users/{email}/status (admin). Marking an admin
// account fraud returns 403.
func (c *UserController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in setUserStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	if err := c.service.SetStatus(r.Context(), router.Param(r, "email"), in.Status); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]bool{"success": true})
}
