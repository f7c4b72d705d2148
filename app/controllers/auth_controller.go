package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
)

// AuthController issues API tokens.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token handles POST /auth/token.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	token, err := c.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"token": token})
}
