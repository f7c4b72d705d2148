package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// FavoriteController serves saved-meal endpoints.
type FavoriteController struct {
	service *services.FavoriteService
}

func NewFavoriteController(service *services.FavoriteService) *FavoriteController {
	return &FavoriteController{service: service}
}

type addFavoriteInput struct {
	UserEmail string `json:"userEmail" validate:"required,email"`
	FoodID    string `json:"foodId" validate:"required"`
	FoodName  string `json:"foodName" validate:"nullable,max=200"`
	ImageURL  string `json:"foodImg" validate:"nullable"`
}

// Add handles POST /favorites. Saving the same meal twice returns 409.
func (c *FavoriteController) Add(w http.ResponseWriter, r *http.Request) {
	var in addFavoriteInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	fav, id, err := c.service.Add(r.Context(), models.Favorite{
		UserEmail: in.UserEmail,
		FoodID:    in.FoodID,
		FoodName:  in.FoodName,
		ImageURL:  in.ImageURL,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"insertedId": id,
		"favorite":   fav,
	})
}

// List handles GET /favorites?email=.
func (c *FavoriteController) List(w http.ResponseWriter, r *http.Request) {
	favs, err := c.service.List(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, favs)
}

// Delete handles DELETE /favorites/{id}.
func (c *FavoriteController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Remove(r.Context(), router.Param(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]bool{"success": true})
}
