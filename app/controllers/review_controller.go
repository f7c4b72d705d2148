package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// ReviewController serves meal review endpoints.
type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController(service *services.ReviewService) *ReviewController {
	return &ReviewController{service: service}
}

type addReviewInput struct {
	FoodID    string  `json:"foodId" validate:"required"`
	UserEmail string  `json:"userEmail" validate:"required,email"`
	UserName  string  `json:"userName" validate:"nullable,max=120"`
	Rating    float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string  `json:"comment" validate:"nullable,max=2000"`
}

// Add handles POST /reviews.
func (c *ReviewController) Add(w http.ResponseWriter, r *http.Request) {
	var in addReviewInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	review, id, err := c.service.Add(r.Context(), models.Review{
		FoodID:    in.FoodID,
		UserEmail: in.UserEmail,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"insertedId": id,
		"review":     review,
	})
}

// List handles GET /reviews?foodId=.
func (c *ReviewController) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.service.List(r.Context(), r.URL.Query().Get("foodId"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, reviews)
}

// Delete handles DELETE /reviews/{id}.
func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Remove(r.Context(), router.Param(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]bool{"success": true})
}
