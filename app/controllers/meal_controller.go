package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/bind"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// MealController serves the catalog endpoints.
type MealController struct {
	service *services.MealService
}

func NewMealController(service *services.MealService) *MealController {
	return &MealController{service: service}
}

// List handles GET /meals?search=&sort=&order=&page=&limit=.
func (c *MealController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := c.service.Search(r.Context(), q.Get("search"), q.Get("sort"), q.Get("order"), page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, res)
}

// Featured handles GET /featured-meals.
func (c *MealController) Featured(w http.ResponseWriter, r *http.Request) {
	meals, err := c.service.Featured(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, meals)
}

// Get handles GET /meals/{id}.
func (c *MealController) Get(w http.ResponseWriter, r *http.Request) {
	meal, err := c.service.Get(r.Context(), router.Param(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, meal)
}

type createMealInput struct {
	FoodName    string  `json:"foodName" validate:"required,max=200"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"nullable,max=80"`
	ImageURL    string  `json:"foodImg" validate:"nullable"`
	ChefID      string  `json:"chefId" validate:"required"`
	ChefName    string  `json:"chefName" validate:"nullable,max=120"`
}

// Create handles POST /meals.
func (c *MealController) Create(w http.ResponseWriter, r *http.Request) {
	var in createMealInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.FieldErrors(w, errs)
		return
	}

	meal, id, err := c.service.Create(r.Context(), models.Meal{
		FoodName:    in.FoodName,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		ChefID:      in.ChefID,
		ChefName:    in.ChefName,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"insertedId": id,
		"meal":       meal,
	})
}

const maxImageUpload = 5 << 20 // 5 MiB

// UploadImage handles POST /meals/{id}/image (multipart field "image").
func (c *MealController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		response.BadRequest(w, "expected a multipart form with an image field")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image field is required")
		return
	}
	defer file.Close()

	url, err := c.service.UploadImage(r.Context(), router.Param(r, "id"), header.Filename, file)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"foodImg": url})
}
