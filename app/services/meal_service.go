package services

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/cache"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/storage"
)

const (
	featuredCount    = 6
	featuredCacheKey = "meals:featured"
	featuredCacheTTL = 60 * time.Second
	defaultMealLimit = 10
)

// MealStore is the meal service's view of catalog persistence.
type MealStore interface {
	Search(ctx context.Context, p repositories.SearchParams) ([]models.Meal, int64, error)
	Featured(ctx context.Context, n int64) ([]models.Meal, error)
	FindByID(ctx context.Context, id string) (models.Meal, error)
	Insert(ctx context.Context, meal *models.Meal) (string, error)
	SetImage(ctx context.Context, id, url string) error
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// MealService serves the catalog.
type MealService struct {
	meals MealStore
}

func NewMealService(meals MealStore) *MealService {
	return &MealService{meals: meals}
}

// MealPage is one page of catalog results.
type MealPage struct {
	Meals []models.Meal `json:"meals"`
	Total int64         `json:"total"`
}

// Search lists meals by substring match on foodName with sort and paging.
func (s *MealService) Search(ctx context.Context, query, sortField, sortOrder string, page, limit int) (MealPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultMealLimit
	}
	if limit > 100 {
		limit = 100
	}

	meals, total, err := s.meals.Search(ctx, repositories.SearchParams{
		Query:     query,
		SortField: sortField,
		SortAsc:   sortOrder == "asc",
		Skip:      int64((page - 1) * limit),
		Limit:     int64(limit),
	})
	if err != nil {
		return MealPage{}, err
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	return MealPage{Meals: meals, Total: total}, nil
}

// Featured returns the newest meals, cached briefly since the landing page
// hits this on every load.
func (s *MealService) Featured(ctx context.Context) ([]models.Meal, error) {
	var cached []models.Meal
	if cache.Get(featuredCacheKey, &cached) {
		return cached, nil
	}

	meals, err := s.meals.Featured(ctx, featuredCount)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []models.Meal{}
	}

	if err := cache.Set(featuredCacheKey, meals, featuredCacheTTL); err != nil {
		logger.Warn("featured meals cache write failed", "error", err)
	}
	return meals, nil
}

// Get returns a single meal by id.
func (s *MealService) Get(ctx context.Context, id string) (models.Meal, error) {
	return s.meals.FindByID(ctx, id)
}

// Create persists a new meal and invalidates the featured cache.
func (s *MealService) Create(ctx context.Context, meal models.Meal) (*models.Meal, string, error) {
	if meal.FoodName == "" || meal.Price <= 0 {
		return nil, "", apperr.Validation("foodName and a positive price are required")
	}
	meal.CreatedAt = time.Now()

	id, err := s.meals.Insert(ctx, &meal)
	if err != nil {
		return nil, "", err
	}

	cache.Forget(featuredCacheKey)
	logger.Info("meal created", "id", id, "foodName", meal.FoodName, "chefId", meal.ChefID)
	return &meal, id, nil
}

// UploadImage stores a meal photo on the configured disk and records its
// public URL on the meal. Returns the URL.
func (s *MealService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !imageExtensions[ext] {
		return "", apperr.Validation("image must be jpg, jpeg, png or webp")
	}

	if _, err := s.meals.FindByID(ctx, id); err != nil {
		return "", err
	}

	key := "meals/" + id + ext
	if err := storage.PutStream(key, r); err != nil {
		return "", apperr.Internal("store meal image", err)
	}

	url := storage.URL(key)
	if err := s.meals.SetImage(ctx, id, url); err != nil {
		return "", err
	}

	cache.Forget(featuredCacheKey)
	return url, nil
}
