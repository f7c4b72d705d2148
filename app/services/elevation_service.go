package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/event"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
)

// chefIDAttempts bounds the unique-handle draw. The sparse unique index on
// users.chefId is the actual guarantee; the loop just retries collisions.
const chefIDAttempts = 5

// RequestStore is the elevation service's view of request persistence.
type RequestStore interface {
	HasPending(ctx context.Context, email, reqType string) (bool, error)
	Insert(ctx context.Context, req *models.Request) (string, error)
	FindByID(ctx context.Context, id string) (models.Request, error)
	List(ctx context.Context, f repositories.ListFilter, page, limit int) ([]models.Request, int64, error)
	Resolve(ctx context.Context, id primitive.ObjectID, status string, reviewedAt time.Time) error
}

// RoleStore is the elevation service's view of the user collection.
type RoleStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	SetRole(ctx context.Context, email, role string) error
	AssignChef(ctx context.Context, email, chefID string) error
}

// ElevationService runs the role-elevation workflow.
type ElevationService struct {
	requests RequestStore
	users    RoleStore
	drawID   func() string // stubbed in tests
}

func NewElevationService(requests RequestStore, users RoleStore) *ElevationService {
	return &ElevationService{
		requests: requests,
		users:    users,
		drawID:   func() string { return fmt.Sprintf("chef-%04d", rand.Intn(10000)) },
	}
}

// Submit creates a pending elevation request. A pending request for the
// same (email, type) pair fails with Conflict: once from the advisory
// pre-check, and again from the unique index if two submits race.
func (s *ElevationService) Submit(ctx context.Context, email, name, reqType string) (*models.Request, string, error) {
	if email == "" || name == "" {
		return nil, "", apperr.Validation("userEmail and userName are required")
	}
	if reqType != models.RequestChef && reqType != models.RequestAdmin {
		return nil, "", apperr.Validation("requestType must be chef or admin")
	}

	exists, err := s.requests.HasPending(ctx, email, reqType)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", apperr.Conflict("a pending %s request already exists for %s", reqType, email)
	}

	req := &models.Request{
		UserEmail:   email,
		UserName:    name,
		RequestType: reqType,
		Status:      models.RequestPending,
		CreatedAt:   time.Now(),
	}
	id, err := s.requests.Insert(ctx, req)
	if err != nil {
		return nil, "", err
	}

	metrics.ElevationRequests.WithLabelValues(reqType).Inc()
	logger.Info("elevation request submitted", "email", email, "type", reqType, "id", id)
	return req, id, nil
}

// ListResult carries one page of requests with pagination echo.
type ListResult struct {
	Requests []models.Request `json:"requests"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// List returns matching requests newest first. Page is clamped to >= 1
// and limit to [1,100]; a zero limit falls back to 10.
func (s *ElevationService) List(ctx context.Context, f repositories.ListFilter, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	requests, total, err := s.requests.List(ctx, f, page, limit)
	if err != nil {
		return ListResult{}, err
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return ListResult{Requests: requests, Total: total, Page: page, Limit: limit}, nil
}

// Resolve moves a pending request to approved or rejected. Approval of a
// chef request also assigns a unique chef handle; the user write happens
// before the request write, so a failed user write leaves the request
// pending and retryable.
func (s *ElevationService) Resolve(ctx context.Context, requestID, action string) (models.Request, *models.User, error) {
	if action != "approve" && action != "reject" {
		return models.Request{}, nil, apperr.Validation("action must be approve or reject")
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return models.Request{}, nil, err
	}
	if !req.Pending() {
		return models.Request{}, nil, apperr.Validation("request already %s", req.Status)
	}

	now := time.Now()

	if action == "reject" {
		if err := s.requests.Resolve(ctx, req.ID, models.RequestRejected, now); err != nil {
			return models.Request{}, nil, err
		}
		req.Status = models.RequestRejected
		req.ReviewedAt = &now

		metrics.ElevationResolutions.WithLabelValues("reject").Inc()
		event.Fire("request.resolved", req)
		return req, nil, nil
	}

	user, err := s.users.FindByEmail(ctx, req.UserEmail)
	if err != nil {
		return models.Request{}, nil, err
	}

	switch req.RequestType {
	case models.RequestAdmin:
		if err := s.users.SetRole(ctx, user.Email, models.RoleAdmin); err != nil {
			return models.Request{}, nil, err
		}
		user.Role = models.RoleAdmin
	case models.RequestChef:
		chefID, err := s.assignChefID(ctx, user.Email)
		if err != nil {
			return models.Request{}, nil, err
		}
		user.Role = models.RoleChef
		user.ChefID = chefID
	}

	if err := s.requests.Resolve(ctx, req.ID, models.RequestApproved, now); err != nil {
		return models.Request{}, nil, err
	}
	req.Status = models.RequestApproved
	req.ReviewedAt = &now

	metrics.ElevationResolutions.WithLabelValues("approve").Inc()
	event.Fire("request.resolved", req)
	logger.Info("elevation request approved",
		"email", req.UserEmail, "type", req.RequestType, "chefId", user.ChefID)
	return req, &user, nil
}

// assignChefID draws random chef-NNNN handles until one sticks. A Conflict
// from the store means the handle was taken; any other error aborts.
func (s *ElevationService) assignChefID(ctx context.Context, email string) (string, error) {
	var lastErr error
	for i := 0; i < chefIDAttempts; i++ {
		chefID := s.drawID()
		err := s.users.AssignChef(ctx, email, chefID)
		if err == nil {
			return chefID, nil
		}
		if !apperr.IsCode(err, apperr.CodeConflict) {
			return "", err
		}
		lastErr = err
	}
	return "", apperr.Internal("could not assign a unique chef id", lastErr)
}
