package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
)

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc := NewElevationService(newFakeRequestStore(), newFakeRoleStore())

	req, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, "a@x.com", req.UserEmail)
	assert.False(t, req.CreatedAt.IsZero())
}

func TestSubmitDuplicatePendingConflicts(t *testing.T) {
	svc := NewElevationService(newFakeRequestStore(), newFakeRoleStore())

	_, _, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)

	_, _, err = svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// A different type for the same user is fine.
	_, _, err = svc.Submit(context.Background(), "a@x.com", "A", models.RequestAdmin)
	assert.NoError(t, err)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewElevationService(newFakeRequestStore(), newFakeRoleStore())

	cases := []struct {
		name    string
		email   string
		user    string
		reqType string
	}{
		{"missing email", "", "A", models.RequestChef},
		{"missing name", "a@x.com", "", models.RequestChef},
		{"bad type", "a@x.com", "A", "superuser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Submit(context.Background(), tc.email, tc.user, tc.reqType)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		})
	}
}

func TestResolveApproveChefAssignsHandle(t *testing.T) {
	requests := newFakeRequestStore()
	users := newFakeRoleStore(models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser})
	svc := NewElevationService(requests, users)

	_, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)

	req, user, err := svc.Resolve(context.Background(), id, "approve")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, models.RequestApproved, req.Status)
	assert.NotNil(t, req.ReviewedAt)
	assert.Equal(t, models.RoleChef, user.Role)
	assert.Regexp(t, regexp.MustCompile(`^chef-\d{4}$`), user.ChefID)
}

func TestResolveApproveChefRetriesTakenHandles(t *testing.T) {
	requests := newFakeRequestStore()
	users := newFakeRoleStore(
		models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser},
		models.User{Email: "b@x.com", Name: "B", Role: models.RoleChef, ChefID: "chef-0001"},
	)
	svc := NewElevationService(requests, users)

	// First two draws collide with the taken handle, third succeeds.
	draws := []string{"chef-0001", "chef-0001", "chef-0002"}
	svc.drawID = func() string {
		d := draws[0]
		draws = draws[1:]
		return d
	}

	_, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)

	_, user, err := svc.Resolve(context.Background(), id, "approve")
	require.NoError(t, err)
	assert.Equal(t, "chef-0002", user.ChefID)
}

func TestResolveApproveChefExhaustsRetries(t *testing.T) {
	requests := newFakeRequestStore()
	users := newFakeRoleStore(
		models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser},
		models.User{Email: "b@x.com", Name: "B", Role: models.RoleChef, ChefID: "chef-0001"},
	)
	svc := NewElevationService(requests, users)
	svc.drawID = func() string { return "chef-0001" } // always taken

	_, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), id, "approve")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInternal))

	// The request stays pending and retryable.
	req, findErr := requests.FindByID(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, models.RequestPending, req.Status)
}

func TestResolveApproveAdminLeavesChefID(t *testing.T) {
	requests := newFakeRequestStore()
	users := newFakeRoleStore(models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser, ChefID: "chef-0042"})
	svc := NewElevationService(requests, users)

	_, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestAdmin)
	require.NoError(t, err)

	_, user, err := svc.Resolve(context.Background(), id, "approve")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "chef-0042", user.ChefID)
}

func TestResolveRejectDoesNotTouchUser(t *testing.T) {
	requests := newFakeRequestStore()
	users := newFakeRoleStore(models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser})
	svc := NewElevationService(requests, users)

	_, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)

	req, user, err := svc.Resolve(context.Background(), id, "reject")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, models.RequestRejected, req.Status)

	u, _ := users.FindByEmail(context.Background(), "a@x.com")
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Empty(t, u.ChefID)
}

func TestResolveNonPendingFails(t *testing.T) {
	requests := newFakeRequestStore()
	users := newFakeRoleStore(models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser})
	svc := NewElevationService(requests, users)

	_, id, err := svc.Submit(context.Background(), "a@x.com", "A", models.RequestChef)
	require.NoError(t, err)
	_, _, err = svc.Resolve(context.Background(), id, "reject")
	require.NoError(t, err)

	for _, action := range []string{"approve", "reject"} {
		_, _, err := svc.Resolve(context.Background(), id, action)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		assert.Contains(t, err.Error(), "already rejected")
	}
}

func TestResolveUnknownRequestAndMissingUser(t *testing.T) {
	requests := newFakeRequestStore()
	svc := NewElevationService(requests, newFakeRoleStore())

	_, _, err := svc.Resolve(context.Background(), "64b000000000000000000000", "approve")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	// Request exists but the user record is gone.
	_, id, err := svc.Submit(context.Background(), "gone@x.com", "G", models.RequestChef)
	require.NoError(t, err)
	_, _, err = svc.Resolve(context.Background(), id, "approve")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestResolveBadAction(t *testing.T) {
	svc := NewElevationService(newFakeRequestStore(), newFakeRoleStore())
	_, _, err := svc.Resolve(context.Background(), "whatever", "escalate")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestListClampsPagination(t *testing.T) {
	requests := newFakeRequestStore()
	svc := NewElevationService(requests, newFakeRoleStore())

	res, err := svc.List(context.Background(), repositories.ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.Limit)
	assert.NotNil(t, res.Requests)

	res, err = svc.List(context.Background(), repositories.ListFilter{}, 3, 500)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 100, res.Limit)
}
