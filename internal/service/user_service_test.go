package service

import (
	"testing"

	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &fakeResultRepo{})

	resp, err := svc.Register(dto.RegisterUserRequest{
		Name:   "Ada",
		Email:  "ada@example.com",
		Skills: []string{"go", "quantum"},
	})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Ada", resp.Name)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, []string{"go", "quantum"}, resp.Skills)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo(&model.User{ID: 1, Name: "Ada", Email: "ada@example.com"})
	svc := NewUserService(repo, &fakeResultRepo{})

	_, err := svc.Register(dto.RegisterUserRequest{Name: "Other", Email: "ada@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGetOverviewUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &fakeResultRepo{})

	_, err := svc.GetOverview(404)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetOverviewNoResults(t *testing.T) {
	repo := newFakeUserRepo(&model.User{ID: 7, Name: "Ada", Email: "ada@example.com"})
	svc := NewUserService(repo, &fakeResultRepo{})

	resp, err := svc.GetOverview(7)
	require.NoError(t, err)

	assert.Equal(t, "Ada", resp.User.Name)
	assert.Zero(t, resp.TestPerformance.TotalTests)
	assert.Zero(t, resp.TestPerformance.AverageScore)
	assert.Zero(t, resp.TestPerformance.LastScore)
}

func TestGetOverviewPerformance(t *testing.T) {
	userRepo := newFakeUserRepo(&model.User{ID: 7, Name: "Ada", Email: "ada@example.com"})
	resultRepo := &fakeResultRepo{}
	seedResults(t, resultRepo, 7, 50, 60, 82)
	svc := NewUserService(userRepo, resultRepo)

	resp, err := svc.GetOverview(7)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TestPerformance.TotalTests)
	assert.InDelta(t, 64.0, resp.TestPerformance.AverageScore, 0.001)
	assert.Equal(t, 82.0, resp.TestPerformance.LastScore)
}
