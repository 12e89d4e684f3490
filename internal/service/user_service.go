package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserService is the user-profile store the session store resolves users
// against, plus the profile overview read model.
type UserService interface {
	Register(req dto.RegisterUserRequest) (*dto.UserResponse, error)
	GetOverview(userID uint) (*dto.ProfileOverviewResponse, error)
}

type userService struct {
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
}

func NewUserService(userRepo repository.UserRepository, resultRepo repository.ResultRepository) UserService {
	return &userService{userRepo: userRepo, resultRepo: resultRepo}
}

func (s *userService) Register(req dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("email %s is already registered: %w", req.Email, apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := model.User{
		Name:   req.Name,
		Email:  req.Email,
		Skills: req.Skills,
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Msg("User registered")

	var resp dto.UserResponse
	if err := copier.Copy(&resp, &user); err != nil {
		return nil, fmt.Errorf("error preparing user response: %w", err)
	}
	return &resp, nil
}

// GetOverview combines the profile with performance figures derived from the
// history ledger. No results yet means zeroed performance, not an error.
func (s *userService) GetOverview(userID uint) (*dto.ProfileOverviewResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for user %d: %w", userID, err)
	}

	var resp dto.ProfileOverviewResponse
	if err := copier.Copy(&resp.User, user); err != nil {
		return nil, fmt.Errorf("error preparing overview response: %w", err)
	}

	if len(results) > 0 {
		var sum float64
		for _, r := range results {
			sum += r.TotalScore
		}
		resp.TestPerformance = dto.TestPerformanceDTO{
			AverageScore: round2(sum / float64(len(results))),
			TotalTests:   len(results),
			LastScore:    results[0].TotalScore, // newest first
		}
	}
	return &resp, nil
}
