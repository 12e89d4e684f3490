package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/quantacore/skilluplift/config"
	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	StartPolicyReject  = "reject"
	StartPolicyReplace = "replace"
)

// SessionService issues test sessions: picks the question set, pins it to a
// new session id and records the time budget.
type SessionService interface {
	Start(ctx context.Context, userID uint) (*dto.StartTestResponse, error)
}

type sessionService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	bank        QuestionBankService
	generator   QuestionGenService
	cfg         *config.Config
	now         func() time.Time
}

func NewSessionService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	bank QuestionBankService,
	generator QuestionGenService,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		bank:        bank,
		generator:   generator,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, userID uint) (*dto.StartTestResponse, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}

	if err := s.applyStartPolicy(userID); err != nil {
		return nil, err
	}

	mcqs, codings, err := s.pickQuestions(ctx)
	if err != nil {
		return nil, err
	}

	startedAt := s.now()
	session := model.TestSession{
		SessionID:         uuid.NewString(),
		UserID:            userID,
		MCQQuestionIDs:    questionIDs(mcqs),
		CodingQuestionIDs: codingQuestionIDs(codings),
		DurationMinutes:   s.cfg.Assessment.DurationMinutes,
		Status:            model.SessionStatusInProgress,
		StartedAt:         startedAt,
		ExpiresAt:         startedAt.Add(time.Duration(s.cfg.Assessment.DurationMinutes) * time.Minute),
	}
	if err := s.sessionRepo.Create(&session); err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}
	log.Info().Str("sessionID", session.SessionID).Uint("userID", userID).
		Int("mcq", len(mcqs)).Int("coding", len(codings)).Msg("Test session started")

	resp := dto.StartTestResponse{
		SessionID:       session.SessionID,
		DurationMinutes: session.DurationMinutes,
		ExpiresAt:       session.ExpiresAt,
	}
	if err := copier.Copy(&resp.MCQQuestions, &mcqs); err != nil {
		return nil, fmt.Errorf("error preparing session response: %w", err)
	}
	if err := copier.Copy(&resp.CodingQuestions, &codings); err != nil {
		return nil, fmt.Errorf("error preparing session response: %w", err)
	}
	return &resp, nil
}

// applyStartPolicy decides what to do when the user already has a session in
// progress: reject the new start or expire the old session and carry on.
func (s *sessionService) applyStartPolicy(userID uint) error {
	existing, err := s.sessionRepo.FindInProgressByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check in-progress sessions: %w", err)
	}

	switch s.cfg.Assessment.StartPolicy {
	case StartPolicyReplace:
		log.Warn().Str("sessionID", existing.SessionID).Uint("userID", userID).
			Msg("Replacing in-progress session per start policy")
		if err := s.sessionRepo.MarkExpired(existing.SessionID); err != nil {
			return fmt.Errorf("failed to abandon prior session: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("user %d already has session %s in progress: %w",
			userID, existing.SessionID, apperr.ErrConflict)
	}
}

func (s *sessionService) pickQuestions(ctx context.Context) ([]model.MCQQuestion, []model.CodingQuestion, error) {
	mcqCount := s.cfg.Assessment.MCQCount
	codingCount := s.cfg.Assessment.CodingCount

	if s.generator != nil {
		mcqs, codings, err := s.generator.Generate(ctx, mcqCount, codingCount)
		if err == nil {
			stored, storedCoding, storeErr := s.bank.StoreGenerated(mcqs, codings)
			if storeErr == nil {
				return stored, storedCoding, nil
			}
			log.Error().Err(storeErr).Msg("Failed to store generated questions, falling back to bank")
		} else {
			log.Warn().Err(err).Msg("Question generation failed, falling back to bank")
		}
	}

	mcqs, codings, err := s.bank.SelectForSession(mcqCount, codingCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select questions: %w", err)
	}
	return mcqs, codings, nil
}

func questionIDs(questions []model.MCQQuestion) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

func codingQuestionIDs(questions []model.CodingQuestion) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
