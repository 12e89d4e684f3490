package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Fixed contract weights for the total score.
const (
	MCQWeight    = 0.6
	CodingWeight = 0.4
)

// ScoringService grades a submission, transitions the session to submitted and
// appends the result to the history ledger. A session is scored at most once:
// replaying a submission for an already-submitted session returns the stored
// result unchanged instead of a duplicate.
type ScoringService interface {
	Submit(req dto.SubmitTestRequest) (*dto.TestResultDTO, error)
}

// txRunner is satisfied by *gorm.DB; tests swap in a fake.
type txRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type scoringService struct {
	sessionRepo  repository.SessionRepository
	questionRepo repository.QuestionRepository
	resultRepo   repository.ResultRepository
	evaluator    CodeEvaluator
	db           txRunner
	grace        time.Duration
	now          func() time.Time
}

func NewScoringService(
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	evaluator CodeEvaluator,
	db *gorm.DB,
	graceSeconds int,
) ScoringService {
	return &scoringService{
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		evaluator:    evaluator,
		db:           db,
		grace:        time.Duration(graceSeconds) * time.Second,
		now:          time.Now,
	}
}

var errAlreadySubmitted = errors.New("session already submitted")

func (s *scoringService) Submit(req dto.SubmitTestRequest) (*dto.TestResultDTO, error) {
	session, err := s.sessionRepo.FindBySessionID(req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", req.SessionID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", req.SessionID, err)
	}

	switch session.Status {
	case model.SessionStatusSubmitted:
		return s.replayStoredResult(session.SessionID)
	case model.SessionStatusExpired:
		return nil, fmt.Errorf("session %s has expired: %w", session.SessionID, apperr.ErrInvalidSession)
	}

	// Grace covers the race between the client's countdown hitting zero and
	// the auto-submit request arriving.
	if s.now().After(session.ExpiresAt.Add(s.grace)) {
		if err := s.sessionRepo.MarkExpired(session.SessionID); err != nil {
			log.Error().Err(err).Str("sessionID", session.SessionID).Msg("Failed to mark overdue session expired")
		}
		return nil, fmt.Errorf("session %s expired before submission: %w", session.SessionID, apperr.ErrInvalidSession)
	}

	mcqResults, err := s.gradeMCQ(session, req.MCQAnswers)
	if err != nil {
		return nil, err
	}
	codingResults, err := s.gradeCoding(session, req.CodingAnswers)
	if err != nil {
		return nil, err
	}
	totalScore := round2(MCQWeight*mcqResults.Score + CodingWeight*codingResults.Score)

	result := model.TestResult{
		SessionID:   session.SessionID,
		UserID:      session.UserID,
		MCQScore:    mcqResults.Score,
		MCQCorrect:  mcqResults.Correct,
		MCQTotal:    mcqResults.Total,
		CodingScore: codingResults.Score,
		TotalScore:  totalScore,
	}
	for _, d := range mcqResults.Details {
		result.MCQDetails = append(result.MCQDetails, model.MCQAnswerDetail(d))
	}
	for _, d := range codingResults.Details {
		result.CodingDetails = append(result.CodingDetails, model.CodingAnswerDetail(d))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		won, err := s.sessionRepo.MarkSubmitted(tx, session.SessionID)
		if err != nil {
			return fmt.Errorf("failed to transition session to submitted: %w", err)
		}
		if !won {
			return errAlreadySubmitted
		}
		if err := s.resultRepo.Create(tx, &result); err != nil {
			return fmt.Errorf("failed to append result to history: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadySubmitted) {
			// Lost the race against a concurrent submission; serve its result.
			return s.replayStoredResult(session.SessionID)
		}
		return nil, err
	}

	log.Info().Str("sessionID", session.SessionID).Uint("userID", session.UserID).
		Float64("total", totalScore).Msg("Test submission scored")

	return &dto.TestResultDTO{
		SessionID:     session.SessionID,
		UserID:        session.UserID,
		MCQResults:    mcqResults,
		CodingResults: codingResults,
		TotalScore:    totalScore,
		Timestamp:     result.CreatedAt,
	}, nil
}

func (s *scoringService) replayStoredResult(sessionID string) (*dto.TestResultDTO, error) {
	stored, err := s.resultRepo.FindBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s is submitted but has no result: %w", sessionID, apperr.ErrInvalidSession)
		}
		return nil, fmt.Errorf("failed to load stored result for session %s: %w", sessionID, err)
	}
	log.Info().Str("sessionID", sessionID).Msg("Replaying stored result for already-submitted session")
	return resultToDTO(stored), nil
}

func (s *scoringService) gradeMCQ(session *model.TestSession, answers map[uint]int) (dto.MCQResultsDTO, error) {
	questions, err := s.questionRepo.FindMCQByIDs(session.MCQQuestionIDs)
	if err != nil {
		return dto.MCQResultsDTO{}, fmt.Errorf("failed to load MCQ questions: %w", err)
	}

	results := dto.MCQResultsDTO{Total: len(questions)}
	for _, q := range questions {
		selected, answered := answers[q.ID]
		if !answered {
			selected = -1 // unanswered counts as wrong
		}
		correct := selected == q.CorrectOption
		if correct {
			results.Correct++
		}
		results.Details = append(results.Details, dto.MCQAnswerDetailDTO{
			QuestionID:     q.ID,
			SelectedOption: selected,
			CorrectOption:  q.CorrectOption,
			Correct:        correct,
			Category:       q.Category,
		})
	}
	if results.Total > 0 {
		results.Score = round2(float64(results.Correct) / float64(results.Total) * 100)
	}
	return results, nil
}

func (s *scoringService) gradeCoding(session *model.TestSession, answers map[uint]string) (dto.CodingResultsDTO, error) {
	questions, err := s.questionRepo.FindCodingByIDs(session.CodingQuestionIDs)
	if err != nil {
		return dto.CodingResultsDTO{}, fmt.Errorf("failed to load coding questions: %w", err)
	}

	var results dto.CodingResultsDTO
	var sum float64
	for i := range questions {
		q := questions[i]
		score, feedback := s.evaluator.Evaluate(&q, answers[q.ID])
		sum += score
		results.Details = append(results.Details, dto.CodingAnswerDetailDTO{
			QuestionID: q.ID,
			Score:      score,
			MaxScore:   100,
			Feedback:   feedback,
		})
	}
	if len(questions) > 0 {
		results.Score = round2(sum / float64(len(questions)))
	}
	return results, nil
}

func resultToDTO(result *model.TestResult) *dto.TestResultDTO {
	resp := dto.TestResultDTO{
		SessionID: result.SessionID,
		UserID:    result.UserID,
		MCQResults: dto.MCQResultsDTO{
			Score:   result.MCQScore,
			Correct: result.MCQCorrect,
			Total:   result.MCQTotal,
		},
		CodingResults: dto.CodingResultsDTO{
			Score: result.CodingScore,
		},
		TotalScore: result.TotalScore,
		Timestamp:  result.CreatedAt,
	}
	for _, d := range result.MCQDetails {
		resp.MCQResults.Details = append(resp.MCQResults.Details, dto.MCQAnswerDetailDTO(d))
	}
	for _, d := range result.CodingDetails {
		resp.CodingResults.Details = append(resp.CodingResults.Details, dto.CodingAnswerDetailDTO(d))
	}
	return &resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
