package service

import (
	"fmt"

	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendNoData    = "no_data"
)

// HistoryService reads the append-only ledger of results and derives analytics
// on every query. History is ordered newest first.
type HistoryService interface {
	GetHistory(userID uint) (*dto.TestHistoryResponse, error)
}

type historyService struct {
	resultRepo repository.ResultRepository
}

func NewHistoryService(resultRepo repository.ResultRepository) HistoryService {
	return &historyService{resultRepo: resultRepo}
}

// GetHistory is total: a user with no completed sessions gets an empty list
// and zeroed analytics, never an error.
func (s *historyService) GetHistory(userID uint) (*dto.TestHistoryResponse, error) {
	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load test history")
		return nil, fmt.Errorf("failed to load test history for user %d: %w", userID, err)
	}

	resp := dto.TestHistoryResponse{
		TestHistory: make([]dto.TestResultDTO, 0, len(results)),
		Analytics:   computeAnalytics(results),
	}
	for i := range results {
		resp.TestHistory = append(resp.TestHistory, *resultToDTO(&results[i]))
	}
	return &resp, nil
}

// computeAnalytics expects results newest first. Trend is "improving" when the
// most recent total beats the mean of all prior totals.
func computeAnalytics(results []model.TestResult) dto.AnalyticsDTO {
	if len(results) == 0 {
		return dto.AnalyticsDTO{ImprovementTrend: TrendNoData}
	}

	var sum, best float64
	for _, r := range results {
		sum += r.TotalScore
		if r.TotalScore > best {
			best = r.TotalScore
		}
	}

	trend := TrendStable
	if len(results) > 1 {
		latest := results[0].TotalScore
		priorMean := (sum - latest) / float64(len(results)-1)
		if latest > priorMean {
			trend = TrendImproving
		}
	}

	return dto.AnalyticsDTO{
		TotalTests:       len(results),
		AverageScore:     round2(sum / float64(len(results))),
		BestScore:        round2(best),
		ImprovementTrend: trend,
	}
}
