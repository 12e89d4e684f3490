package service

import (
	"testing"
	"time"

	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A coding answer that trips every heuristic check: substance, a function
// definition and a return statement.
const fullMarksCode = "def factorial(n):\n    return 1 if n <= 1 else n * factorial(n - 1)"

func newScoringFixture(t *testing.T) (*scoringService, *fakeSessionRepo, *fakeResultRepo) {
	t.Helper()

	questionRepo := &fakeQuestionRepo{
		mcqs: []model.MCQQuestion{
			{ID: 1, Prompt: "q1", Options: []string{"a", "b"}, CorrectOption: 0},
			{ID: 2, Prompt: "q2", Options: []string{"a", "b"}, CorrectOption: 1},
			{ID: 3, Prompt: "q3", Options: []string{"a", "b", "c"}, CorrectOption: 2},
		},
		codings: []model.CodingQuestion{
			{ID: 10, Prompt: "factorial"},
			{ID: 11, Prompt: "palindrome"},
		},
	}
	sessionRepo := newFakeSessionRepo(&model.TestSession{
		SessionID:         "sess-1",
		UserID:            7,
		MCQQuestionIDs:    []uint{1, 2, 3},
		CodingQuestionIDs: []uint{10, 11},
		DurationMinutes:   30,
		Status:            model.SessionStatusInProgress,
		StartedAt:         time.Now(),
		ExpiresAt:         time.Now().Add(30 * time.Minute),
	})
	resultRepo := &fakeResultRepo{}

	svc := &scoringService{
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		evaluator:    NewHeuristicCodeEvaluator(),
		db:           fakeTx{},
		grace:        30 * time.Second,
		now:          time.Now,
	}
	return svc, sessionRepo, resultRepo
}

func fullMarksSubmission() dto.SubmitTestRequest {
	return dto.SubmitTestRequest{
		SessionID:     "sess-1",
		MCQAnswers:    map[uint]int{1: 0, 2: 1, 3: 2},
		CodingAnswers: map[uint]string{10: fullMarksCode, 11: fullMarksCode},
	}
}

func TestSubmitScoresWorkedExample(t *testing.T) {
	// 3 MCQ with 2 correct selections and 2 coding answers at 100% each:
	// MCQ 66.67, coding 100, total 0.6*66.67 + 0.4*100 = 80.0.
	svc, _, _ := newScoringFixture(t)

	result, err := svc.Submit(dto.SubmitTestRequest{
		SessionID:     "sess-1",
		MCQAnswers:    map[uint]int{1: 0, 2: 1, 3: 0},
		CodingAnswers: map[uint]string{10: fullMarksCode, 11: fullMarksCode},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.MCQResults.Correct)
	assert.Equal(t, 3, result.MCQResults.Total)
	assert.InDelta(t, 66.67, result.MCQResults.Score, 0.01)
	assert.InDelta(t, 100.0, result.CodingResults.Score, 0.001)
	assert.InDelta(t, 80.0, result.TotalScore, 0.01)
}

func TestSubmitTotalIsFixedWeighting(t *testing.T) {
	cases := []struct {
		name       string
		mcq        map[uint]int
		coding     map[uint]string
		wantMCQ    float64
		wantCoding float64
	}{
		{"all correct", map[uint]int{1: 0, 2: 1, 3: 2}, map[uint]string{10: fullMarksCode, 11: fullMarksCode}, 100, 100},
		{"all wrong", map[uint]int{1: 1, 2: 0, 3: 0}, map[uint]string{10: "", 11: ""}, 0, 0},
		{"unanswered count as wrong", nil, nil, 0, 0},
		{"one of each", map[uint]int{1: 0}, map[uint]string{10: fullMarksCode}, 33.33, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newScoringFixture(t)
			result, err := svc.Submit(dto.SubmitTestRequest{
				SessionID:     "sess-1",
				MCQAnswers:    tc.mcq,
				CodingAnswers: tc.coding,
			})
			require.NoError(t, err)

			assert.InDelta(t, tc.wantMCQ, result.MCQResults.Score, 0.01)
			assert.InDelta(t, tc.wantCoding, result.CodingResults.Score, 0.01)
			assert.GreaterOrEqual(t, result.MCQResults.Score, 0.0)
			assert.LessOrEqual(t, result.MCQResults.Score, 100.0)
			assert.InDelta(t, round2(MCQWeight*result.MCQResults.Score+CodingWeight*result.CodingResults.Score),
				result.TotalScore, 0.001)
		})
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	svc, sessionRepo, resultRepo := newScoringFixture(t)

	first, err := svc.Submit(fullMarksSubmission())
	require.NoError(t, err)

	// Same session id again: same stored result, no duplicate ledger entry.
	second, err := svc.Submit(fullMarksSubmission())
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Equal(t, first.Timestamp, second.Timestamp)
	assert.Len(t, resultRepo.results, 1)

	session, err := sessionRepo.FindBySessionID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusSubmitted, session.Status)
}

func TestSubmitUnknownSession(t *testing.T) {
	svc, _, _ := newScoringFixture(t)

	_, err := svc.Submit(dto.SubmitTestRequest{SessionID: "no-such-session"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubmitExpiredSession(t *testing.T) {
	svc, sessionRepo, resultRepo := newScoringFixture(t)
	session := sessionRepo.sessions["sess-1"]
	session.ExpiresAt = time.Now().Add(-5 * time.Minute)

	_, err := svc.Submit(fullMarksSubmission())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidSession)
	assert.Equal(t, model.SessionStatusExpired, session.Status)
	assert.Empty(t, resultRepo.results)
}

func TestSubmitWithinGraceAfterExpiry(t *testing.T) {
	// The auto-submit fired at zero may arrive moments after the deadline.
	svc, sessionRepo, _ := newScoringFixture(t)
	sessionRepo.sessions["sess-1"].ExpiresAt = time.Now().Add(-10 * time.Second)

	result, err := svc.Submit(fullMarksSubmission())
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.TotalScore, 0.01)
}

// raceSessionRepo simulates a concurrent submission winning the guarded
// transition between the status pre-check and the transaction.
type raceSessionRepo struct {
	*fakeSessionRepo
}

func (r *raceSessionRepo) MarkSubmitted(tx *gorm.DB, sessionID string) (bool, error) {
	r.sessions[sessionID].Status = model.SessionStatusSubmitted
	return false, nil
}

func TestSubmitLosingRaceReplaysStoredResult(t *testing.T) {
	svc, sessionRepo, resultRepo := newScoringFixture(t)

	// Pre-seed the ledger with the winner's result.
	require.NoError(t, resultRepo.Create(nil, &model.TestResult{
		SessionID:  "sess-1",
		UserID:     7,
		TotalScore: 42.5,
	}))
	svc.sessionRepo = &raceSessionRepo{fakeSessionRepo: sessionRepo}

	replay, err := svc.Submit(fullMarksSubmission())
	require.NoError(t, err)
	assert.Len(t, resultRepo.results, 1)
	assert.Equal(t, 42.5, replay.TotalScore)
}
