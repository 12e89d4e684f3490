package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// MCQQuestionDTO is the client-facing shape of a multiple-choice question.
// It deliberately has no field for the correct option.
type MCQQuestionDTO struct {
	ID         uint     `json:"id"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

type CodingQuestionDTO struct {
	ID         uint   `json:"id"`
	Prompt     string `json:"prompt"`
	Template   string `json:"template"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// StartTestResponse is the issued session: question set, budget, deadline.
type StartTestResponse struct {
	SessionID       string              `json:"session_id"`
	MCQQuestions    []MCQQuestionDTO    `json:"mcq_questions"`
	CodingQuestions []CodingQuestionDTO `json:"coding_questions"`
	DurationMinutes int                 `json:"duration_minutes"`
	ExpiresAt       time.Time           `json:"expires_at"`
}

type MCQAnswerDetailDTO struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
	CorrectOption  int    `json:"correct_option"`
	Correct        bool   `json:"correct"`
	Category       string `json:"category,omitempty"`
}

type MCQResultsDTO struct {
	Score   float64              `json:"score"`
	Correct int                  `json:"correct"`
	Total   int                  `json:"total"`
	Details []MCQAnswerDetailDTO `json:"details,omitempty"`
}

type CodingAnswerDetailDTO struct {
	QuestionID uint    `json:"question_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Feedback   string  `json:"feedback,omitempty"`
}

type CodingResultsDTO struct {
	Score   float64                 `json:"score"`
	Details []CodingAnswerDetailDTO `json:"details,omitempty"`
}

// TestResultDTO is the scored outcome of a submission. Total is always
// 0.6 x MCQ + 0.4 x coding.
type TestResultDTO struct {
	SessionID     string           `json:"session_id"`
	UserID        uint             `json:"user_id"`
	MCQResults    MCQResultsDTO    `json:"mcq_results"`
	CodingResults CodingResultsDTO `json:"coding_results"`
	TotalScore    float64          `json:"total_score"`
	Timestamp     time.Time        `json:"timestamp"`
}

type AnalyticsDTO struct {
	TotalTests       int     `json:"total_tests"`
	AverageScore     float64 `json:"average_score"`
	BestScore        float64 `json:"best_score"`
	ImprovementTrend string  `json:"improvement_trend"`
}

// TestHistoryResponse lists a user's results newest first plus derived
// analytics. Empty history is a valid response, not an error.
type TestHistoryResponse struct {
	TestHistory []TestResultDTO `json:"test_history"`
	Analytics   AnalyticsDTO    `json:"analytics"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Skills    []string  `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TestPerformanceDTO struct {
	AverageScore float64 `json:"average_score"`
	TotalTests   int     `json:"total_tests"`
	LastScore    float64 `json:"last_score"`
}

type ProfileOverviewResponse struct {
	User            UserResponse       `json:"user"`
	TestPerformance TestPerformanceDTO `json:"test_performance"`
}
