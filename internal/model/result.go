package model

import (
	"time"
)

// MCQAnswerDetail records the outcome for one multiple-choice question.
// CorrectOption is included because results are post-submission feedback.
type MCQAnswerDetail struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
	CorrectOption  int    `json:"correct_option"`
	Correct        bool   `json:"correct"`
	Category       string `json:"category,omitempty"`
}

// CodingAnswerDetail records the evaluator outcome for one coding question.
type CodingAnswerDetail struct {
	QuestionID uint    `json:"question_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Feedback   string  `json:"feedback,omitempty"`
}

// TestResult is the scored outcome of a submission. Append-only: one row per
// session (SessionID is unique), never updated after creation.
type TestResult struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	SessionID     string               `json:"session_id" gorm:"uniqueIndex;not null"`
	UserID        uint                 `json:"user_id" gorm:"not null;index"`
	MCQScore      float64              `json:"mcq_score"`
	MCQCorrect    int                  `json:"mcq_correct"`
	MCQTotal      int                  `json:"mcq_total"`
	CodingScore   float64              `json:"coding_score"`
	TotalScore    float64              `json:"total_score"`
	MCQDetails    []MCQAnswerDetail    `json:"mcq_details,omitempty" gorm:"serializer:json"`
	CodingDetails []CodingAnswerDetail `json:"coding_details,omitempty" gorm:"serializer:json"`
	CreatedAt     time.Time            `json:"created_at"`
}
