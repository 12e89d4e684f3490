package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SessionStatusInProgress = "in_progress"
	SessionStatusSubmitted  = "submitted"
	SessionStatusExpired    = "expired"
)

// TestSession is one issued attempt: a fixed question set and a time budget.
// The question set never changes after issuing; only Status is mutated, and
// rows are never deleted so results keep their linkage.
type TestSession struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	SessionID         string         `json:"session_id" gorm:"uniqueIndex;not null"`
	UserID            uint           `json:"user_id" gorm:"not null;index"`
	User              User           `json:"-" gorm:"foreignKey:UserID"`
	MCQQuestionIDs    []uint         `json:"mcq_question_ids" gorm:"serializer:json"`
	CodingQuestionIDs []uint         `json:"coding_question_ids" gorm:"serializer:json"`
	DurationMinutes   int            `json:"duration_minutes" gorm:"not null"`
	Status            string         `json:"status" gorm:"default:'in_progress';index"`
	StartedAt         time.Time      `json:"started_at"`
	ExpiresAt         time.Time      `json:"expires_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
