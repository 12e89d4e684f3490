package model

import (
	"time"

	"gorm.io/gorm"
)

// MCQQuestion is a multiple-choice bank entry. CorrectOption is the index into
// Options and is never serialized to clients before submission.
type MCQQuestion struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Prompt        string         `json:"prompt" gorm:"type:text;not null"`
	Options       []string       `json:"options" gorm:"serializer:json;not null"`
	CorrectOption int            `json:"-" gorm:"not null"`
	Category      string         `json:"category" gorm:"default:'general'"`
	Difficulty    string         `json:"difficulty" gorm:"default:'medium'"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CodingQuestion is a coding bank entry. The grading rule lives in the code
// evaluator, not in the row, so the strategy can change without touching data.
type CodingQuestion struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Prompt     string         `json:"prompt" gorm:"type:text;not null"`
	Template   string         `json:"template" gorm:"type:text"`
	Category   string         `json:"category" gorm:"default:'programming'"`
	Difficulty string         `json:"difficulty" gorm:"default:'medium'"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
