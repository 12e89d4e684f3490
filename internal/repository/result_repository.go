package repository

import (
	"github.com/quantacore/skilluplift/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	// Create appends inside the submission transaction; results are never
	// updated or deleted afterwards.
	Create(tx *gorm.DB, result *model.TestResult) error
	FindBySessionID(sessionID string) (*model.TestResult, error)
	FindAllByUser(userID uint) ([]model.TestResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(tx *gorm.DB, result *model.TestResult) error {
	return tx.Create(result).Error
}

func (r *resultRepository) FindBySessionID(sessionID string) (*model.TestResult, error) {
	var result model.TestResult
	if err := r.db.Where("session_id = ?", sessionID).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// FindAllByUser returns the user's results newest first.
func (r *resultRepository) FindAllByUser(userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&results).Error
	return results, err
}
