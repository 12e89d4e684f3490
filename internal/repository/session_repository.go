package repository

import (
	"time"

	"github.com/quantacore/skilluplift/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.TestSession) error
	FindBySessionID(sessionID string) (*model.TestSession, error)
	FindInProgressByUser(userID uint) (*model.TestSession, error)
	// MarkSubmitted flips in_progress -> submitted inside tx and reports whether
	// this call won the transition. False means another submission got there
	// first (or the session is not in progress anymore).
	MarkSubmitted(tx *gorm.DB, sessionID string) (bool, error)
	MarkExpired(sessionID string) error
	ExpireOlderThan(cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.TestSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindBySessionID(sessionID string) (*model.TestSession, error) {
	var session model.TestSession
	if err := r.db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindInProgressByUser(userID uint) (*model.TestSession, error) {
	var session model.TestSession
	err := r.db.
		Where("user_id = ? AND status = ?", userID, model.SessionStatusInProgress).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) MarkSubmitted(tx *gorm.DB, sessionID string) (bool, error) {
	res := tx.Model(&model.TestSession{}).
		Where("session_id = ? AND status = ?", sessionID, model.SessionStatusInProgress).
		Update("status", model.SessionStatusSubmitted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *sessionRepository) MarkExpired(sessionID string) error {
	return r.db.Model(&model.TestSession{}).
		Where("session_id = ? AND status = ?", sessionID, model.SessionStatusInProgress).
		Update("status", model.SessionStatusExpired).Error
}

func (r *sessionRepository) ExpireOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Model(&model.TestSession{}).
		Where("status = ? AND expires_at < ?", model.SessionStatusInProgress, cutoff).
		Update("status", model.SessionStatusExpired)
	return res.RowsAffected, res.Error
}
