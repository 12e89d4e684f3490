package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/quantacore/skilluplift/internal/model"
	"gorm.io/gorm"
)

// In-memory stand-ins for the gorm repositories, so services are tested
// without a database.

type fakeTx struct{}

func (fakeTx) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeUserRepo struct {
	users map[uint]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = uint(len(r.users) + 1)
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessionRepo struct {
	sessions map[string]*model.TestSession
}

func newFakeSessionRepo(sessions ...*model.TestSession) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[string]*model.TestSession)}
	for _, s := range sessions {
		r.sessions[s.SessionID] = s
	}
	return r
}

func (r *fakeSessionRepo) Create(session *model.TestSession) error {
	r.sessions[session.SessionID] = session
	return nil
}

func (r *fakeSessionRepo) FindBySessionID(sessionID string) (*model.TestSession, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindInProgressByUser(userID uint) (*model.TestSession, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == model.SessionStatusInProgress {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) MarkSubmitted(_ *gorm.DB, sessionID string) (bool, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != model.SessionStatusInProgress {
		return false, nil
	}
	s.Status = model.SessionStatusSubmitted
	return true, nil
}

func (r *fakeSessionRepo) MarkExpired(sessionID string) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.Status == model.SessionStatusInProgress {
		s.Status = model.SessionStatusExpired
	}
	return nil
}

func (r *fakeSessionRepo) ExpireOlderThan(cutoff time.Time) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.Status == model.SessionStatusInProgress && s.ExpiresAt.Before(cutoff) {
			s.Status = model.SessionStatusExpired
			n++
		}
	}
	return n, nil
}

type fakeQuestionRepo struct {
	mcqs    []model.MCQQuestion
	codings []model.CodingQuestion
}

func (r *fakeQuestionRepo) CreateMCQBatch(questions []model.MCQQuestion) ([]model.MCQQuestion, error) {
	for i := range questions {
		questions[i].ID = uint(len(r.mcqs) + i + 1)
	}
	r.mcqs = append(r.mcqs, questions...)
	return questions, nil
}

func (r *fakeQuestionRepo) CreateCodingBatch(questions []model.CodingQuestion) ([]model.CodingQuestion, error) {
	for i := range questions {
		questions[i].ID = uint(len(r.codings) + i + 100)
	}
	r.codings = append(r.codings, questions...)
	return questions, nil
}

func (r *fakeQuestionRepo) FindMCQByIDs(ids []uint) ([]model.MCQQuestion, error) {
	var out []model.MCQQuestion
	for _, q := range r.mcqs {
		for _, id := range ids {
			if q.ID == id {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindCodingByIDs(ids []uint) ([]model.CodingQuestion, error) {
	var out []model.CodingQuestion
	for _, q := range r.codings {
		for _, id := range ids {
			if q.ID == id {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) RandomMCQ(limit int) ([]model.MCQQuestion, error) {
	if limit > len(r.mcqs) {
		limit = len(r.mcqs)
	}
	return r.mcqs[:limit], nil
}

func (r *fakeQuestionRepo) RandomCoding(limit int) ([]model.CodingQuestion, error) {
	if limit > len(r.codings) {
		limit = len(r.codings)
	}
	return r.codings[:limit], nil
}

func (r *fakeQuestionRepo) CountMCQ() (int64, error) {
	return int64(len(r.mcqs)), nil
}

func (r *fakeQuestionRepo) CountCoding() (int64, error) {
	return int64(len(r.codings)), nil
}

type fakeResultRepo struct {
	results []model.TestResult
}

func (r *fakeResultRepo) Create(_ *gorm.DB, result *model.TestResult) error {
	result.ID = uint(len(r.results) + 1)
	result.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(r.results)) * time.Hour)
	r.results = append(r.results, *result)
	return nil
}

func (r *fakeResultRepo) FindBySessionID(sessionID string) (*model.TestResult, error) {
	for i := range r.results {
		if r.results[i].SessionID == sessionID {
			return &r.results[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResultRepo) FindAllByUser(userID uint) ([]model.TestResult, error) {
	var out []model.TestResult
	for i := len(r.results) - 1; i >= 0; i-- { // newest first
		if r.results[i].UserID == userID {
			out = append(out, r.results[i])
		}
	}
	return out, nil
}

type fakeGenerator struct {
	mcqs    []model.MCQQuestion
	codings []model.CodingQuestion
	err     error
	calls   int
}

func (g *fakeGenerator) Generate(_ context.Context, _, _ int) ([]model.MCQQuestion, []model.CodingQuestion, error) {
	g.calls++
	if g.err != nil {
		return nil, nil, g.err
	}
	return g.mcqs, g.codings, nil
}

var errGeneratorDown = errors.New("generator unavailable")
