package repository

import (
	"github.com/quantacore/skilluplift/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	CreateMCQBatch(questions []model.MCQQuestion) ([]model.MCQQuestion, error)
	CreateCodingBatch(questions []model.CodingQuestion) ([]model.CodingQuestion, error)
	FindMCQByIDs(ids []uint) ([]model.MCQQuestion, error)
	FindCodingByIDs(ids []uint) ([]model.CodingQuestion, error)
	RandomMCQ(limit int) ([]model.MCQQuestion, error)
	RandomCoding(limit int) ([]model.CodingQuestion, error)
	CountMCQ() (int64, error)
	CountCoding() (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) CreateMCQBatch(questions []model.MCQQuestion) ([]model.MCQQuestion, error) {
	if err := r.db.Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CreateCodingBatch(questions []model.CodingQuestion) ([]model.CodingQuestion, error) {
	if err := r.db.Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindMCQByIDs(ids []uint) ([]model.MCQQuestion, error) {
	var questions []model.MCQQuestion
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindCodingByIDs(ids []uint) ([]model.CodingQuestion, error) {
	var questions []model.CodingQuestion
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) RandomMCQ(limit int) ([]model.MCQQuestion, error) {
	var questions []model.MCQQuestion
	if err := r.db.Order("RANDOM()").Limit(limit).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) RandomCoding(limit int) ([]model.CodingQuestion, error) {
	var questions []model.CodingQuestion
	if err := r.db.Order("RANDOM()").Limit(limit).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountMCQ() (int64, error) {
	var count int64
	err := r.db.Model(&model.MCQQuestion{}).Count(&count).Error
	return count, err
}

func (r *questionRepository) CountCoding() (int64, error) {
	var count int64
	err := r.db.Model(&model.CodingQuestion{}).Count(&count).Error
	return count, err
}
