package service

import (
	"fmt"

	"github.com/quantacore/skilluplift/internal/model"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionBankService owns the fixed question collections. The bank is the
// source of truth for sessions and is read-only while a session runs.
type QuestionBankService interface {
	// Seed inserts the built-in question sets when the bank is empty.
	Seed() error
	// SelectForSession picks a random subset; the caller pins the chosen ids
	// into the session so the set stays stable for its whole duration.
	SelectForSession(mcqCount, codingCount int) ([]model.MCQQuestion, []model.CodingQuestion, error)
	// StoreGenerated appends generated questions to the bank so sessions can
	// reference them by id like any other entry.
	StoreGenerated(mcq []model.MCQQuestion, coding []model.CodingQuestion) ([]model.MCQQuestion, []model.CodingQuestion, error)
}

type questionBankService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionBankService(questionRepo repository.QuestionRepository) QuestionBankService {
	return &questionBankService{questionRepo: questionRepo}
}

var seedMCQQuestions = []model.MCQQuestion{
	{
		Prompt:        "What is the basic unit of quantum information?",
		Options:       []string{"Bit", "Byte", "Qubit", "Gate"},
		CorrectOption: 2,
		Category:      "quantum_basics",
		Difficulty:    "easy",
	},
	{
		Prompt:        "Which principle allows quantum computers to process multiple states simultaneously?",
		Options:       []string{"Entanglement", "Superposition", "Decoherence", "Interference"},
		CorrectOption: 1,
		Category:      "quantum_basics",
		Difficulty:    "medium",
	},
	{
		Prompt:        "Which quantum gate creates superposition from |0>?",
		Options:       []string{"Pauli-X", "Pauli-Z", "Hadamard", "CNOT"},
		CorrectOption: 2,
		Category:      "quantum_gates",
		Difficulty:    "medium",
	},
}

var seedCodingQuestions = []model.CodingQuestion{
	{
		Prompt:     "Write a Python function that calculates the factorial of a number recursively.",
		Template:   "def factorial(n):\n    # Your code here\n    pass",
		Category:   "programming",
		Difficulty: "easy",
	},
	{
		Prompt:     "Implement a function to check if a string is a palindrome (ignore case and spaces).",
		Template:   "def is_palindrome(s):\n    # Your code here\n    pass",
		Category:   "programming",
		Difficulty: "medium",
	},
}

func (s *questionBankService) Seed() error {
	mcqCount, err := s.questionRepo.CountMCQ()
	if err != nil {
		return fmt.Errorf("failed to count MCQ questions: %w", err)
	}
	if mcqCount == 0 {
		if _, err := s.questionRepo.CreateMCQBatch(seedMCQQuestions); err != nil {
			return fmt.Errorf("failed to seed MCQ questions: %w", err)
		}
		log.Info().Int("count", len(seedMCQQuestions)).Msg("Seeded MCQ question bank")
	}

	codingCount, err := s.questionRepo.CountCoding()
	if err != nil {
		return fmt.Errorf("failed to count coding questions: %w", err)
	}
	if codingCount == 0 {
		if _, err := s.questionRepo.CreateCodingBatch(seedCodingQuestions); err != nil {
			return fmt.Errorf("failed to seed coding questions: %w", err)
		}
		log.Info().Int("count", len(seedCodingQuestions)).Msg("Seeded coding question bank")
	}
	return nil
}

func (s *questionBankService) SelectForSession(mcqCount, codingCount int) ([]model.MCQQuestion, []model.CodingQuestion, error) {
	mcqs, err := s.questionRepo.RandomMCQ(mcqCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select MCQ questions: %w", err)
	}
	if len(mcqs) == 0 {
		return nil, nil, fmt.Errorf("question bank has no MCQ questions")
	}

	codings, err := s.questionRepo.RandomCoding(codingCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select coding questions: %w", err)
	}
	if len(codings) == 0 {
		return nil, nil, fmt.Errorf("question bank has no coding questions")
	}
	return mcqs, codings, nil
}

func (s *questionBankService) StoreGenerated(mcq []model.MCQQuestion, coding []model.CodingQuestion) ([]model.MCQQuestion, []model.CodingQuestion, error) {
	storedMCQ, err := s.questionRepo.CreateMCQBatch(mcq)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store generated MCQ questions: %w", err)
	}
	storedCoding, err := s.questionRepo.CreateCodingBatch(coding)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store generated coding questions: %w", err)
	}
	return storedMCQ, storedCoding, nil
}
