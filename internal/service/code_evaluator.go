package service

import (
	"strings"

	"github.com/quantacore/skilluplift/internal/model"
)

// CodeEvaluator grades one coding answer as a percentage. The grading rule is
// a pluggable strategy so the heuristic can later be swapped for sandboxed
// test-case execution without touching the scoring engine.
type CodeEvaluator interface {
	Evaluate(question *model.CodingQuestion, code string) (score float64, feedback string)
}

type heuristicCodeEvaluator struct{}

// NewHeuristicCodeEvaluator returns the default static-check strategy:
// substance of the answer (+30), a function definition (+30), a return
// statement (+40). Scores are on a 0-100 scale.
func NewHeuristicCodeEvaluator() CodeEvaluator {
	return &heuristicCodeEvaluator{}
}

func (e *heuristicCodeEvaluator) Evaluate(_ *model.CodingQuestion, code string) (float64, string) {
	score := 0.0
	if len(strings.TrimSpace(code)) > 20 {
		score += 30
	}
	if strings.Contains(code, "def ") || strings.Contains(code, "function ") || strings.Contains(code, "func ") {
		score += 30
	}
	if strings.Contains(code, "return") {
		score += 40
	}

	feedback := "Could use improvement in structure."
	if score > 60 {
		feedback = "Code structure looks good!"
	}
	return score, feedback
}
