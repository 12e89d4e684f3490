package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicCodeEvaluator(t *testing.T) {
	cases := []struct {
		name      string
		code      string
		wantScore float64
	}{
		{"empty answer", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"short snippet without structure", "x = 1", 0},
		{"substance only", "print('hello world, this is long')", 30},
		{"definition only", "def f():", 30},
		{"return only", "return 42", 40},
		{"substance and definition", "def quite_long_function_name():", 60},
		{"definition and return", "def f():\n    return 1", 100},
		{"javascript style", "function add(a, b) { return a + b; }", 100},
		{"go style", "func add(a, b int) int { return a + b }", 100},
	}

	evaluator := NewHeuristicCodeEvaluator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, feedback := evaluator.Evaluate(nil, tc.code)
			assert.Equal(t, tc.wantScore, score)
			if score > 60 {
				assert.Equal(t, "Code structure looks good!", feedback)
			} else {
				assert.Equal(t, "Could use improvement in structure.", feedback)
			}
		})
	}
}
