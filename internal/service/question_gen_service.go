package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/quantacore/skilluplift/config"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// QuestionGenService generates fresh assessment questions with an LLM.
// Callers must always be prepared for an error and fall back to the static
// bank; generation is best-effort and never blocks a session start.
type QuestionGenService interface {
	Generate(ctx context.Context, mcqCount, codingCount int) ([]model.MCQQuestion, []model.CodingQuestion, error)
}

type questionGenService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewQuestionGenService(cfg *config.Config) (QuestionGenService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation will fall back to the static bank.")
		return &questionGenService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.ResponseMIMEType = "application/json"
	return &questionGenService{client: model, cfg: cfg}, nil
}

// Wire shapes for the model output.
type generatedMCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}

type generatedCoding struct {
	Question   string `json:"question"`
	Template   string `json:"template"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type generatedSet struct {
	MCQQuestions    []generatedMCQ    `json:"mcq_questions"`
	CodingQuestions []generatedCoding `json:"coding_questions"`
}

func (s *questionGenService) Generate(ctx context.Context, mcqCount, codingCount int) ([]model.MCQQuestion, []model.CodingQuestion, error) {
	if s.client == nil {
		return nil, nil, fmt.Errorf("question generator is not configured")
	}

	prompt := fmt.Sprintf(
		"You generate short, challenging assessments for quantum computing and software roles. "+
			"Output strict JSON with keys: mcq_questions (array of {question, options[4], correct_answer:index, category, difficulty}) "+
			"and coding_questions (array of {question, template, category, difficulty}). "+
			"Create %d MCQs and %d coding questions. Coding questions must include a short starter template.",
		mcqCount, codingCount,
	)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, nil, fmt.Errorf("gemini generation failed: %w", err)
	}
	raw := collectResponseText(resp)
	if raw == "" {
		return nil, nil, fmt.Errorf("gemini returned an empty response")
	}

	var set generatedSet
	if err := json.Unmarshal([]byte(extractJSON(raw)), &set); err != nil {
		return nil, nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}

	mcqs, codings, err := normalizeGenerated(set, mcqCount, codingCount)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("mcq", len(mcqs)).Int("coding", len(codings)).Msg("Generated question set")
	return mcqs, codings, nil
}

func collectResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

var (
	fencedJSONRe = regexp.MustCompile("(?is)```(?:json)?(.*?)```")
	curlyRe      = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON digs a JSON object out of possibly fenced or chatty model output.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) {
		return trimmed
	}
	if m := fencedJSONRe.FindStringSubmatch(trimmed); m != nil {
		inner := strings.TrimSpace(m[1])
		if json.Valid([]byte(inner)) {
			return inner
		}
	}
	if m := curlyRe.FindString(trimmed); m != "" {
		return m
	}
	return trimmed
}

func normalizeGenerated(set generatedSet, mcqCount, codingCount int) ([]model.MCQQuestion, []model.CodingQuestion, error) {
	if len(set.MCQQuestions) == 0 || len(set.CodingQuestions) == 0 {
		return nil, nil, fmt.Errorf("generated set is incomplete")
	}
	if len(set.MCQQuestions) > mcqCount {
		set.MCQQuestions = set.MCQQuestions[:mcqCount]
	}
	if len(set.CodingQuestions) > codingCount {
		set.CodingQuestions = set.CodingQuestions[:codingCount]
	}

	mcqs := make([]model.MCQQuestion, 0, len(set.MCQQuestions))
	for _, q := range set.MCQQuestions {
		if q.Question == "" || len(q.Options) < 2 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, nil, fmt.Errorf("generated MCQ has an invalid structure")
		}
		if len(q.Options) > 6 {
			q.Options = q.Options[:6]
		}
		mcqs = append(mcqs, model.MCQQuestion{
			Prompt:        q.Question,
			Options:       q.Options,
			CorrectOption: q.CorrectAnswer,
			Category:      defaultString(q.Category, "general"),
			Difficulty:    defaultString(q.Difficulty, "medium"),
		})
	}

	codings := make([]model.CodingQuestion, 0, len(set.CodingQuestions))
	for _, q := range set.CodingQuestions {
		if q.Question == "" {
			return nil, nil, fmt.Errorf("generated coding question has an empty prompt")
		}
		codings = append(codings, model.CodingQuestion{
			Prompt:     q.Question,
			Template:   q.Template,
			Category:   defaultString(q.Category, "programming"),
			Difficulty: defaultString(q.Difficulty, "medium"),
		})
	}
	return mcqs, codings, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
