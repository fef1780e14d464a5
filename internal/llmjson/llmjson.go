// Package llmjson parses model output into the shapes the prompts ask for.
// A schema mismatch is ErrMalformed, a distinct class the caller may retry
// once with a stricter prompt instead of letting it surface downstream.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/careerforge/backend/internal/models"
)

// ErrMalformed marks output that could not be parsed against the expected
// shape. It is the only retryable error class in the pipeline.
var ErrMalformed = errors.New("malformed model output")

var fenceRe = regexp.MustCompile("```(?:json)?\n?")

// Clean strips Markdown code-fence markers and surrounding whitespace.
// Models wrap JSON in fences despite instructions not to.
func Clean(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

func decodeStrict(raw string, dst any) error {
	dec := json.NewDecoder(strings.NewReader(Clean(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

type questionsPayload struct {
	Questions []string `json:"questions"`
}

// DecodeQuestions parses a question-generation response and rejects any
// response whose question count differs from want or contains blanks.
func DecodeQuestions(raw string, want int) ([]string, error) {
	var p questionsPayload
	if err := decodeStrict(raw, &p); err != nil {
		return nil, err
	}
	if len(p.Questions) != want {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrMalformed, want, len(p.Questions))
	}
	for i, q := range p.Questions {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrMalformed, i+1)
		}
	}
	return p.Questions, nil
}

// FeedbackPayload is the scoring rubric shape.
type FeedbackPayload struct {
	TotalScore          int                    `json:"totalScore"`
	Grade               string                 `json:"grade"`
	CategoryScores      []models.CategoryScore `json:"categoryScores"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areasForImprovement"`
	FinalAssessment     string                 `json:"finalAssessment"`
}

func DecodeFeedback(raw string) (*FeedbackPayload, error) {
	var p FeedbackPayload
	if err := decodeStrict(raw, &p); err != nil {
		return nil, err
	}
	if p.TotalScore < 0 || p.TotalScore > 100 {
		return nil, fmt.Errorf("%w: total score %d out of range", ErrMalformed, p.TotalScore)
	}
	if len(p.CategoryScores) == 0 {
		return nil, fmt.Errorf("%w: no category scores", ErrMalformed)
	}
	for _, cs := range p.CategoryScores {
		if cs.Name == "" {
			return nil, fmt.Errorf("%w: unnamed category", ErrMalformed)
		}
		if cs.Score < 0 || cs.Score > 100 {
			return nil, fmt.Errorf("%w: category %q score %d out of range", ErrMalformed, cs.Name, cs.Score)
		}
	}
	return &p, nil
}

type quizPayload struct {
	Questions []models.QuizQuestion `json:"questions"`
}

// DecodeQuiz parses a quiz-generation response. Each question must carry
// exactly four options with the answer among them.
func DecodeQuiz(raw string, want int) ([]models.QuizQuestion, error) {
	var p quizPayload
	if err := decodeStrict(raw, &p); err != nil {
		return nil, err
	}
	if len(p.Questions) != want {
		return nil, fmt.Errorf("%w: expected %d quiz questions, got %d", ErrMalformed, want, len(p.Questions))
	}
	for i, q := range p.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: quiz question %d is empty", ErrMalformed, i+1)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("%w: quiz question %d has %d options", ErrMalformed, i+1, len(q.Options))
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: quiz question %d answer not among options", ErrMalformed, i+1)
		}
	}
	return p.Questions, nil
}

// InsightPayload is the industry-insight shape.
type InsightPayload struct {
	SalaryRanges      []models.SalaryRange `json:"salaryRanges"`
	GrowthRate        float64              `json:"growthRate"`
	DemandLevel       models.DemandLevel   `json:"demandLevel"`
	TopSkills         []string             `json:"topSkills"`
	MarketOutlook     models.MarketOutlook `json:"marketOutlook"`
	KeyTrends         []string             `json:"keyTrends"`
	RecommendedSkills []string             `json:"recommendedSkills"`
}

func DecodeInsights(raw string) (*InsightPayload, error) {
	var p InsightPayload
	if err := decodeStrict(raw, &p); err != nil {
		return nil, err
	}
	switch p.DemandLevel {
	case models.DemandHigh, models.DemandMedium, models.DemandLow:
	default:
		return nil, fmt.Errorf("%w: demand level %q", ErrMalformed, p.DemandLevel)
	}
	switch p.MarketOutlook {
	case models.OutlookPositive, models.OutlookNeutral, models.OutlookNegative:
	default:
		return nil, fmt.Errorf("%w: market outlook %q", ErrMalformed, p.MarketOutlook)
	}
	if len(p.SalaryRanges) == 0 {
		return nil, fmt.Errorf("%w: no salary ranges", ErrMalformed)
	}
	return &p, nil
}
