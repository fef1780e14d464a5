package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/backend/internal/llmjson"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/prompts"
	"github.com/careerforge/backend/internal/providers/llm"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/utils"
)

// quizQuestionCount is fixed so scores stay comparable across runs.
const quizQuestionCount = 10

type QuizResultInput struct {
	Questions []models.QuizQuestion `json:"questions"`
	Answers   []string              `json:"answers"`
}

type AssessmentService interface {
	// GenerateQuiz needs an onboarded user; questions come from the model,
	// validated against the multiple-choice shape.
	GenerateQuiz(ctx context.Context, authID string) ([]models.QuizQuestion, error)
	// SaveResult scores the answers server-side and, when any were wrong,
	// asks the model for a single improvement tip.
	SaveResult(ctx context.Context, authID string, in QuizResultInput) (*models.Assessment, error)
	List(ctx context.Context, authID string) ([]models.Assessment, error)
}

type assessmentService struct {
	users       pgrepo.UserRepository
	assessments pgrepo.AssessmentRepository
	llm         llm.Provider
}

func NewAssessmentService(users pgrepo.UserRepository, assessments pgrepo.AssessmentRepository, provider llm.Provider) AssessmentService {
	return &assessmentService{users: users, assessments: assessments, llm: provider}
}

func (s *assessmentService) resolveOnboarded(ctx context.Context, op, authID string) (*models.User, error) {
	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}
	if !u.Onboarded() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "complete onboarding first", nil)
	}
	return u, nil
}

func (s *assessmentService) GenerateQuiz(ctx context.Context, authID string) ([]models.QuizQuestion, error) {
	const op = "AssessmentService.GenerateQuiz"

	u, err := s.resolveOnboarded(ctx, op, authID)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Quiz(u.Industry, u.Skills, quizQuestionCount)

	var questions []models.QuizQuestion
	err = generateParsed(ctx, s.llm, op, prompt, func(raw string) error {
		qs, perr := llmjson.DecodeQuiz(raw, quizQuestionCount)
		if perr != nil {
			return perr
		}
		questions = qs
		return nil
	})
	if err != nil {
		if errors.Is(err, llmjson.ErrMalformed) {
			return nil, utils.E(utils.CodeUnavailable, op, "model returned an unusable quiz", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "quiz generation failed", err)
	}
	return questions, nil
}

func (s *assessmentService) SaveResult(ctx context.Context, authID string, in QuizResultInput) (*models.Assessment, error) {
	const op = "AssessmentService.SaveResult"

	u, err := s.resolveOnboarded(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	if len(in.Questions) == 0 || len(in.Answers) != len(in.Questions) {
		return nil, utils.E(utils.CodeInvalidArgument, op,
			fmt.Sprintf("expected %d answers, got %d", len(in.Questions), len(in.Answers)), nil)
	}

	correct := 0
	var wrong strings.Builder
	for i := range in.Questions {
		in.Questions[i].UserAnswer = in.Answers[i]
		in.Questions[i].IsCorrect = in.Answers[i] == in.Questions[i].Answer
		if in.Questions[i].IsCorrect {
			correct++
		} else {
			fmt.Fprintf(&wrong, "Question: %s\nCorrect answer: %s\nUser answer: %s\n\n",
				in.Questions[i].Question, in.Questions[i].Answer, in.Answers[i])
		}
	}
	score := float64(correct) / float64(len(in.Questions)) * 100

	var tip *string
	if wrong.Len() > 0 {
		// tip is best effort: a model failure must not lose the result
		if raw, terr := s.llm.Generate(ctx, prompts.ImprovementTip(u.Industry, wrong.String())); terr == nil {
			if t := strings.TrimSpace(raw); t != "" {
				tip = &t
			}
		}
	}

	a := &models.Assessment{
		ID:             uuid.NewString(),
		UserID:         u.ID,
		QuizScore:      score,
		Category:       "Technical",
		ImprovementTip: tip,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if a.Questions, err = json.Marshal(in.Questions); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode questions", err)
	}

	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store assessment", err)
	}
	return a, nil
}

func (s *assessmentService) List(ctx context.Context, authID string) ([]models.Assessment, error) {
	const op = "AssessmentService.List"

	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}
	rows, err := s.assessments.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list assessments", err)
	}
	return rows, nil
}
