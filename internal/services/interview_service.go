package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/backend/internal/attempt"
	"github.com/careerforge/backend/internal/llmjson"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/prompts"
	"github.com/careerforge/backend/internal/providers/llm"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/utils"
)

type CreateInterviewInput struct {
	Position    string               `json:"position"`
	Description string               `json:"description"`
	Experience  int                  `json:"experience"`
	Type        models.InterviewType `json:"type"`
}

type InterviewService interface {
	Create(ctx context.Context, authID string, in CreateInterviewInput) (*models.Interview, error)
	List(ctx context.Context, authID string) ([]models.Interview, error)
	Get(ctx context.Context, authID, mockID string) (*models.Interview, error)
	Delete(ctx context.Context, authID, mockID string) error

	// SubmitAnswers scores a finished attempt. Answers align with the stored
	// question order; the resulting feedback replaces any earlier one.
	SubmitAnswers(ctx context.Context, authID, mockID string, answers []string) (*models.Feedback, error)
	GetFeedback(ctx context.Context, authID, mockID string) (*models.Feedback, error)
}

type interviewService struct {
	users      pgrepo.UserRepository
	interviews pgrepo.InterviewRepository
	feedbacks  pgrepo.FeedbackRepository
	llm        llm.Provider
}

func NewInterviewService(users pgrepo.UserRepository, interviews pgrepo.InterviewRepository, feedbacks pgrepo.FeedbackRepository, provider llm.Provider) InterviewService {
	return &interviewService{users: users, interviews: interviews, feedbacks: feedbacks, llm: provider}
}

func (s *interviewService) resolveUser(ctx context.Context, op, authID string) (*models.User, error) {
	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}
	return u, nil
}

func newMockID() string {
	return "mock_" + strconv.FormatInt(time.Now().Unix(), 10) + "_" + uuid.NewString()[:8]
}

func (s *interviewService) Create(ctx context.Context, authID string, in CreateInterviewInput) (*models.Interview, error) {
	const op = "InterviewService.Create"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Position) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position is required", nil)
	}
	if in.Type == "" {
		in.Type = models.InterviewGeneral
	}
	if !models.ValidInterviewType(in.Type) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown interview type "+string(in.Type), nil)
	}
	if in.Experience < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "experience must be >= 0", nil)
	}

	prompt := prompts.InterviewQuestions(in.Position, in.Description, in.Experience, string(in.Type), attempt.QuestionCount)

	var questions []string
	err = generateParsed(ctx, s.llm, op, prompt, func(raw string) error {
		qs, perr := llmjson.DecodeQuestions(raw, attempt.QuestionCount)
		if perr != nil {
			return perr
		}
		questions = qs
		return nil
	})
	if err != nil {
		if errors.Is(err, llmjson.ErrMalformed) {
			return nil, utils.E(utils.CodeUnavailable, op, "model returned unusable questions", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "question generation failed", err)
	}

	iv := &models.Interview{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		MockID:      newMockID(),
		Position:    in.Position,
		Description: in.Description,
		Experience:  in.Experience,
		Type:        in.Type,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := iv.SetQuestions(questions); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode questions", err)
	}

	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store interview", err)
	}
	return iv, nil
}

func (s *interviewService) List(ctx context.Context, authID string) ([]models.Interview, error) {
	const op = "InterviewService.List"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	rows, err := s.interviews.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return rows, nil
}

func (s *interviewService) Get(ctx context.Context, authID, mockID string) (*models.Interview, error) {
	const op = "InterviewService.Get"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	iv, err := s.interviews.GetByMockID(ctx, u.ID, mockID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	return iv, nil
}

func (s *interviewService) Delete(ctx context.Context, authID, mockID string) error {
	const op = "InterviewService.Delete"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return err
	}
	if err := s.interviews.Delete(ctx, u.ID, mockID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete interview", err)
	}
	return nil
}

func buildTranscript(questions, answers []string) ([]models.TranscriptTurn, string) {
	turns := make([]models.TranscriptTurn, 0, len(questions)*2)
	var b strings.Builder
	for i, q := range questions {
		turns = append(turns,
			models.TranscriptTurn{Role: "interviewer", Content: q},
			models.TranscriptTurn{Role: "candidate", Content: answers[i]},
		)
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, q, i+1, answers[i])
	}
	return turns, b.String()
}

func (s *interviewService) SubmitAnswers(ctx context.Context, authID, mockID string, answers []string) (*models.Feedback, error) {
	const op = "InterviewService.SubmitAnswers"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	iv, err := s.interviews.GetByMockID(ctx, u.ID, mockID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}

	questions, err := iv.QuestionList()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "stored questions are corrupt", err)
	}
	if len(answers) != len(questions) {
		return nil, utils.E(utils.CodeInvalidArgument, op,
			fmt.Sprintf("expected %d answers, got %d", len(questions), len(answers)), nil)
	}
	for i, a := range answers {
		if len(strings.TrimSpace(a)) < attempt.MinAnswerLen {
			return nil, utils.E(utils.CodeInvalidArgument, op,
				fmt.Sprintf("answer %d is too short", i+1), nil)
		}
	}

	turns, transcript := buildTranscript(questions, answers)

	var payload *llmjson.FeedbackPayload
	err = generateParsed(ctx, s.llm, op, prompts.Feedback(transcript), func(raw string) error {
		p, perr := llmjson.DecodeFeedback(raw)
		if perr != nil {
			return perr
		}
		payload = p
		return nil
	})
	if err != nil {
		if errors.Is(err, llmjson.ErrMalformed) {
			return nil, utils.E(utils.CodeUnavailable, op, "model returned unusable feedback", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "feedback generation failed", err)
	}

	fb := &models.Feedback{
		ID:              uuid.NewString(),
		InterviewID:     iv.ID,
		UserID:          u.ID,
		TotalScore:      payload.TotalScore,
		Grade:           payload.Grade,
		FinalAssessment: payload.FinalAssessment,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if fb.CategoryScores, err = json.Marshal(payload.CategoryScores); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode category scores", err)
	}
	if fb.Strengths, err = json.Marshal(payload.Strengths); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode strengths", err)
	}
	if fb.AreasForImprovement, err = json.Marshal(payload.AreasForImprovement); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode improvement areas", err)
	}
	if fb.Transcript, err = json.Marshal(turns); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode transcript", err)
	}

	if err := s.feedbacks.Upsert(ctx, fb); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store feedback", err)
	}
	return fb, nil
}

func (s *interviewService) GetFeedback(ctx context.Context, authID, mockID string) (*models.Feedback, error) {
	const op = "InterviewService.GetFeedback"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	iv, err := s.interviews.GetByMockID(ctx, u.ID, mockID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	fb, err := s.feedbacks.GetByInterview(ctx, u.ID, iv.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "feedback not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get feedback", err)
	}
	return fb, nil
}
