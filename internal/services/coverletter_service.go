package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/prompts"
	"github.com/careerforge/backend/internal/providers/llm"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/utils"
)

type GenerateCoverLetterInput struct {
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobDescription string `json:"job_description"`
}

type UpdateCoverLetterInput struct {
	Content string                   `json:"content"`
	Status  models.CoverLetterStatus `json:"status"`
}

type CoverLetterService interface {
	Generate(ctx context.Context, authID string, in GenerateCoverLetterInput) (*models.CoverLetter, error)
	List(ctx context.Context, authID string) ([]models.CoverLetter, error)
	Get(ctx context.Context, authID, id string) (*models.CoverLetter, error)
	Update(ctx context.Context, authID, id string, in UpdateCoverLetterInput) (*models.CoverLetter, error)
	Delete(ctx context.Context, authID, id string) error
}

type coverLetterService struct {
	users   pgrepo.UserRepository
	letters pgrepo.CoverLetterRepository
	resumes pgrepo.ResumeRepository
	llm     llm.Provider
	log     *logrus.Entry
}

func NewCoverLetterService(
	users pgrepo.UserRepository,
	letters pgrepo.CoverLetterRepository,
	resumes pgrepo.ResumeRepository,
	provider llm.Provider,
	log *logrus.Entry,
) CoverLetterService {
	return &coverLetterService{users: users, letters: letters, resumes: resumes, llm: provider, log: log}
}

func (s *coverLetterService) resolveUser(ctx context.Context, op, authID string) (*models.User, error) {
	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}
	return u, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// matchScore compares the job description embedding against the stored
// resume embedding. Best effort: any miss just leaves the score unset.
func (s *coverLetterService) matchScore(ctx context.Context, userID, jobDescription string) *float64 {
	if strings.TrimSpace(jobDescription) == "" {
		return nil
	}
	res, err := s.resumes.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			s.log.WithError(err).Warn("resume lookup for match score failed")
		}
		return nil
	}
	resumeVec := res.ContentEmbedding.Slice()
	if len(resumeVec) == 0 {
		return nil
	}
	jobVec, err := s.llm.Embed(ctx, jobDescription)
	if err != nil {
		s.log.WithError(err).Warn("job description embedding failed")
		return nil
	}
	score := math.Round(cosineSimilarity(resumeVec, jobVec)*1000) / 10 // percent, one decimal
	return &score
}

func (s *coverLetterService) Generate(ctx context.Context, authID string, in GenerateCoverLetterInput) (*models.CoverLetter, error) {
	const op = "CoverLetterService.Generate"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.JobTitle) == "" || strings.TrimSpace(in.CompanyName) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_title and company_name are required", nil)
	}

	prompt := prompts.CoverLetter(in.JobTitle, in.CompanyName, in.JobDescription, u.Industry, u.Experience, u.Skills, u.Bio)
	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "cover letter generation failed", err)
	}
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, utils.E(utils.CodeUnavailable, op, "model returned an empty letter", nil)
	}

	cl := &models.CoverLetter{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Content:     content,
		CompanyName: in.CompanyName,
		JobTitle:    in.JobTitle,
		Status:      models.CoverLetterCompleted,
		MatchScore:  s.matchScore(ctx, u.ID, in.JobDescription),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if jd := strings.TrimSpace(in.JobDescription); jd != "" {
		cl.JobDescription = &jd
	}

	if err := s.letters.Create(ctx, cl); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store cover letter", err)
	}
	return cl, nil
}

func (s *coverLetterService) List(ctx context.Context, authID string) ([]models.CoverLetter, error) {
	const op = "CoverLetterService.List"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	rows, err := s.letters.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cover letters", err)
	}
	return rows, nil
}

func (s *coverLetterService) Get(ctx context.Context, authID, id string) (*models.CoverLetter, error) {
	const op = "CoverLetterService.Get"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	cl, err := s.letters.GetByID(ctx, u.ID, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cover letter not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get cover letter", err)
	}
	return cl, nil
}

func (s *coverLetterService) Update(ctx context.Context, authID, id string, in UpdateCoverLetterInput) (*models.CoverLetter, error) {
	const op = "CoverLetterService.Update"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}
	status := in.Status
	if status == "" {
		status = models.CoverLetterCompleted
	}
	if status != models.CoverLetterDraft && status != models.CoverLetterCompleted {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown status "+string(status), nil)
	}

	existing, err := s.letters.GetByID(ctx, u.ID, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cover letter not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get cover letter", err)
	}

	existing.Content = in.Content
	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()

	if err := s.letters.Update(ctx, existing); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cover letter not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update cover letter", err)
	}
	return existing, nil
}

func (s *coverLetterService) Delete(ctx context.Context, authID, id string) error {
	const op = "CoverLetterService.Delete"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return err
	}
	if err := s.letters.Delete(ctx, u.ID, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "cover letter not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete cover letter", err)
	}
	return nil
}
