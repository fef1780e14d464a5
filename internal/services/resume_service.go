package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/prompts"
	"github.com/careerforge/backend/internal/providers/llm"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/storage"
	"github.com/careerforge/backend/internal/utils"
)

const signedURLTTL = 15 * time.Minute

type ResumeFileResult struct {
	File      *models.ResumeFile `json:"file"`
	SignedURL string             `json:"signed_url"`
}

type ResumeService interface {
	// Save upserts the single resume row and refreshes its embedding. A
	// failed embedding is logged, not fatal; the text always lands.
	Save(ctx context.Context, authID, content string) (*models.Resume, error)
	Get(ctx context.Context, authID string) (*models.Resume, error)
	// Improve rewrites one resume section with the model. Plain text in,
	// plain text out; nothing is persisted until the user saves.
	Improve(ctx context.Context, authID, current, sectionType string) (string, error)
	UploadFile(ctx context.Context, authID, fileName, mimeType string, size int, r io.Reader) (*ResumeFileResult, error)
	LatestFile(ctx context.Context, authID string) (*ResumeFileResult, error)
}

type resumeService struct {
	users    pgrepo.UserRepository
	resumes  pgrepo.ResumeRepository
	llm      llm.Provider
	uploader storage.Uploader
	signer   storage.Signer
	log      *logrus.Entry
}

func NewResumeService(
	users pgrepo.UserRepository,
	resumes pgrepo.ResumeRepository,
	provider llm.Provider,
	uploader storage.Uploader,
	signer storage.Signer,
	log *logrus.Entry,
) ResumeService {
	return &resumeService{users: users, resumes: resumes, llm: provider, uploader: uploader, signer: signer, log: log}
}

func (s *resumeService) resolveUser(ctx context.Context, op, authID string) (*models.User, error) {
	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}
	return u, nil
}

func (s *resumeService) Save(ctx context.Context, authID, content string) (*models.Resume, error) {
	const op = "ResumeService.Save"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}

	res := &models.Resume{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Content:   content,
		UpdatedAt: time.Now().UTC(),
	}

	if emb, eerr := s.llm.Embed(ctx, content); eerr != nil {
		s.log.WithError(eerr).Warn("resume embedding failed")
	} else if len(emb) > 0 {
		res.ContentEmbedding = pgvector.NewVector(emb)
	}

	if err := s.resumes.Upsert(ctx, res); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store resume", err)
	}
	return res, nil
}

func (s *resumeService) Get(ctx context.Context, authID string) (*models.Resume, error) {
	const op = "ResumeService.Get"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	res, err := s.resumes.GetByUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get resume", err)
	}
	return res, nil
}

func (s *resumeService) Improve(ctx context.Context, authID, current, sectionType string) (string, error) {
	const op = "ResumeService.Improve"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(current) == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "current text is required", nil)
	}
	if sectionType == "" {
		sectionType = "experience"
	}

	raw, err := s.llm.Generate(ctx, prompts.ImproveResume(current, sectionType, u.Industry))
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "resume improvement failed", err)
	}
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", utils.E(utils.CodeUnavailable, op, "model returned an empty rewrite", nil)
	}
	return out, nil
}

func (s *resumeService) UploadFile(ctx context.Context, authID, fileName, mimeType string, size int, r io.Reader) (*ResumeFileResult, error) {
	const op = "ResumeService.UploadFile"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	if fileName == "" || r == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file is required", nil)
	}

	objectName := fmt.Sprintf("resumes/%s/%s_%s", u.ID, uuid.NewString()[:8], path.Base(fileName))
	key, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	f := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   u.ID,
		FileName: path.Base(fileName),
		FilePath: key,
		FileSize: size,
		MimeType: mimeType,
		UploadAt: time.Now().UTC(),
	}
	if err := s.resumes.CreateFile(ctx, f); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store file metadata", err)
	}

	return s.withSignedURL(ctx, f), nil
}

func (s *resumeService) LatestFile(ctx context.Context, authID string) (*ResumeFileResult, error) {
	const op = "ResumeService.LatestFile"

	u, err := s.resolveUser(ctx, op, authID)
	if err != nil {
		return nil, err
	}
	f, err := s.resumes.LatestFileByUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no uploaded file", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get file metadata", err)
	}
	return s.withSignedURL(ctx, f), nil
}

func (s *resumeService) withSignedURL(ctx context.Context, f *models.ResumeFile) *ResumeFileResult {
	out := &ResumeFileResult{File: f}
	url, err := s.signer.SignedGetURL(ctx, f.FilePath, signedURLTTL)
	if err != nil {
		s.log.WithError(err).Warn("signed url generation failed")
		return out
	}
	out.SignedURL = url
	return out
}
