package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

type ResumeRepository interface {
	// Upsert keeps a single resume row per user.
	Upsert(ctx context.Context, r *models.Resume) error
	GetByUser(ctx context.Context, userID string) (*models.Resume, error)
	CreateFile(ctx context.Context, f *models.ResumeFile) error
	LatestFileByUser(ctx context.Context, userID string) (*models.ResumeFile, error)
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Upsert(ctx context.Context, res *models.Resume) error {
	if res.UpdatedAt.IsZero() {
		res.UpdatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content", "content_embedding", "updated_at",
			}),
		}).
		Create(res).Error
}

func (r *resumeRepo) GetByUser(ctx context.Context, userID string) (*models.Resume, error) {
	var res models.Resume
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &res, err
}

func (r *resumeRepo) CreateFile(ctx context.Context, f *models.ResumeFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *resumeRepo) LatestFileByUser(ctx context.Context, userID string) (*models.ResumeFile, error) {
	var f models.ResumeFile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_at DESC").
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &f, err
}
