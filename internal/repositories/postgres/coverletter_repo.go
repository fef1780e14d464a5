package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

type CoverLetterRepository interface {
	Create(ctx context.Context, cl *models.CoverLetter) error
	ListByUser(ctx context.Context, userID string) ([]models.CoverLetter, error)
	GetByID(ctx context.Context, userID, id string) (*models.CoverLetter, error)
	Update(ctx context.Context, cl *models.CoverLetter) error
	Delete(ctx context.Context, userID, id string) error
}

type coverLetterRepo struct {
	db *gorm.DB
}

func NewCoverLetterRepo(db *gorm.DB) CoverLetterRepository {
	return &coverLetterRepo{db: db}
}

func (r *coverLetterRepo) Create(ctx context.Context, cl *models.CoverLetter) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *coverLetterRepo) ListByUser(ctx context.Context, userID string) ([]models.CoverLetter, error) {
	var rows []models.CoverLetter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *coverLetterRepo) GetByID(ctx context.Context, userID, id string) (*models.CoverLetter, error) {
	var cl models.CoverLetter
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&cl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &cl, err
}

func (r *coverLetterRepo) Update(ctx context.Context, cl *models.CoverLetter) error {
	res := r.db.WithContext(ctx).
		Model(&models.CoverLetter{}).
		Where("id = ? AND user_id = ?", cl.ID, cl.UserID).
		Updates(map[string]any{
			"content":     cl.Content,
			"status":      cl.Status,
			"match_score": cl.MatchScore,
			"updated_at":  cl.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *coverLetterRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CoverLetter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
