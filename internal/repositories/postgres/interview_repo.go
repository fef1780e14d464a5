package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

// InterviewRepository filters every read and delete by both the row key and
// the owner key, so a foreign mock_id behaves exactly like a missing one.
type InterviewRepository interface {
	Create(ctx context.Context, iv *models.Interview) error
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	GetByMockID(ctx context.Context, userID, mockID string) (*models.Interview, error)
	Delete(ctx context.Context, userID, mockID string) error
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	return r.db.WithContext(ctx).Create(iv).Error
}

func (r *interviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	var rows []models.Interview
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *interviewRepo) GetByMockID(ctx context.Context, userID, mockID string) (*models.Interview, error) {
	var iv models.Interview
	err := r.db.WithContext(ctx).
		Where("mock_id = ? AND user_id = ?", mockID, userID).
		Take(&iv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) Delete(ctx context.Context, userID, mockID string) error {
	res := r.db.WithContext(ctx).
		Where("mock_id = ? AND user_id = ?", mockID, userID).
		Delete(&models.Interview{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
