package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/careerforge/backend/internal/models"
)

type AssessmentRepository interface {
	Create(ctx context.Context, a *models.Assessment) error
	ListByUser(ctx context.Context, userID string) ([]models.Assessment, error)
}

type assessmentRepo struct {
	db *gorm.DB
}

func NewAssessmentRepo(db *gorm.DB) AssessmentRepository {
	return &assessmentRepo{db: db}
}

func (r *assessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assessmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Assessment, error) {
	var rows []models.Assessment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
