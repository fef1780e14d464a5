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

type FeedbackRepository interface {
	// Upsert replaces the feedback for an interview wholesale on retake.
	Upsert(ctx context.Context, f *models.Feedback) error
	GetByInterview(ctx context.Context, userID, interviewID string) (*models.Feedback, error)
}

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Upsert(ctx context.Context, f *models.Feedback) error {
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "interview_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_score", "grade", "category_scores", "strengths",
				"areas_for_improvement", "final_assessment", "transcript", "updated_at",
			}),
		}).
		Create(f).Error
}

func (r *feedbackRepo) GetByInterview(ctx context.Context, userID, interviewID string) (*models.Feedback, error) {
	var f models.Feedback
	err := r.db.WithContext(ctx).
		Where("interview_id = ? AND user_id = ?", interviewID, userID).
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &f, err
}
