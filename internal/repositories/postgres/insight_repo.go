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

type IndustryInsightRepository interface {
	GetByIndustry(ctx context.Context, industry string) (*models.IndustryInsight, error)
	Create(ctx context.Context, in *models.IndustryInsight) error
	Update(ctx context.Context, in *models.IndustryInsight) error
	// ListDue returns industries whose next_update has passed.
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.IndustryInsight, error)
}

type industryInsightRepo struct {
	db *gorm.DB
}

func NewIndustryInsightRepo(db *gorm.DB) IndustryInsightRepository {
	return &industryInsightRepo{db: db}
}

func (r *industryInsightRepo) GetByIndustry(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	var in models.IndustryInsight
	err := r.db.WithContext(ctx).
		Where("industry = ?", industry).
		Take(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &in, err
}

func (r *industryInsightRepo) Create(ctx context.Context, in *models.IndustryInsight) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *industryInsightRepo) Update(ctx context.Context, in *models.IndustryInsight) error {
	res := r.db.WithContext(ctx).
		Model(&models.IndustryInsight{}).
		Where("industry = ?", in.Industry).
		Updates(map[string]any{
			"salary_ranges":      in.SalaryRanges,
			"growth_rate":        in.GrowthRate,
			"demand_level":       in.DemandLevel,
			"top_skills":         in.TopSkills,
			"market_outlook":     in.MarketOutlook,
			"key_trends":         in.KeyTrends,
			"recommended_skills": in.RecommendedSkills,
			"last_updated":       in.LastUpdated,
			"next_update":        in.NextUpdate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *industryInsightRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]models.IndustryInsight, error) {
	var rows []models.IndustryInsight
	q := r.db.WithContext(ctx).
		Where("next_update <= ?", now).
		Order("next_update ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

type UserInsightRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.UserInsight, error)
	Upsert(ctx context.Context, in *models.UserInsight) error
}

type userInsightRepo struct {
	db *gorm.DB
}

func NewUserInsightRepo(db *gorm.DB) UserInsightRepository {
	return &userInsightRepo{db: db}
}

func (r *userInsightRepo) GetByUser(ctx context.Context, userID string) (*models.UserInsight, error) {
	var in models.UserInsight
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &in, err
}

func (r *userInsightRepo) Upsert(ctx context.Context, in *models.UserInsight) error {
	if in.LastUpdated.IsZero() {
		in.LastUpdated = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"industry", "salary_ranges", "growth_rate", "demand_level", "top_skills",
				"market_outlook", "key_trends", "recommended_skills",
				"last_updated", "next_update",
			}),
		}).
		Create(in).Error
}
