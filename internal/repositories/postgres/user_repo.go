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

type UserRepository interface {
	GetByAuthID(ctx context.Context, authID string) (*models.User, error)
	// UpsertWithIndustry writes the user and, when insight is non-nil and the
	// industry row does not exist yet, the industry insight in one transaction.
	// Either both writes land or neither does.
	UpsertWithIndustry(ctx context.Context, u *models.User, insight *models.IndustryInsight) (*models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("auth_id = ?", authID).
		Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}

func (r *userRepo) UpsertWithIndustry(ctx context.Context, u *models.User, insight *models.IndustryInsight) (*models.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if insight != nil {
			// re-check inside the transaction: another request may have
			// created the industry row since the caller looked
			var count int64
			if err := tx.Model(&models.IndustryInsight{}).
				Where("industry = ?", insight.Industry).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Create(insight).Error; err != nil {
					return err
				}
			}
		}

		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = time.Now().UTC()
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "auth_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "name", "industry", "experience", "bio", "skills", "updated_at",
			}),
		}).Create(u).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetByAuthID(ctx, u.AuthID)
}
