package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/careerforge/backend/internal/models"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/utils"
)

type UpdateProfileInput struct {
	Industry   string   `json:"industry"`
	Experience *int     `json:"experience"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
}

type OnboardingStatus struct {
	IsOnboarded bool `json:"isOnboarded"`
}

type UserService interface {
	// EnsureUser mirrors the identity provider's subject into a local row on
	// first sight, and refreshes email and name afterwards.
	EnsureUser(ctx context.Context, authID, email, name string) (*models.User, error)
	GetMe(ctx context.Context, authID string) (*models.User, error)
	Onboarding(ctx context.Context, authID string) (*OnboardingStatus, error)
	// UpdateProfile writes the profile fields. When the user moves into an
	// industry with no insight row yet, the fresh row and the user update
	// land in one transaction.
	UpdateProfile(ctx context.Context, authID string, in UpdateProfileInput) (*models.User, error)
}

type userService struct {
	users      pgrepo.UserRepository
	industries pgrepo.IndustryInsightRepository
	insights   InsightBuilder
}

func NewUserService(users pgrepo.UserRepository, industries pgrepo.IndustryInsightRepository, insights InsightBuilder) UserService {
	return &userService{users: users, industries: industries, insights: insights}
}

func (s *userService) EnsureUser(ctx context.Context, authID, email, name string) (*models.User, error) {
	const op = "UserService.EnsureUser"

	if authID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "auth subject is required", nil)
	}

	existing, err := s.users.GetByAuthID(ctx, authID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	u := &models.User{
		ID:     uuid.NewString(),
		AuthID: authID,
		Email:  email,
		Name:   name,
	}
	if existing != nil {
		u.ID = existing.ID
		u.Industry = existing.Industry
		u.Experience = existing.Experience
		u.Bio = existing.Bio
		u.Skills = existing.Skills
		if email == "" {
			u.Email = existing.Email
		}
		if name == "" {
			u.Name = existing.Name
		}
	}

	out, err := s.users.UpsertWithIndustry(ctx, u, nil)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert user", err)
	}
	return out, nil
}

func (s *userService) GetMe(ctx context.Context, authID string) (*models.User, error) {
	const op = "UserService.GetMe"

	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func (s *userService) Onboarding(ctx context.Context, authID string) (*OnboardingStatus, error) {
	u, err := s.GetMe(ctx, authID)
	if err != nil {
		return nil, err
	}
	return &OnboardingStatus{IsOnboarded: u.Onboarded()}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, authID string, in UpdateProfileInput) (*models.User, error) {
	const op = "UserService.UpdateProfile"

	u, err := s.GetMe(ctx, authID)
	if err != nil {
		return nil, err
	}
	if in.Industry == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "industry is required", nil)
	}

	u.Industry = in.Industry
	u.Experience = in.Experience
	u.Bio = in.Bio
	u.Skills = pq.StringArray(in.Skills)
	u.UpdatedAt = time.Now().UTC()

	// only generate a fresh industry row when none exists; the repository
	// re-checks inside the transaction
	var insight *models.IndustryInsight
	_, err = s.industries.GetByIndustry(ctx, in.Industry)
	if errors.Is(err, utils.ErrNotFound) {
		insight, err = s.insights.BuildIndustry(ctx, in.Industry)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up industry insights", err)
	}

	out, err := s.users.UpsertWithIndustry(ctx, u, insight)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return out, nil
}
