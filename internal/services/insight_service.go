package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/careerforge/backend/internal/cache"
	"github.com/careerforge/backend/internal/llmjson"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/prompts"
	"github.com/careerforge/backend/internal/providers/llm"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/utils"
)

const (
	insightCacheTTL    = time.Hour
	insightRefreshSpan = 7 * 24 * time.Hour
)

// InsightBuilder generates a fresh industry row without persisting it, so
// callers can fold it into their own transaction.
type InsightBuilder interface {
	BuildIndustry(ctx context.Context, industry string) (*models.IndustryInsight, error)
}

type InsightService interface {
	InsightBuilder
	// GetUserInsights walks cache, the per-user row, then the shared
	// industry row, and only calls the model when all three miss.
	GetUserInsights(ctx context.Context, authID string) (*models.UserInsight, error)
	// Refresh regenerates one industry row in place.
	Refresh(ctx context.Context, industry string) (*models.IndustryInsight, error)
	// RefreshDue regenerates every industry whose next_update has passed,
	// sequentially. Returns how many were refreshed.
	RefreshDue(ctx context.Context) (int, error)
}

type insightService struct {
	users        pgrepo.UserRepository
	industries   pgrepo.IndustryInsightRepository
	userInsights pgrepo.UserInsightRepository
	llm          llm.Provider
	cache        cache.Cache
	log          *logrus.Entry
}

func NewInsightService(
	users pgrepo.UserRepository,
	industries pgrepo.IndustryInsightRepository,
	userInsights pgrepo.UserInsightRepository,
	provider llm.Provider,
	c cache.Cache,
	log *logrus.Entry,
) InsightService {
	return &insightService{
		users:        users,
		industries:   industries,
		userInsights: userInsights,
		llm:          provider,
		cache:        c,
		log:          log,
	}
}

func userInsightCacheKey(userID string) string { return "insights:user:" + userID }

func (s *insightService) generate(ctx context.Context, op, industry string, skills []string, experience *int) (*llmjson.InsightPayload, error) {
	prompt := prompts.IndustryInsights(industry, skills, experience)

	var payload *llmjson.InsightPayload
	err := generateParsed(ctx, s.llm, op, prompt, func(raw string) error {
		p, perr := llmjson.DecodeInsights(raw)
		if perr != nil {
			return perr
		}
		payload = p
		return nil
	})
	if err != nil {
		if errors.Is(err, llmjson.ErrMalformed) {
			return nil, utils.E(utils.CodeUnavailable, op, "model returned unusable insights", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "insight generation failed", err)
	}
	return payload, nil
}

func insightRowFromPayload(op, industry string, p *llmjson.InsightPayload) (*models.IndustryInsight, error) {
	now := time.Now().UTC()
	row := &models.IndustryInsight{
		ID:            uuid.NewString(),
		Industry:      industry,
		GrowthRate:    p.GrowthRate,
		DemandLevel:   p.DemandLevel,
		MarketOutlook: p.MarketOutlook,
		LastUpdated:   now,
		NextUpdate:    now.Add(insightRefreshSpan),
	}

	var err error
	if row.SalaryRanges, err = json.Marshal(p.SalaryRanges); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode salary ranges", err)
	}
	if row.TopSkills, err = json.Marshal(p.TopSkills); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode top skills", err)
	}
	if row.KeyTrends, err = json.Marshal(p.KeyTrends); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode key trends", err)
	}
	if row.RecommendedSkills, err = json.Marshal(p.RecommendedSkills); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode recommended skills", err)
	}
	return row, nil
}

func (s *insightService) BuildIndustry(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	const op = "InsightService.BuildIndustry"

	if industry == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "industry is required", nil)
	}
	payload, err := s.generate(ctx, op, industry, nil, nil)
	if err != nil {
		return nil, err
	}
	return insightRowFromPayload(op, industry, payload)
}

func userCopyOf(userID string, in *models.IndustryInsight) *models.UserInsight {
	return &models.UserInsight{
		ID:                uuid.NewString(),
		UserID:            userID,
		Industry:          in.Industry,
		SalaryRanges:      in.SalaryRanges,
		GrowthRate:        in.GrowthRate,
		DemandLevel:       in.DemandLevel,
		TopSkills:         in.TopSkills,
		MarketOutlook:     in.MarketOutlook,
		KeyTrends:         in.KeyTrends,
		RecommendedSkills: in.RecommendedSkills,
		LastUpdated:       in.LastUpdated,
		NextUpdate:        in.NextUpdate,
	}
}

func (s *insightService) GetUserInsights(ctx context.Context, authID string) (*models.UserInsight, error) {
	const op = "InsightService.GetUserInsights"

	u, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}
	if !u.Onboarded() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "complete onboarding first", nil)
	}

	key := userInsightCacheKey(u.ID)
	var cached models.UserInsight
	if hit, cerr := s.cache.GetJSON(ctx, key, &cached); cerr == nil && hit {
		return &cached, nil
	} else if cerr != nil {
		s.log.WithError(cerr).Warn("insight cache read failed")
	}

	own, err := s.userInsights.GetByUser(ctx, u.ID)
	if err == nil && own.Industry == u.Industry {
		s.cacheSet(ctx, key, own)
		return own, nil
	}
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to read user insights", err)
	}

	shared, err := s.industries.GetByIndustry(ctx, u.Industry)
	if errors.Is(err, utils.ErrNotFound) {
		row, berr := s.BuildIndustry(ctx, u.Industry)
		if berr != nil {
			return nil, berr
		}
		if cerr := s.industries.Create(ctx, row); cerr != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to store industry insights", cerr)
		}
		shared = row
	} else if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read industry insights", err)
	}

	mine := userCopyOf(u.ID, shared)
	if err := s.userInsights.Upsert(ctx, mine); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store user insights", err)
	}

	s.cacheSet(ctx, key, mine)
	return mine, nil
}

func (s *insightService) cacheSet(ctx context.Context, key string, val any) {
	if err := s.cache.SetJSON(ctx, key, val, insightCacheTTL); err != nil {
		s.log.WithError(err).Warn("insight cache write failed")
	}
}

func (s *insightService) Refresh(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	const op = "InsightService.Refresh"

	existing, err := s.industries.GetByIndustry(ctx, industry)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "industry not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to read industry insights", err)
	}

	row, err := s.BuildIndustry(ctx, industry)
	if err != nil {
		return nil, err
	}
	row.ID = existing.ID

	if err := s.industries.Update(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update industry insights", err)
	}
	return row, nil
}

func (s *insightService) RefreshDue(ctx context.Context) (int, error) {
	const op = "InsightService.RefreshDue"

	due, err := s.industries.ListDue(ctx, time.Now().UTC(), 0)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list due industries", err)
	}

	refreshed := 0
	for _, row := range due {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, rerr := s.Refresh(ctx, row.Industry); rerr != nil {
			// one bad industry must not stall the rest
			s.log.WithError(rerr).WithField("industry", row.Industry).Error("insight refresh failed")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}
