package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

const goodInsightsJSON = `{
	"salaryRanges": [
		{"role": "Backend Engineer", "min": 90000, "max": 180000, "median": 130000, "location": "US"}
	],
	"growthRate": 12.5,
	"demandLevel": "High",
	"topSkills": ["Go", "SQL"],
	"marketOutlook": "Positive",
	"keyTrends": ["platform consolidation"],
	"recommendedSkills": ["Kubernetes"]
}`

type insightFixture struct {
	users        *fakeUserRepo
	industries   *fakeIndustryRepo
	userInsights *fakeUserInsightRepo
	llm          *fakeLLM
	cache        *fakeCache
	svc          InsightService
}

func newInsightFixture(responses ...string) *insightFixture {
	industries := newFakeIndustryRepo()
	users := newFakeUserRepo(industries)
	users.users["auth-a"] = &models.User{ID: "user-a", AuthID: "auth-a", Industry: "tech-software"}
	users.users["auth-b"] = &models.User{ID: "user-b", AuthID: "auth-b", Industry: "tech-software"}
	users.users["auth-new"] = &models.User{ID: "user-new", AuthID: "auth-new"}

	f := &insightFixture{
		users:        users,
		industries:   industries,
		userInsights: newFakeUserInsightRepo(),
		llm:          &fakeLLM{responses: responses},
		cache:        newFakeCache(),
	}
	f.svc = NewInsightService(f.users, f.industries, f.userInsights, f.llm, f.cache,
		logrus.NewEntry(logrus.New()))
	return f
}

func TestGetUserInsightsGeneratesOncePerIndustry(t *testing.T) {
	f := newInsightFixture(goodInsightsJSON)

	first, err := f.svc.GetUserInsights(context.Background(), "auth-a")
	require.NoError(t, err)
	assert.Equal(t, 1, f.llm.calls)
	assert.Equal(t, "tech-software", first.Industry)
	assert.Equal(t, models.DemandHigh, first.DemandLevel)

	// same user again: cache hit, no extra model call
	second, err := f.svc.GetUserInsights(context.Background(), "auth-a")
	require.NoError(t, err)
	assert.Equal(t, 1, f.llm.calls)
	assert.Equal(t, first.ID, second.ID)

	// different user, same industry: shared row reuse, still no model call
	other, err := f.svc.GetUserInsights(context.Background(), "auth-b")
	require.NoError(t, err)
	assert.Equal(t, 1, f.llm.calls)
	assert.Equal(t, "user-b", other.UserID)
	assert.Equal(t, first.Industry, other.Industry)
}

func TestGetUserInsightsRequiresOnboarding(t *testing.T) {
	f := newInsightFixture()

	_, err := f.svc.GetUserInsights(context.Background(), "auth-new")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Zero(t, f.llm.calls)
}

func TestGetUserInsightsMalformedThenStricterRetry(t *testing.T) {
	f := newInsightFixture(`{"surprise": true}`, goodInsightsJSON)

	_, err := f.svc.GetUserInsights(context.Background(), "auth-a")
	require.NoError(t, err)
	assert.Equal(t, 2, f.llm.calls)
}

func TestRefreshDueRegeneratesExpiredIndustries(t *testing.T) {
	f := newInsightFixture(goodInsightsJSON, goodInsightsJSON)

	_, err := f.svc.GetUserInsights(context.Background(), "auth-a")
	require.NoError(t, err)
	require.Equal(t, 1, f.llm.calls)

	// nothing due yet
	n, err := f.svc.RefreshDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, f.llm.calls)

	// force the row past its refresh horizon
	row := f.industries.rows["tech-software"]
	row.NextUpdate = time.Now().UTC().Add(-time.Minute)

	n, err = f.svc.RefreshDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, f.llm.calls)
	assert.True(t, f.industries.rows["tech-software"].NextUpdate.After(time.Now()))
}
