package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

func newUserFixture(responses ...string) (*fakeLLM, *fakeIndustryRepo, *fakeUserRepo, UserService) {
	industries := newFakeIndustryRepo()
	users := newFakeUserRepo(industries)

	llm := &fakeLLM{responses: responses}
	insights := NewInsightService(users, industries, newFakeUserInsightRepo(), llm,
		newFakeCache(), logrus.NewEntry(logrus.New()))
	return llm, industries, users, NewUserService(users, industries, insights)
}

func TestEnsureUserCreatesThenRefreshes(t *testing.T) {
	_, _, users, svc := newUserFixture()

	u, err := svc.EnsureUser(context.Background(), "auth-x", "x@example.com", "Xavier")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.Onboarded())

	// second sync keeps the row, updates contact fields
	again, err := svc.EnsureUser(context.Background(), "auth-x", "new@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "new@example.com", again.Email)
	assert.Equal(t, "Xavier", again.Name, "blank name keeps the old value")
	assert.Len(t, users.users, 1)
}

func TestUpdateProfileSeedsNewIndustry(t *testing.T) {
	llm, industries, _, svc := newUserFixture(goodInsightsJSON)

	_, err := svc.EnsureUser(context.Background(), "auth-x", "x@example.com", "Xavier")
	require.NoError(t, err)

	exp := 4
	u, err := svc.UpdateProfile(context.Background(), "auth-x", UpdateProfileInput{
		Industry:   "tech-software",
		Experience: &exp,
		Skills:     []string{"Go", "SQL"},
	})
	require.NoError(t, err)

	assert.True(t, u.Onboarded())
	assert.Equal(t, 1, llm.calls, "first user in an industry seeds the shared row")
	_, ok := industries.rows["tech-software"]
	assert.True(t, ok)
}

func TestUpdateProfileReusesExistingIndustry(t *testing.T) {
	llm, industries, _, svc := newUserFixture(goodInsightsJSON)

	_, err := svc.EnsureUser(context.Background(), "auth-x", "x@example.com", "Xavier")
	require.NoError(t, err)
	_, err = svc.EnsureUser(context.Background(), "auth-y", "y@example.com", "Yuri")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), "auth-x", UpdateProfileInput{Industry: "tech-software"})
	require.NoError(t, err)
	require.Equal(t, 1, llm.calls)

	_, err = svc.UpdateProfile(context.Background(), "auth-y", UpdateProfileInput{Industry: "tech-software"})
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls, "existing industry row is reused, not regenerated")
	assert.Len(t, industries.rows, 1)
}

func TestUpdateProfileRejectsUnknownUser(t *testing.T) {
	_, _, _, svc := newUserFixture()

	_, err := svc.UpdateProfile(context.Background(), "auth-ghost", UpdateProfileInput{Industry: "tech"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestUpdateProfileRequiresIndustry(t *testing.T) {
	_, _, users, svc := newUserFixture()
	users.users["auth-x"] = &models.User{ID: "user-x", AuthID: "auth-x"}

	_, err := svc.UpdateProfile(context.Background(), "auth-x", UpdateProfileInput{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
