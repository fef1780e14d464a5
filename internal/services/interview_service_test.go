package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

const goodQuestionsJSON = `{"questions":[
	"Tell me about a project you are proud of",
	"How do you handle conflicting priorities",
	"Describe a hard bug you tracked down",
	"How do you approach learning a new system",
	"Where do you want to grow next year"
]}`

const goodFeedbackJSON = `{
	"totalScore": 72,
	"grade": "B",
	"categoryScores": [
		{"name": "Communication Skills", "score": 80, "comment": "clear"},
		{"name": "Technical Knowledge", "score": 70, "comment": "solid"},
		{"name": "Problem Solving", "score": 68, "comment": "ok"},
		{"name": "Cultural Fit", "score": 75, "comment": "fine"},
		{"name": "Confidence and Clarity", "score": 67, "comment": "fine"}
	],
	"strengths": ["clear structure"],
	"areasForImprovement": ["more detail"],
	"finalAssessment": "a solid run"
}`

type interviewFixture struct {
	users      *fakeUserRepo
	interviews *fakeInterviewRepo
	feedbacks  *fakeFeedbackRepo
	llm        *fakeLLM
	svc        InterviewService
}

func newInterviewFixture(responses ...string) *interviewFixture {
	industries := newFakeIndustryRepo()
	users := newFakeUserRepo(industries)
	users.users["auth-a"] = &models.User{ID: "user-a", AuthID: "auth-a", Industry: "tech-software"}
	users.users["auth-b"] = &models.User{ID: "user-b", AuthID: "auth-b", Industry: "tech-software"}

	f := &interviewFixture{
		users:      users,
		interviews: &fakeInterviewRepo{},
		feedbacks:  newFakeFeedbackRepo(),
		llm:        &fakeLLM{responses: responses},
	}
	f.svc = NewInterviewService(f.users, f.interviews, f.feedbacks, f.llm)
	return f
}

func TestCreateInterviewRetriesOnceOnMalformed(t *testing.T) {
	f := newInterviewFixture(`{"questions":["only one"]}`, goodQuestionsJSON)

	iv, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{
		Position: "Backend Engineer",
		Type:     models.InterviewTechnical,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.llm.calls)
	assert.True(t, strings.HasPrefix(iv.MockID, "mock_"))

	qs, err := iv.QuestionList()
	require.NoError(t, err)
	assert.Len(t, qs, 5)
}

func TestCreateInterviewFailsAfterSecondMalformed(t *testing.T) {
	f := newInterviewFixture(`not json`, `{"questions":[]}`)

	_, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{
		Position: "Backend Engineer",
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Equal(t, 2, f.llm.calls)
	assert.Empty(t, f.interviews.rows)
}

func TestCreateInterviewRejectsBadInput(t *testing.T) {
	f := newInterviewFixture()

	_, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{Position: "  "})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{
		Position: "Engineer", Type: "archery",
	})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	assert.Zero(t, f.llm.calls)
}

func TestGetInterviewIsOwnerScoped(t *testing.T) {
	f := newInterviewFixture(goodQuestionsJSON)

	iv, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{Position: "Engineer"})
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), "auth-b", iv.MockID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "foreign mock_id must read as missing")

	got, err := f.svc.Get(context.Background(), "auth-a", iv.MockID)
	require.NoError(t, err)
	assert.Equal(t, iv.MockID, got.MockID)
}

func TestUnknownSubjectIsNotFound(t *testing.T) {
	f := newInterviewFixture()

	_, err := f.svc.List(context.Background(), "auth-ghost")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestSubmitAnswersValidation(t *testing.T) {
	f := newInterviewFixture(goodQuestionsJSON)

	iv, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{Position: "Engineer"})
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswers(context.Background(), "auth-a", iv.MockID, []string{"one", "two"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	short := []string{"long enough answer", "long enough answer", "hi", "long enough answer", "long enough answer"}
	_, err = f.svc.SubmitAnswers(context.Background(), "auth-a", iv.MockID, short)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSubmitAnswersStoresFeedback(t *testing.T) {
	f := newInterviewFixture(goodQuestionsJSON, goodFeedbackJSON)

	iv, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{Position: "Engineer"})
	require.NoError(t, err)

	answers := []string{
		"I built a queueing system",
		"I rank by user impact first",
		"A race in our cache layer",
		"I read the tests before the code",
		"Toward distributed systems work",
	}
	fb, err := f.svc.SubmitAnswers(context.Background(), "auth-a", iv.MockID, answers)
	require.NoError(t, err)

	assert.Equal(t, 72, fb.TotalScore)
	assert.Equal(t, models.BandAverage, fb.Band())

	stored, err := f.svc.GetFeedback(context.Background(), "auth-a", iv.MockID)
	require.NoError(t, err)
	assert.Equal(t, fb.ID, stored.ID)

	var turns []models.TranscriptTurn
	require.NoError(t, json.Unmarshal(stored.Transcript, &turns))
	assert.Len(t, turns, 10, "five questions, five answers")
	assert.Equal(t, "interviewer", turns[0].Role)
	assert.Equal(t, "candidate", turns[1].Role)
}

func TestRetakeReplacesFeedback(t *testing.T) {
	f := newInterviewFixture(goodQuestionsJSON, goodFeedbackJSON,
		strings.Replace(goodFeedbackJSON, `"totalScore": 72`, `"totalScore": 91`, 1))

	iv, err := f.svc.Create(context.Background(), "auth-a", CreateInterviewInput{Position: "Engineer"})
	require.NoError(t, err)

	answers := []string{"answer one", "answer two", "answer three", "answer four", "answer five"}

	first, err := f.svc.SubmitAnswers(context.Background(), "auth-a", iv.MockID, answers)
	require.NoError(t, err)
	second, err := f.svc.SubmitAnswers(context.Background(), "auth-a", iv.MockID, answers)
	require.NoError(t, err)

	assert.Equal(t, 72, first.TotalScore)
	assert.Equal(t, 91, second.TotalScore)
	assert.Equal(t, models.BandGood, second.Band())

	stored, err := f.svc.GetFeedback(context.Background(), "auth-a", iv.MockID)
	require.NoError(t, err)
	assert.Equal(t, 91, stored.TotalScore, "retake replaces the stored row")
}
