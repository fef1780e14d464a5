package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

func quizJSON(t *testing.T, n int) string {
	t.Helper()
	qs := make([]models.QuizQuestion, n)
	for i := range qs {
		qs[i] = models.QuizQuestion{
			Question: fmt.Sprintf("What does concept %d mean?", i+1),
			Options:  []string{"A", "B", "C", "D"},
			Answer:   "A",
		}
	}
	b, err := json.Marshal(map[string]any{"questions": qs})
	require.NoError(t, err)
	return string(b)
}

func newAssessmentFixture(responses ...string) (*fakeLLM, *fakeAssessmentRepo, AssessmentService) {
	industries := newFakeIndustryRepo()
	users := newFakeUserRepo(industries)
	users.users["auth-a"] = &models.User{ID: "user-a", AuthID: "auth-a", Industry: "tech-software", Skills: []string{"Go"}}
	users.users["auth-new"] = &models.User{ID: "user-new", AuthID: "auth-new"}

	llm := &fakeLLM{responses: responses}
	repo := &fakeAssessmentRepo{}
	return llm, repo, NewAssessmentService(users, repo, llm)
}

func TestGenerateQuizRequiresOnboarding(t *testing.T) {
	llm, _, svc := newAssessmentFixture()

	_, err := svc.GenerateQuiz(context.Background(), "auth-new")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Zero(t, llm.calls)
}

func TestGenerateQuizReturnsTenQuestions(t *testing.T) {
	_, _, svc := newAssessmentFixture(quizJSON(t, 10))

	qs, err := svc.GenerateQuiz(context.Background(), "auth-a")
	require.NoError(t, err)
	assert.Len(t, qs, 10)
}

func TestGenerateQuizRejectsWrongCount(t *testing.T) {
	llm, _, svc := newAssessmentFixture(quizJSON(t, 7), quizJSON(t, 7))

	_, err := svc.GenerateQuiz(context.Background(), "auth-a")
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Equal(t, 2, llm.calls, "one stricter retry, then give up")
}

func TestSaveResultScoresServerSide(t *testing.T) {
	llm, repo, svc := newAssessmentFixture("Focus on fundamentals before frameworks.")

	var payload struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(quizJSON(t, 10)), &payload))
	questions := payload.Questions

	answers := make([]string, 10)
	for i := range answers {
		answers[i] = "A"
	}
	answers[3], answers[7], answers[9] = "B", "C", "D" // three wrong

	a, err := svc.SaveResult(context.Background(), "auth-a", QuizResultInput{
		Questions: questions,
		Answers:   answers,
	})
	require.NoError(t, err)

	assert.InDelta(t, 70.0, a.QuizScore, 0.01)
	require.NotNil(t, a.ImprovementTip)
	assert.Equal(t, "Focus on fundamentals before frameworks.", *a.ImprovementTip)
	assert.Equal(t, 1, llm.calls)
	require.Len(t, repo.rows, 1)

	var stored []models.QuizQuestion
	require.NoError(t, json.Unmarshal(repo.rows[0].Questions, &stored))
	assert.False(t, stored[3].IsCorrect)
	assert.True(t, stored[0].IsCorrect)
	assert.Equal(t, "B", stored[3].UserAnswer)
}

func TestSaveResultPerfectScoreSkipsTip(t *testing.T) {
	llm, _, svc := newAssessmentFixture()

	var payload struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(quizJSON(t, 10)), &payload))

	answers := make([]string, 10)
	for i := range answers {
		answers[i] = "A"
	}

	a, err := svc.SaveResult(context.Background(), "auth-a", QuizResultInput{
		Questions: payload.Questions,
		Answers:   answers,
	})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, a.QuizScore, 0.01)
	assert.Nil(t, a.ImprovementTip)
	assert.Zero(t, llm.calls, "no wrong answers, no tip call")
}

func TestSaveResultRejectsMismatchedAnswers(t *testing.T) {
	_, _, svc := newAssessmentFixture()

	var payload struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(quizJSON(t, 10)), &payload))

	_, err := svc.SaveResult(context.Background(), "auth-a", QuizResultInput{
		Questions: payload.Questions,
		Answers:   []string{"A", "B"},
	})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
