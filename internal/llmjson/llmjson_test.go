package llmjson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanStripsFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"questions\":[\"a\",\"b\"]}\n```", `{"questions":["a","b"]}`},
		{"bare fence", "```\n{\"x\":1}\n```", `{"x":1}`},
		{"no fence", `  {"x":1}  `, `{"x":1}`},
		{"fence without newline", "```json{\"x\":1}```", `{"x":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clean(tc.in))
		})
	}
}

func TestDecodeQuestionsRoundTrip(t *testing.T) {
	src := []string{
		"Tell me about a service you scaled.",
		"How do you design a rate limiter?",
		"Describe a production incident you handled.",
		"What does idempotency mean in an API?",
		"How do you approach schema migrations?",
	}
	b, err := json.Marshal(map[string][]string{"questions": src})
	require.NoError(t, err)

	got, err := DecodeQuestions("```json\n"+string(b)+"\n```", 5)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	// parse is idempotent: already-clean input yields the same array
	again, err := DecodeQuestions(string(b), 5)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestDecodeQuestionsCountMismatch(t *testing.T) {
	_, err := DecodeQuestions(`{"questions":["a","b"]}`, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = DecodeQuestions(`{"questions":["a","b","c","d","e","f"]}`, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDecodeQuestionsRejectsBlanksAndGarbage(t *testing.T) {
	_, err := DecodeQuestions(`{"questions":["a","  ","c","d","e"]}`, 5)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeQuestions("here are your questions: 1. a 2. b", 5)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeQuestions(`{"questions":["a","b","c","d","e"],"note":"extra"}`, 5)
	assert.ErrorIs(t, err, ErrMalformed, "unknown fields are a schema mismatch")
}

func TestDecodeFeedback(t *testing.T) {
	raw := `{
		"totalScore": 72,
		"grade": "B",
		"categoryScores": [
			{"name": "Communication Skills", "score": 80, "comment": "clear"},
			{"name": "Technical Knowledge", "score": 65, "comment": "solid basics"}
		],
		"strengths": ["calm under pressure"],
		"areasForImprovement": ["quantify results"],
		"finalAssessment": "Decent showing."
	}`
	fb, err := DecodeFeedback(raw)
	require.NoError(t, err)
	assert.Equal(t, 72, fb.TotalScore)
	assert.Equal(t, "B", fb.Grade)
	assert.Len(t, fb.CategoryScores, 2)
}

func TestDecodeFeedbackRejectsOutOfRangeScores(t *testing.T) {
	_, err := DecodeFeedback(`{"totalScore":140,"grade":"A","categoryScores":[{"name":"x","score":10,"comment":""}],"strengths":[],"areasForImprovement":[],"finalAssessment":""}`)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeFeedback(`{"totalScore":50,"grade":"C","categoryScores":[{"name":"x","score":-3,"comment":""}],"strengths":[],"areasForImprovement":[],"finalAssessment":""}`)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeQuiz(t *testing.T) {
	raw := `{"questions":[{"question":"What is a goroutine?","options":["a thread","a lightweight routine","a process","a mutex"],"answer":"a lightweight routine","isCorrect":false,"explanation":"scheduled by the runtime"}]}`
	qs, err := DecodeQuiz(raw, 1)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "a lightweight routine", qs[0].Answer)
}

func TestDecodeQuizRejectsBadAnswer(t *testing.T) {
	raw := `{"questions":[{"question":"q","options":["a","b","c","d"],"answer":"e","isCorrect":false}]}`
	_, err := DecodeQuiz(raw, 1)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeInsights(t *testing.T) {
	raw := "```json\n" + `{
		"salaryRanges": [{"role":"Backend Engineer","min":90000,"max":180000,"median":130000,"location":"Remote"}],
		"growthRate": 6.5,
		"demandLevel": "High",
		"topSkills": ["Go","SQL"],
		"marketOutlook": "Positive",
		"keyTrends": ["AI tooling"],
		"recommendedSkills": ["Kubernetes"]
	}` + "\n```"
	in, err := DecodeInsights(raw)
	require.NoError(t, err)
	assert.Equal(t, 6.5, in.GrowthRate)
	assert.Len(t, in.SalaryRanges, 1)
}

func TestDecodeInsightsRejectsUnknownEnum(t *testing.T) {
	raw := `{"salaryRanges":[{"role":"x","min":1,"max":2,"median":1.5}],"growthRate":1,"demandLevel":"Extreme","topSkills":[],"marketOutlook":"Positive","keyTrends":[],"recommendedSkills":[]}`
	_, err := DecodeInsights(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}
