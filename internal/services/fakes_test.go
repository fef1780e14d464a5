package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/utils"
)

// scripted model: each Generate pops the next canned response.
type fakeLLM struct {
	responses []string
	calls     int
	embedding []float32
	genErr    error
}

func (f *fakeLLM) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.genErr != nil {
		return "", f.genErr
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeLLM: out of responses")
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

func (f *fakeLLM) StreamAnswer(_ context.Context, _ string) (<-chan string, <-chan error) {
	ch := make(chan string)
	errs := make(chan error, 1)
	close(ch)
	return ch, errs
}

func (f *fakeLLM) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.embedding == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return f.embedding, nil
}

func (f *fakeLLM) Close() error { return nil }

type fakeIndustryRepo struct {
	rows map[string]*models.IndustryInsight
}

func newFakeIndustryRepo() *fakeIndustryRepo {
	return &fakeIndustryRepo{rows: map[string]*models.IndustryInsight{}}
}

func (f *fakeIndustryRepo) GetByIndustry(_ context.Context, industry string) (*models.IndustryInsight, error) {
	if row, ok := f.rows[industry]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeIndustryRepo) Create(_ context.Context, in *models.IndustryInsight) error {
	f.rows[in.Industry] = in
	return nil
}

func (f *fakeIndustryRepo) Update(_ context.Context, in *models.IndustryInsight) error {
	if _, ok := f.rows[in.Industry]; !ok {
		return utils.ErrNotFound
	}
	f.rows[in.Industry] = in
	return nil
}

func (f *fakeIndustryRepo) ListDue(_ context.Context, now time.Time, _ int) ([]models.IndustryInsight, error) {
	var out []models.IndustryInsight
	for _, row := range f.rows {
		if !row.NextUpdate.After(now) {
			out = append(out, *row)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users      map[string]*models.User // by auth_id
	industries *fakeIndustryRepo
}

func newFakeUserRepo(industries *fakeIndustryRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, industries: industries}
}

func (f *fakeUserRepo) GetByAuthID(_ context.Context, authID string) (*models.User, error) {
	if u, ok := f.users[authID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserRepo) UpsertWithIndustry(_ context.Context, u *models.User, insight *models.IndustryInsight) (*models.User, error) {
	if insight != nil {
		if _, ok := f.industries.rows[insight.Industry]; !ok {
			f.industries.rows[insight.Industry] = insight
		}
	}
	cp := *u
	f.users[u.AuthID] = &cp
	out := cp
	return &out, nil
}

type fakeInterviewRepo struct {
	rows []*models.Interview
}

func (f *fakeInterviewRepo) Create(_ context.Context, iv *models.Interview) error {
	cp := *iv
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeInterviewRepo) ListByUser(_ context.Context, userID string) ([]models.Interview, error) {
	var out []models.Interview
	for _, iv := range f.rows {
		if iv.UserID == userID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (f *fakeInterviewRepo) GetByMockID(_ context.Context, userID, mockID string) (*models.Interview, error) {
	for _, iv := range f.rows {
		if iv.MockID == mockID && iv.UserID == userID {
			cp := *iv
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeInterviewRepo) Delete(_ context.Context, userID, mockID string) error {
	for i, iv := range f.rows {
		if iv.MockID == mockID && iv.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return utils.ErrNotFound
}

type fakeFeedbackRepo struct {
	rows map[string]*models.Feedback // by interview_id
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{rows: map[string]*models.Feedback{}}
}

func (f *fakeFeedbackRepo) Upsert(_ context.Context, fb *models.Feedback) error {
	cp := *fb
	f.rows[fb.InterviewID] = &cp
	return nil
}

func (f *fakeFeedbackRepo) GetByInterview(_ context.Context, userID, interviewID string) (*models.Feedback, error) {
	if fb, ok := f.rows[interviewID]; ok && fb.UserID == userID {
		cp := *fb
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

type fakeAssessmentRepo struct {
	rows []*models.Assessment
}

func (f *fakeAssessmentRepo) Create(_ context.Context, a *models.Assessment) error {
	cp := *a
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeAssessmentRepo) ListByUser(_ context.Context, userID string) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeUserInsightRepo struct {
	rows map[string]*models.UserInsight // by user_id
}

func newFakeUserInsightRepo() *fakeUserInsightRepo {
	return &fakeUserInsightRepo{rows: map[string]*models.UserInsight{}}
}

func (f *fakeUserInsightRepo) GetByUser(_ context.Context, userID string) (*models.UserInsight, error) {
	if in, ok := f.rows[userID]; ok {
		cp := *in
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserInsightRepo) Upsert(_ context.Context, in *models.UserInsight) error {
	cp := *in
	f.rows[in.UserID] = &cp
	return nil
}

type fakeCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.gets++
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	f.sets++
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}
