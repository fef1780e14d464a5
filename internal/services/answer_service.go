package services

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerforge/backend/internal/models"
	mongorepo "github.com/careerforge/backend/internal/repositories/mongo"
	"github.com/careerforge/backend/internal/utils"
)

// AnswerStream is where recorded audio chunks wait for transcription.
const AnswerStream = "answers:stream"

type EnqueueChunkInput struct {
	AttemptID     string
	UserID        string
	MockID        string
	QuestionIndex int
	ChunkIndex    int64
	AudioURL      *string
	AudioBase64   *string
	Language      string
}

// AnswerService buffers recorded answer fragments and feeds them to the
// transcription workers through the stream.
type AnswerService interface {
	EnqueueChunk(ctx context.Context, in EnqueueChunkInput) (*models.AnswerChunk, error)
	MarkSTT(ctx context.Context, attemptID string, questionIndex int, chunkIndex int64, transcript string, confidence float64, status string) error
	AssembleAnswer(ctx context.Context, attemptID string, questionIndex int) (string, error)
	ListChunks(ctx context.Context, attemptID string, limit int64) ([]models.AnswerChunk, error)
	Cleanup(ctx context.Context, attemptID string) error
}

type answerService struct {
	chunks mongorepo.TranscriptRepository
	redis  *redis.Client
	ttl    time.Duration
}

func NewAnswerService(chunks mongorepo.TranscriptRepository, rdb *redis.Client, ttl time.Duration) AnswerService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &answerService{chunks: chunks, redis: rdb, ttl: ttl}
}

func (s *answerService) EnqueueChunk(ctx context.Context, in EnqueueChunkInput) (*models.AnswerChunk, error) {
	const op = "AnswerService.EnqueueChunk"

	if in.AttemptID == "" || in.UserID == "" || in.MockID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "attempt_id, user_id, and mock_id are required", nil)
	}
	if in.QuestionIndex < 0 || in.ChunkIndex <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question_index must be >= 0 and chunk_index > 0", nil)
	}
	if in.AudioURL == nil && in.AudioBase64 == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio_url or audio_base64 is required", nil)
	}

	now := time.Now().UTC()
	doc := &models.AnswerChunk{
		AttemptID:     in.AttemptID,
		UserID:        in.UserID,
		MockID:        in.MockID,
		QuestionIndex: in.QuestionIndex,
		ChunkIndex:    in.ChunkIndex,
		AudioURL:      in.AudioURL,
		AudioBase64:   in.AudioBase64,
		STTStatus:     "pending",
		Timestamp:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	if err := s.chunks.InsertChunk(ctx, doc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to buffer audio chunk", err)
	}

	values := map[string]any{
		"attempt_id":     in.AttemptID,
		"user_id":        in.UserID,
		"mock_id":        in.MockID,
		"question_index": strconv.Itoa(in.QuestionIndex),
		"chunk_index":    strconv.FormatInt(in.ChunkIndex, 10),
		"language":       in.Language,
	}
	if in.AudioURL != nil {
		values["audio_url"] = *in.AudioURL
	}
	if in.AudioBase64 != nil {
		values["audio_base64"] = *in.AudioBase64
	}

	if err := s.redis.XAdd(ctx, &redis.XAddArgs{Stream: AnswerStream, Values: values}).Err(); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to enqueue audio chunk", err)
	}
	return doc, nil
}

func (s *answerService) MarkSTT(ctx context.Context, attemptID string, questionIndex int, chunkIndex int64, transcript string, confidence float64, status string) error {
	const op = "AnswerService.MarkSTT"

	if attemptID == "" || chunkIndex <= 0 || status == "" {
		return utils.E(utils.CodeInvalidArgument, op, "attempt_id, chunk_index (>0), and status are required", nil)
	}
	if err := s.chunks.UpdateSTT(ctx, attemptID, questionIndex, chunkIndex, transcript, confidence, status); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update stt fields", err)
	}
	return nil
}

func (s *answerService) AssembleAnswer(ctx context.Context, attemptID string, questionIndex int) (string, error) {
	const op = "AnswerService.AssembleAnswer"

	if attemptID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "attempt_id is required", nil)
	}
	out, err := s.chunks.AssembleAnswer(ctx, attemptID, questionIndex)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to assemble answer", err)
	}
	return out, nil
}

func (s *answerService) ListChunks(ctx context.Context, attemptID string, limit int64) ([]models.AnswerChunk, error) {
	const op = "AnswerService.ListChunks"

	if attemptID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "attempt_id is required", nil)
	}
	out, err := s.chunks.ListByAttempt(ctx, attemptID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list answer chunks", err)
	}
	return out, nil
}

func (s *answerService) Cleanup(ctx context.Context, attemptID string) error {
	const op = "AnswerService.Cleanup"

	if attemptID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "attempt_id is required", nil)
	}
	if err := s.chunks.DeleteByAttempt(ctx, attemptID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete answer chunks", err)
	}
	return nil
}
