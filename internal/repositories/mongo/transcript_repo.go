package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careerforge/backend/internal/models"
)

type TranscriptRepository interface {
	InsertChunk(ctx context.Context, c *models.AnswerChunk) error
	UpdateSTT(ctx context.Context, attemptID string, questionIndex int, chunkIndex int64, transcript string, confidence float64, status string) error
	ListByAttempt(ctx context.Context, attemptID string, limit int64) ([]models.AnswerChunk, error)
	// AssembleAnswer joins the done chunks of one question in recording order.
	AssembleAnswer(ctx context.Context, attemptID string, questionIndex int) (string, error)
	DeleteByAttempt(ctx context.Context, attemptID string) error
}

type transcriptRepo struct {
	col *mongo.Collection
}

func NewTranscriptRepo(db *mongo.Database) TranscriptRepository {
	return &transcriptRepo{col: db.Collection("answer_chunks")}
}

func (r *transcriptRepo) InsertChunk(ctx context.Context, c *models.AnswerChunk) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	if c.ExpiresAt.IsZero() {
		c.ExpiresAt = c.Timestamp.Add(2 * time.Hour)
	}
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *transcriptRepo) UpdateSTT(ctx context.Context, attemptID string, questionIndex int, chunkIndex int64, transcript string, confidence float64, status string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"attempt_id": attemptID, "question_index": questionIndex, "chunk_index": chunkIndex},
		bson.M{"$set": bson.M{
			"transcript":     transcript,
			"stt_confidence": confidence,
			"stt_status":     status,
		}},
	)
	return err
}

func (r *transcriptRepo) ListByAttempt(ctx context.Context, attemptID string, limit int64) ([]models.AnswerChunk, error) {
	if limit <= 0 {
		limit = 500
	}

	cur, err := r.col.Find(ctx,
		bson.M{"attempt_id": attemptID},
		options.Find().
			SetSort(bson.D{
				{Key: "question_index", Value: 1},
				{Key: "timestamp", Value: 1},
			}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AnswerChunk
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transcriptRepo) AssembleAnswer(ctx context.Context, attemptID string, questionIndex int) (string, error) {
	cur, err := r.col.Find(ctx,
		bson.M{
			"attempt_id":     attemptID,
			"question_index": questionIndex,
			"stt_status":     "done",
		},
		options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}}),
	)
	if err != nil {
		return "", err
	}
	defer cur.Close(ctx)

	var chunks []models.AnswerChunk
	if err := cur.All(ctx, &chunks); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		t := strings.TrimSpace(c.Transcript)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

func (r *transcriptRepo) DeleteByAttempt(ctx context.Context, attemptID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"attempt_id": attemptID})
	return err
}
