package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnswerChunk is one recorded audio fragment of an interview answer, held in
// the transcript buffer collection while an attempt is live. A TTL index
// drops the documents after the attempt window; only the assembled answers
// folded into the scoring prompt survive.
type AnswerChunk struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AttemptID string             `bson:"attempt_id" json:"attempt_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`
	MockID    string             `bson:"mock_id" json:"mock_id"`

	QuestionIndex int   `bson:"question_index" json:"question_index"`
	ChunkIndex    int64 `bson:"chunk_index" json:"chunk_index"`

	AudioURL    *string `bson:"audio_url,omitempty" json:"audio_url,omitempty"`
	AudioBase64 *string `bson:"audio_base64,omitempty" json:"-"`

	STTStatus     string  `bson:"stt_status" json:"stt_status"` // pending|processing|done|failed
	Transcript    string  `bson:"transcript,omitempty" json:"transcript,omitempty"`
	STTConfidence float64 `bson:"stt_confidence,omitempty" json:"stt_confidence,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

// TranscriptTurn is one question/answer pair as fed to the scoring prompt.
type TranscriptTurn struct {
	Role    string `bson:"role" json:"role"` // interviewer|candidate
	Content string `bson:"content" json:"content"`
}
