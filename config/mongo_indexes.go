package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// answer_chunks: the live-attempt transcript buffer
	chunks := db.Collection("answer_chunks")
	_, err := chunks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL: chunks evaporate once the attempt window passes
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		// no duplicate chunk per attempt question
		{
			Keys: bson.D{
				{Key: "attempt_id", Value: 1},
				{Key: "question_index", Value: 1},
				{Key: "chunk_index", Value: 1},
			},
			Options: options.Index().
				SetName("uniq_attempt_question_chunk").
				SetUnique(true),
		},
		// assembly order
		{
			Keys: bson.D{
				{Key: "attempt_id", Value: 1},
				{Key: "question_index", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("by_attempt_question_ts"),
		},
	})
	return err
}
