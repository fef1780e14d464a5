package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/careerforge/backend/internal/providers/stt"
	"github.com/careerforge/backend/internal/services"
)

// AnswerWorkerPool drains the answer stream: fetch audio, transcribe, mark
// the buffered chunk, and publish the result on the attempt's channels so
// the live socket can forward it.
type AnswerWorkerPool struct {
	Redis      *redis.Client
	Answers    services.AnswerService
	NumWorkers int

	STT stt.Provider

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *AnswerWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Answers == nil || p.STT == nil {
		return errors.New("AnswerWorkerPool missing dependency: Redis/Answers/STT must be set")
	}
	if p.Stream == "" {
		p.Stream = services.AnswerStream
	}
	if p.Group == "" {
		p.Group = "answer-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *AnswerWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func normalizeLanguage(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "en" {
		return "en-US"
	}
	return v
}

func (p *AnswerWorkerPool) publishStatus(ctx context.Context, attemptID, status, message string, questionIndex int, chunkIndex int64) {
	payload, _ := json.Marshal(map[string]any{
		"type":           "status",
		"status":         status,
		"message":        message,
		"question_index": questionIndex,
		"chunk_index":    chunkIndex,
	})
	_ = p.Redis.Publish(ctx, "attempt:"+attemptID+":status", string(payload)).Err()
}

func (p *AnswerWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	attemptID := getStr("attempt_id")
	chunkIndexStr := getStr("chunk_index")
	if attemptID == "" || chunkIndexStr == "" {
		return
	}
	chunkIndex, _ := strconv.ParseInt(chunkIndexStr, 10, 64)
	questionIndex, _ := strconv.Atoi(getStr("question_index"))

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":       msg.ID,
		"attempt_id":     attemptID,
		"question_index": questionIndex,
		"chunk_index":    chunkIndex,
	})

	language := normalizeLanguage(getStr("language"))

	var audioBytes []byte
	if b64 := getStr("audio_base64"); b64 != "" {
		raw := b64
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:] // strip data:...;base64,
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			log.WithError(err).Warn("base64 decode failed")
			p.publishStatus(ctx, attemptID, "failed", "invalid audio_base64", questionIndex, chunkIndex)
			return
		}
		audioBytes = decoded
	} else if url := getStr("audio_url"); url != "" {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.WithError(err).Warn("audio_url fetch failed")
			p.publishStatus(ctx, attemptID, "failed", "failed to fetch audio_url", questionIndex, chunkIndex)
			return
		}
		defer resp.Body.Close()

		const maxBytes = 10 << 20
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
		if len(body) == 0 {
			p.publishStatus(ctx, attemptID, "failed", "empty audio", questionIndex, chunkIndex)
			return
		}
		audioBytes = body
	} else {
		return
	}

	_ = p.Answers.MarkSTT(ctx, attemptID, questionIndex, chunkIndex, "", 0, "processing")
	p.publishStatus(ctx, attemptID, "processing", "stt processing", questionIndex, chunkIndex)

	text, conf, err := p.STT.Transcribe(ctx, audioBytes, language)
	if err != nil {
		log.WithError(err).Error("stt failed")
		_ = p.Answers.MarkSTT(ctx, attemptID, questionIndex, chunkIndex, "", 0, "failed")
		p.publishStatus(ctx, attemptID, "failed", "stt failed", questionIndex, chunkIndex)
		return
	}

	_ = p.Answers.MarkSTT(ctx, attemptID, questionIndex, chunkIndex, text, conf, "done")

	sttPayload, _ := json.Marshal(map[string]any{
		"type":           "stt_result",
		"question_index": questionIndex,
		"chunk_index":    chunkIndex,
		"text":           text,
		"confidence":     conf,
		"is_final":       true,
	})
	_ = p.Redis.Publish(ctx, "attempt:"+attemptID+":response", string(sttPayload)).Err()
	p.publishStatus(ctx, attemptID, "done", "chunk processed", questionIndex, chunkIndex)
}
