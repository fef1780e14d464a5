package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/careerforge/backend/internal/attempt"
	"github.com/careerforge/backend/internal/metrics"
	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

// WSHandler drives a live interview attempt over one socket: client events
// move the attempt state machine, audio chunks go to the worker stream, and
// worker results flow back through pub/sub.
type WSHandler struct {
	interviews services.InterviewService
	answers    services.AnswerService
	attempts   *attempt.Manager
	redis      *redis.Client
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews services.InterviewService, answers services.AnswerService, attempts *attempt.Manager, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		answers:    answers,
		attempts:   attempts,
		redis:      rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type string `json:"type"`

	// audio_chunk
	QuestionIndex int    `json:"question_index"`
	ChunkIndex    int64  `json:"chunk_index"`
	AudioBase64   string `json:"audio_base64"`
	AudioURL      string `json:"audio_url"`
	Language      string `json:"language"`

	// interim / final transcript fragments
	Text string `json:"text"`

	// speech_error
	Error string `json:"error"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func wsError(code utils.Code, msg string) map[string]any {
	return map[string]any{"type": "error", "code": code, "message": msg}
}

func questionMsg(sess *attempt.Session) map[string]any {
	return map[string]any{
		"type":           "question",
		"question_index": sess.Index(),
		"question":       sess.Question(),
		"total":          attempt.QuestionCount,
	}
}

func (h *WSHandler) AttemptWS(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	mockID := c.Param("mock_id")
	if mockID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.AttemptWS", "missing mock_id", nil))
		return
	}

	// ownership: a foreign mock_id reads as missing
	iv, err := h.interviews.Get(c.Request.Context(), authID, mockID)
	if err != nil {
		writeError(c, err)
		return
	}
	questions, err := iv.QuestionList()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "WSHandler.AttemptWS", "stored questions are corrupt", err))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// starting an attempt tears down any earlier one for the same interview
	sess := h.attempts.Start(mockID, authID, questions)
	defer h.attempts.End(mockID)

	if err := sess.Begin(); err != nil {
		_ = wc.writeJSON(wsError(utils.CodeInternal, "failed to start attempt"))
		return
	}
	metrics.ObserveAttemptEvent("started")
	_ = wc.writeJSON(map[string]any{
		"type":           "attempt_started",
		"attempt_id":     sess.ID,
		"state":          sess.State(),
		"question_index": 0,
		"question":       sess.Question(),
		"total":          attempt.QuestionCount,
	})

	// workers publish transcription results on the attempt's channels
	respCh := "attempt:" + sess.ID + ":response"
	statusCh := "attempt:" + sess.ID + ":status"

	pubsub := h.redis.Subscribe(ctx, respCh, statusCh)
	defer pubsub.Close()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeJSON(wsError(utils.CodeInvalidArgument, "invalid json"))
				continue
			}

			switch msg.Type {
			case "mic_granted":
				if err := sess.Activate(); err != nil {
					_ = wc.writeJSON(wsError(utils.CodeInvalidArgument, err.Error()))
					continue
				}
				_ = wc.writeJSON(map[string]any{"type": "state", "state": sess.State(), "recording": true})

			case "mic_denied":
				_ = wc.writeJSON(wsError(utils.CodeForbidden, "microphone permission denied"))
				return

			case "pause":
				_ = sess.SetRecording(false)
				_ = wc.writeJSON(map[string]any{"type": "state", "state": sess.State(), "recording": false})

			case "resume":
				_ = sess.SetRecording(true)
				_ = wc.writeJSON(map[string]any{"type": "state", "state": sess.State(), "recording": true})

			case "interim":
				if err := sess.AppendInterim(msg.Text); err != nil {
					_ = wc.writeJSON(wsError(utils.CodeInvalidArgument, err.Error()))
				}

			case "final":
				if err := sess.AppendFinal(msg.Text); err != nil {
					_ = wc.writeJSON(wsError(utils.CodeInvalidArgument, err.Error()))
				}

			case "speech_error":
				if err := sess.SpeechError(msg.Error); err != nil {
					_ = wc.writeJSON(wsError(utils.CodeForbidden, err.Error()))
					if err == attempt.ErrMicDenied {
						return
					}
				}

			case "audio_chunk":
				var urlPtr, b64Ptr *string
				if msg.AudioBase64 != "" {
					b64Ptr = &msg.AudioBase64
				}
				if msg.AudioURL != "" {
					urlPtr = &msg.AudioURL
				}
				_, err := h.answers.EnqueueChunk(ctx, services.EnqueueChunkInput{
					AttemptID:     sess.ID,
					UserID:        authID,
					MockID:        mockID,
					QuestionIndex: msg.QuestionIndex,
					ChunkIndex:    msg.ChunkIndex,
					AudioURL:      urlPtr,
					AudioBase64:   b64Ptr,
					Language:      msg.Language,
				})
				if err != nil {
					var ae *utils.AppError
					code, emsg := utils.CodeInternal, "failed to enqueue audio"
					if errors.As(err, &ae) {
						code, emsg = ae.Code, ae.Message
					}
					_ = wc.writeJSON(wsError(code, emsg))
				}

			case "next_question":
				// fall back to server-side transcription when the client
				// committed nothing for the current question
				idx := sess.Index()
				if strings.TrimSpace(sess.Answers()[idx]) == "" {
					if text, aerr := h.answers.AssembleAnswer(ctx, sess.ID, idx); aerr == nil && text != "" {
						_ = sess.AppendFinal(text)
					}
				}

				finished, nerr := sess.Next()
				if nerr != nil {
					_ = wc.writeJSON(wsError(utils.CodeInvalidArgument, nerr.Error()))
					continue
				}
				if finished {
					metrics.ObserveAttemptEvent("finished")
					_ = wc.writeJSON(map[string]any{
						"type":       "attempt_finished",
						"can_submit": sess.CanSubmit(),
						"missing":    sess.MissingAnswers(),
					})
					continue
				}
				_ = wc.writeJSON(questionMsg(sess))

			case "submit":
				if !sess.CanSubmit() {
					_ = wc.writeJSON(map[string]any{
						"type":    "error",
						"code":    utils.CodeInvalidArgument,
						"message": "answers incomplete",
						"missing": sess.MissingAnswers(),
					})
					continue
				}
				fb, serr := h.interviews.SubmitAnswers(ctx, authID, mockID, sess.Answers())
				if serr != nil {
					var ae *utils.AppError
					code, emsg := utils.CodeInternal, "failed to score attempt"
					if errors.As(serr, &ae) {
						code, emsg = ae.Code, ae.Message
					}
					_ = wc.writeJSON(wsError(code, emsg))
					continue
				}
				metrics.ObserveAttemptEvent("submitted")
				_ = wc.writeJSON(map[string]any{
					"type":     "feedback",
					"feedback": FeedbackResponse{Feedback: fb, Band: fb.Band()},
				})
				_ = h.answers.Cleanup(ctx, sess.ID)
				return

			case "end_attempt":
				metrics.ObserveAttemptEvent("ended")
				_ = h.answers.Cleanup(ctx, sess.ID)
				_ = wc.writeJSON(map[string]any{"type": "state", "state": attempt.StateFinished})
				return

			default:
				_ = wc.writeJSON(wsError(utils.CodeInvalidArgument, "unknown message type"))
			}
		}
	}()

	// writer: Redis Pub/Sub -> WS
	pumpMessages(ctx, readDone, pubsub.Channel(), wc.writeText)
}

// pumpMessages forwards worker pub/sub payloads to the socket until the
// reader exits, the request context ends, or the subscription closes.
func pumpMessages(ctx context.Context, readDone <-chan struct{}, msgs <-chan *redis.Message, write func([]byte) error) {
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if err := write([]byte(m.Payload)); err != nil {
				return
			}
		}
	}
}
