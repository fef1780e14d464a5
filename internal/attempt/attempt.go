// Package attempt tracks the live state of one mock-interview run: which
// question is up, what has been answered so far, and whether answers are
// complete enough to score.
package attempt

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// QuestionCount is how many questions an interview carries and how many
	// answer slots must be filled before feedback may be requested.
	QuestionCount = 5

	// MinAnswerLen is the minimum rune count for an answer slot to count as
	// answered. A completeness heuristic, not semantic validation.
	MinAnswerLen = 5
)

type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateActive     State = "active"
	StateFinished   State = "finished"
)

var (
	ErrNotActive     = errors.New("attempt is not active")
	ErrBadTransition = errors.New("invalid state transition")
	ErrMicDenied     = errors.New("microphone permission denied")
	ErrIncomplete    = errors.New("not all answers meet the minimum length")
)

// Session is the state of one attempt. All methods are safe for concurrent
// use; the WebSocket reader and the answer workers both touch it.
type Session struct {
	mu sync.Mutex

	ID     string
	MockID string
	UserID string

	state     State
	questions []string
	index     int
	answers   []string
	interim   string // volatile transcript tail for the current question
	recording bool
	restarts  int // capture resumes after no-speech upstream errors

	StartedAt  time.Time
	FinishedAt time.Time
}

func NewSession(mockID, userID string, questions []string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		MockID:    mockID,
		UserID:    userID,
		state:     StateIdle,
		questions: questions,
		answers:   make([]string, len(questions)),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves idle → connecting while capture devices come up.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrBadTransition
	}
	s.state = StateConnecting
	return nil
}

// Activate moves connecting → active once capture is granted and starts the
// clock. Capture is enabled immediately.
func (s *Session) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting {
		return ErrBadTransition
	}
	s.state = StateActive
	s.recording = true
	s.StartedAt = time.Now().UTC()
	return nil
}

func (s *Session) SetRecording(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	s.recording = on
	if !on {
		s.interim = ""
	}
	return nil
}

func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// AppendInterim replaces the volatile tail for the current question.
func (s *Session) AppendInterim(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || !s.recording {
		return ErrNotActive
	}
	s.interim = text
	return nil
}

// AppendFinal commits a finished transcript fragment onto the current
// answer and clears the interim tail.
func (s *Session) AppendFinal(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || !s.recording {
		return ErrNotActive
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if s.answers[s.index] == "" {
		s.answers[s.index] = text
	} else {
		s.answers[s.index] += " " + text
	}
	s.interim = ""
	return nil
}

// SpeechError reacts to an upstream recognition error. A no-speech error
// while recording resumes capture (counted); a permission error is terminal
// for the current recording and surfaces to the caller.
func (s *Session) SpeechError(kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	switch kind {
	case "no-speech":
		if s.recording {
			s.restarts++
		}
		return nil
	case "not-allowed":
		s.recording = false
		s.interim = ""
		return ErrMicDenied
	default:
		return nil
	}
}

// Next advances to the next question, restoring whatever was previously
// recorded for it. Firing Next on the last question finishes the attempt.
func (s *Session) Next() (finished bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false, ErrNotActive
	}
	s.interim = ""
	if s.index+1 >= len(s.questions) {
		s.state = StateFinished
		s.recording = false
		s.FinishedAt = time.Now().UTC()
		return true, nil
	}
	s.index++
	return false, nil
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < len(s.questions) {
		return s.questions[s.index]
	}
	return ""
}

// Answers returns a copy of the committed answers.
func (s *Session) Answers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.answers))
	copy(out, s.answers)
	return out
}

// CanSubmit reports whether every answer slot meets MinAnswerLen.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if len([]rune(strings.TrimSpace(a))) < MinAnswerLen {
			return false
		}
	}
	return true
}

// MissingAnswers lists 0-based question indexes that fail the guard.
func (s *Session) MissingAnswers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for i, a := range s.answers {
		if len([]rune(strings.TrimSpace(a))) < MinAnswerLen {
			out = append(out, i)
		}
	}
	return out
}

// teardown force-finishes the session, whatever state it is in.
func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFinished {
		s.state = StateFinished
		s.recording = false
		s.interim = ""
		s.FinishedAt = time.Now().UTC()
	}
}
