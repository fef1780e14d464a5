package attempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fiveQuestions = []string{"q1", "q2", "q3", "q4", "q5"}

func activeSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("mock_1", "user_1", fiveQuestions)
	require.NoError(t, s.Begin())
	require.NoError(t, s.Activate())
	return s
}

func TestLifecycleTransitions(t *testing.T) {
	s := NewSession("mock_1", "user_1", fiveQuestions)
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Begin())
	assert.Equal(t, StateConnecting, s.State())

	// cannot begin twice
	assert.ErrorIs(t, s.Begin(), ErrBadTransition)

	require.NoError(t, s.Activate())
	assert.Equal(t, StateActive, s.State())
	assert.True(t, s.Recording())

	// activating an active session is invalid
	assert.ErrorIs(t, s.Activate(), ErrBadTransition)
}

func TestFinalFragmentsAccumulatePerQuestion(t *testing.T) {
	s := activeSession(t)

	require.NoError(t, s.AppendInterim("I would start"))
	require.NoError(t, s.AppendFinal("I would start by profiling."))
	require.NoError(t, s.AppendFinal("Then add an index."))

	assert.Equal(t, "I would start by profiling. Then add an index.", s.Answers()[0])
}

func TestNextAdvancesAndLastNextFinishes(t *testing.T) {
	s := activeSession(t)

	for i := 0; i < len(fiveQuestions)-1; i++ {
		require.NoError(t, s.AppendFinal("answer number with detail"))
		finished, err := s.Next()
		require.NoError(t, err)
		assert.False(t, finished)
		assert.Equal(t, i+1, s.Index())
	}

	require.NoError(t, s.AppendFinal("closing answer"))
	finished, err := s.Next()
	require.NoError(t, err)
	assert.True(t, finished)
	assert.Equal(t, StateFinished, s.State())
	assert.False(t, s.Recording())

	// no transitions after finish
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrNotActive)
	assert.ErrorIs(t, s.AppendFinal("late"), ErrNotActive)
}

func TestSubmissionGuard(t *testing.T) {
	s := activeSession(t)
	assert.False(t, s.CanSubmit())
	assert.Len(t, s.MissingAnswers(), QuestionCount)

	for i := 0; i < QuestionCount; i++ {
		require.NoError(t, s.AppendFinal("long enough answer"))
		if i < QuestionCount-1 {
			_, err := s.Next()
			require.NoError(t, err)
		}
	}
	assert.True(t, s.CanSubmit())
	assert.Empty(t, s.MissingAnswers())
}

func TestSubmissionGuardRejectsShortAnswer(t *testing.T) {
	s := activeSession(t)
	require.NoError(t, s.AppendFinal("ok")) // under MinAnswerLen runes
	for i := 0; i < QuestionCount-1; i++ {
		_, err := s.Next()
		require.NoError(t, err)
		require.NoError(t, s.AppendFinal("a proper sized answer"))
	}
	assert.False(t, s.CanSubmit())
	assert.Equal(t, []int{0}, s.MissingAnswers())
}

func TestSpeechErrors(t *testing.T) {
	s := activeSession(t)

	// no-speech while recording keeps the session capturing
	require.NoError(t, s.SpeechError("no-speech"))
	assert.True(t, s.Recording())

	// permission denial is terminal for the recording
	assert.ErrorIs(t, s.SpeechError("not-allowed"), ErrMicDenied)
	assert.False(t, s.Recording())
	assert.ErrorIs(t, s.AppendInterim("x"), ErrNotActive)

	// but the attempt itself can resume recording
	require.NoError(t, s.SetRecording(true))
	require.NoError(t, s.AppendInterim("back again"))
}

func TestManagerSingleActiveHandle(t *testing.T) {
	m := NewManager()

	first := m.Start("mock_1", "user_1", fiveQuestions)
	require.NoError(t, first.Begin())
	require.NoError(t, first.Activate())

	// starting again tears the old handle down synchronously
	second := m.Start("mock_1", "user_1", fiveQuestions)
	assert.Equal(t, StateFinished, first.State())
	assert.False(t, first.Recording())
	assert.NotEqual(t, first.ID, second.ID)

	got, ok := m.Get("mock_1")
	require.True(t, ok)
	assert.Same(t, second, got)

	m.End("mock_1")
	_, ok = m.Get("mock_1")
	assert.False(t, ok)
	assert.Equal(t, StateFinished, second.State())
}
