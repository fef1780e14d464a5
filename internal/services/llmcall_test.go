package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/backend/internal/llmjson"
)

func llmCallSeries(t *testing.T) int {
	t.Helper()
	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "careerforge_llm_calls_total")
	require.NoError(t, err)
	return n
}

func TestGenerateParsedRecordsModelOutcomes(t *testing.T) {
	op := "TestService.Wiring" // unique label so the series are fresh
	before := llmCallSeries(t)

	llm := &fakeLLM{responses: []string{"not json", "ok"}}
	err := generateParsed(context.Background(), llm, op, "prompt", func(raw string) error {
		if raw != "ok" {
			return fmt.Errorf("bad shape: %w", llmjson.ErrMalformed)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, llm.calls)

	// one malformed series and one ok series under the fresh op label
	assert.Equal(t, before+2, llmCallSeries(t))
}
