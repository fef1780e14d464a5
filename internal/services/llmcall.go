package services

import (
	"context"
	"errors"

	"github.com/careerforge/backend/internal/llmjson"
	"github.com/careerforge/backend/internal/metrics"
	"github.com/careerforge/backend/internal/prompts"
	"github.com/careerforge/backend/internal/providers/llm"
)

// generateParsed runs one completion and hands the raw text to parse. A
// malformed response earns exactly one retry with the stricter prompt
// variant; any other failure surfaces immediately. Every model call is
// recorded under op with its outcome.
func generateParsed(ctx context.Context, p llm.Provider, op, prompt string, parse func(raw string) error) error {
	raw, err := p.Generate(ctx, prompt)
	if err != nil {
		metrics.ObserveLLMCall(op, "error")
		return err
	}

	perr := parse(raw)
	if perr == nil {
		metrics.ObserveLLMCall(op, "ok")
		return nil
	}
	if !errors.Is(perr, llmjson.ErrMalformed) {
		metrics.ObserveLLMCall(op, "error")
		return perr
	}
	metrics.ObserveLLMCall(op, "malformed")

	raw, err = p.Generate(ctx, prompts.Stricter(prompt))
	if err != nil {
		metrics.ObserveLLMCall(op, "error")
		return err
	}
	if perr := parse(raw); perr != nil {
		if errors.Is(perr, llmjson.ErrMalformed) {
			metrics.ObserveLLMCall(op, "malformed")
		} else {
			metrics.ObserveLLMCall(op, "error")
		}
		return perr
	}
	metrics.ObserveLLMCall(op, "ok")
	return nil
}
