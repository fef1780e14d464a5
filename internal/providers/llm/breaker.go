package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// BreakerProvider decorates a Provider with a circuit breaker so a degraded
// model endpoint sheds load fast instead of queueing billed calls. Streams
// bypass the breaker: they are long-lived and fail inline.
type BreakerProvider struct {
	inner    Provider
	generate *gobreaker.CircuitBreaker[string]
	embed    *gobreaker.CircuitBreaker[[]float32]
}

func NewBreakerProvider(inner Provider, log *logrus.Logger) *BreakerProvider {
	onChange := func(name string, from, to gobreaker.State) {
		log.WithFields(logrus.Fields{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		}).Warn("llm circuit breaker state changed")
	}

	trip := func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}

	return &BreakerProvider{
		inner: inner,
		generate: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:          "llm-generate",
			MaxRequests:   3,
			Interval:      60 * time.Second,
			Timeout:       60 * time.Second,
			ReadyToTrip:   trip,
			OnStateChange: onChange,
		}),
		embed: gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
			Name:          "llm-embed",
			MaxRequests:   3,
			Interval:      60 * time.Second,
			Timeout:       60 * time.Second,
			ReadyToTrip:   trip,
			OnStateChange: onChange,
		}),
	}
}

func (b *BreakerProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return b.generate.Execute(func() (string, error) {
		return b.inner.Generate(ctx, prompt)
	})
}

func (b *BreakerProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return b.embed.Execute(func() ([]float32, error) {
		return b.inner.Embed(ctx, text)
	})
}

func (b *BreakerProvider) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	return b.inner.StreamAnswer(ctx, prompt)
}

func (b *BreakerProvider) Close() error { return b.inner.Close() }
