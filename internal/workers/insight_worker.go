package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careerforge/backend/internal/services"
)

// InsightRefreshWorker periodically regenerates industry insight rows whose
// next_update has passed. One run at a time; a run processes industries
// sequentially to keep model traffic flat.
type InsightRefreshWorker struct {
	Insights services.InsightService
	Interval time.Duration

	Logger *logrus.Logger
}

func (w *InsightRefreshWorker) Start(ctx context.Context) {
	if w.Interval <= 0 {
		w.Interval = time.Hour
	}
	if w.Logger == nil {
		w.Logger = logrus.New()
	}

	go func() {
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

func (w *InsightRefreshWorker) runOnce(ctx context.Context) {
	start := time.Now()
	n, err := w.Insights.RefreshDue(ctx)
	if err != nil {
		w.Logger.WithError(err).Error("insight refresh run failed")
		return
	}
	if n > 0 {
		w.Logger.WithFields(logrus.Fields{
			"refreshed": n,
			"took":      time.Since(start).String(),
		}).Info("insight refresh run complete")
	}
}
