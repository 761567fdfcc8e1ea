package bootstrap

import (
	"context"

	"ai-blog-be/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// DefaultBackfillSpec re-queues posts without a summary every ten minutes.
const DefaultBackfillSpec = "@every 10m"

// SummaryQueuer is the part of the post service the backfill job needs.
type SummaryQueuer interface {
	EnqueueMissingSummaries(ctx context.Context) (int, error)
}

// NewSummaryBackfill returns an unstarted scheduler running the backfill on spec.
func NewSummaryBackfill(ctx context.Context, posts SummaryQueuer, log logger.ILogger, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		runBackfill(ctx, posts, log)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func runBackfill(ctx context.Context, posts SummaryQueuer, log logger.ILogger) {
	n, err := posts.EnqueueMissingSummaries(ctx)
	if err != nil {
		log.Error("BACKFILL", "Summary backfill failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if n > 0 {
		log.Info("BACKFILL", "Queued posts for summarization", map[string]interface{}{"count": n})
	}
}
