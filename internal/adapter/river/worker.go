package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// SiteEventWorker processes site lifecycle jobs from the River queue.
// For now it logs the event; the publish and unpublish events are the
// hook point for guest notifications and sitemap pings later.
type SiteEventWorker struct {
	river.WorkerDefaults[SiteEventArgs]
}

// Work processes a single site event job.
func (w *SiteEventWorker) Work(ctx context.Context, job *river.Job[SiteEventArgs]) error {
	slog.InfoContext(ctx, "processing site event",
		"event", job.Args.Event,
		"site_id", job.Args.SiteID,
		"subdomain", job.Args.Subdomain,
		"published", job.Args.Published,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
