// Package syncloop implements the single-threaded, single-reader consumer
// of the trigger queue: it blocks for an event, coalesces any further
// events already queued, invokes a reconciliation pass, and pings an
// optional healthcheck URL on success.
package syncloop

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/beyond-all-reason/map-syncer/internal/healthcheck"
	"github.com/beyond-all-reason/map-syncer/internal/trigger"
)

// Reconciler is the subset of *reconcile.Reconciler the loop depends on,
// kept as an interface so the loop can be tested without a real inventory
// server.
type Reconciler interface {
	Sync(ctx context.Context, directory, inventoryURL string, deleteAfter time.Duration) error
}

// Options bundles the fixed parameters of one daemon run.
type Options struct {
	Directory      string
	InventoryURL   string
	DeleteAfter    time.Duration
	HealthcheckURL string
}

// Run drains queue until a STOP event is observed (directly, or coalesced
// alongside a batch of SYNC events), invoking reconciler.Sync once per
// coalesced batch. It returns nil on a clean STOP; ctx cancellation is not
// itself an exit condition — shutdown is driven entirely by the queue, and
// an in-progress reconciliation always runs to completion rather than being
// cancelled mid-pass.
func Run(ctx context.Context, queue *trigger.Queue, reconciler Reconciler, client *http.Client, opts Options, logger *slog.Logger) error {
	for {
		e := queue.Get()

		reason, stop := coalesce(queue, e)
		if stop {
			logger.Info("stop event observed, shutting down sync loop")
			return nil
		}

		runPass(ctx, reconciler, client, opts, reason, logger)
	}
}

// coalesce drains any further events already queued behind first. If a
// STOP is seen, it reports stop=true immediately. Otherwise it returns the
// reason of the first (undrained-past) event — a burst of SYNC events
// collapses into a single reconciliation pass.
func coalesce(queue *trigger.Queue, first trigger.Event) (reason string, stop bool) {
	if first.Op == trigger.Stop {
		return "", true
	}

	reason = first.Reason

	for {
		e, ok := queue.TryGet()
		if !ok {
			return reason, false
		}

		if e.Op == trigger.Stop {
			return "", true
		}
	}
}

func runPass(ctx context.Context, reconciler Reconciler, client *http.Client, opts Options, reason string, logger *slog.Logger) {
	start := time.Now()

	err := reconciler.Sync(ctx, opts.Directory, opts.InventoryURL, opts.DeleteAfter)
	if err != nil {
		// Wrapped here, not at the origin, so every sync-pass failure gets a
		// stack trace captured at the point the loop catches it.
		wrapped := errors.Wrap(err, "sync pass failed")

		logger.Error("sync pass failed",
			slog.String("reason", reason),
			slog.String("error", fmt.Sprintf("%+v", wrapped)),
		)

		return
	}

	logger.Info("sync pass succeeded",
		slog.String("reason", reason),
		slog.Duration("duration", time.Since(start)),
	)

	healthcheck.Ping(ctx, client, opts.HealthcheckURL, logger)
}
