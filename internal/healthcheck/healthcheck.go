// Package healthcheck pings an external dead-man's-switch URL (such as a
// healthchecks.io check) after every successful sync pass. A configured
// URL is optional; network failures are logged and swallowed, never
// propagated, because a broken healthcheck endpoint must not stop the
// daemon from syncing.
package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const timeout = 5 * time.Second

// Ping issues a GET to url and logs (but does not return) any failure.
// It is a no-op if url is empty.
func Ping(ctx context.Context, client *http.Client, url string, logger *slog.Logger) {
	if url == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Warn("healthcheck request construction failed", slog.String("error", err.Error()))
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("healthcheck ping failed", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("healthcheck ping returned non-2xx", slog.Int("status", resp.StatusCode))
	}
}
