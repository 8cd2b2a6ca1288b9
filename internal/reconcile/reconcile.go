// Package reconcile implements the Reconciler: given the current inventory
// and the current directory, it downloads missing artifacts and retires
// stale ones using a tombstone journal.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/beyond-all-reason/map-syncer/internal/inventory"
	"github.com/beyond-all-reason/map-syncer/internal/mapdownload"
	"github.com/beyond-all-reason/map-syncer/internal/tombstone"
)

// managedSuffixes are the file suffixes the daemon ever tombstones or
// deletes. Anything else is a foreign file and is never touched.
var managedSuffixes = map[string]bool{
	".sd7": true,
	".sdz": true,
	".tmp": true,
}

// Reconciler owns every mutation under one maps directory. A single
// Reconciler value must never have Sync invoked concurrently with itself —
// the Sync Loop enforces that by running passes on one goroutine.
type Reconciler struct {
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger

	// Now returns the current time. Defaults to time.Now; tests inject a
	// fixed or stepped clock so deletion-grace-period scenarios are
	// deterministic.
	Now func() time.Time
}

// New returns a Reconciler with sensible defaults filled in.
func New(client *http.Client, userAgent string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		HTTPClient: client,
		UserAgent:  userAgent,
		Logger:     logger,
		Now:        time.Now,
	}
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}

	return time.Now()
}

// Sync runs one reconciliation pass against directory: fetch the inventory,
// download anything missing, then sweep files that have fallen out of the
// inventory. deleteAfter < 0 disables the sweep entirely.
func (r *Reconciler) Sync(ctx context.Context, directory, inventoryURL string, deleteAfter time.Duration) error {
	inv, err := inventory.Fetch(ctx, r.HTTPClient, inventoryURL, r.UserAgent)
	if err != nil {
		return fmt.Errorf("reconcile: fetching inventory: %w", err)
	}

	if err := r.materializeMissing(ctx, directory, inv); err != nil {
		return err
	}

	if deleteAfter < 0 {
		return nil
	}

	return r.sweepStale(directory, inv, deleteAfter)
}

// materializeMissing downloads any inventory entry not already present on
// disk. Downloads are sequential by design: one Reconciler, one goroutine,
// no concurrent writers under directory.
func (r *Reconciler) materializeMissing(ctx context.Context, directory string, inv inventory.Inventory) error {
	for _, e := range inv {
		path := filepath.Join(directory, e.FileName)

		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("reconcile: checking %s: %w", path, err)
		}

		r.Logger.Info("downloading map", slog.String("file", e.FileName))

		if err := mapdownload.Download(ctx, r.HTTPClient, e.DownloadURL, path, e.MD5, r.UserAgent); err != nil {
			return fmt.Errorf("reconcile: downloading %s: %w", e.FileName, err)
		}

		if info, statErr := os.Stat(path); statErr == nil {
			r.Logger.Debug("downloaded map",
				slog.String("file", e.FileName),
				slog.String("size", humanize.Bytes(uint64(info.Size()))),
			)
		}
	}

	return nil
}

// sweepStale loads the tombstone journal, classifies every
// directory entry, delete what has aged past deleteAfter, and persist the
// journal only if it changed.
func (r *Reconciler) sweepStale(directory string, inv inventory.Inventory, deleteAfter time.Duration) error {
	journalPath := filepath.Join(directory, tombstone.FileName)

	oldSeen, err := tombstone.Load(journalPath)
	if err != nil {
		return fmt.Errorf("reconcile: loading tombstone journal: %w", err)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return fmt.Errorf("reconcile: reading %s: %w", directory, err)
	}

	liveNames := inv.FileNames()
	newSeen := tombstone.Journal{}
	now := r.now()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if _, live := liveNames[name]; live {
			continue
		}

		if !managedSuffixes[filepath.Ext(name)] {
			continue
		}

		t, tracked := oldSeen[name]
		if !tracked {
			t = now.Unix()
		}

		if now.Unix()-t > int64(deleteAfter.Seconds()) {
			r.Logger.Info("deleting stale map", slog.String("file", name))

			if err := os.Remove(filepath.Join(directory, name)); err != nil {
				return fmt.Errorf("reconcile: deleting %s: %w", name, err)
			}

			continue
		}

		newSeen[name] = t
		r.Logger.Debug("tombstoned", slog.String("file", name), slog.Int64("first_absent", t))
	}

	return tombstone.Save(journalPath, oldSeen, newSeen)
}
