// Package mapdownload streams a remote map artifact to a temporary path,
// verifies its digest, and atomically publishes it under its final name.
package mapdownload

import (
	"context"
	"crypto/md5" //nolint:gosec // MD5 is the inventory's content-addressing scheme, not used for security.
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// hashChunkSize is the read-back buffer size used when verifying a
// downloaded file's digest.
const hashChunkSize = 4096

// ErrIntegrityMismatch is returned when a downloaded file's MD5 digest does
// not match the digest advertised by the inventory.
type ErrIntegrityMismatch struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ErrIntegrityMismatch) Error() string {
	return fmt.Sprintf("mapdownload: MD5 mismatch for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Download streams url into destPath via a temporary <destPath>.tmp sink,
// fsyncs it, verifies its MD5 digest against expectedMD5Hex (case
// insensitive), and atomically renames it onto destPath. On integrity
// failure the .tmp file is left in place for a later pass to garbage
// collect as a candidate-stale file; destPath is left unchanged in every
// failure case.
func Download(ctx context.Context, client *http.Client, url, destPath, expectedMD5Hex, userAgent string) error {
	tmpPath := destPath + ".tmp"

	if err := download(ctx, client, url, tmpPath, userAgent); err != nil {
		return err
	}

	actual, err := hashFile(tmpPath)
	if err != nil {
		return fmt.Errorf("mapdownload: hashing %s: %w", tmpPath, err)
	}

	if !strings.EqualFold(actual, expectedMD5Hex) {
		return &ErrIntegrityMismatch{Path: destPath, Expected: expectedMD5Hex, Actual: actual}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("mapdownload: renaming %s to %s: %w", tmpPath, destPath, err)
	}

	return nil
}

// download performs the GET and durable write to tmpPath: truncating open,
// stream the body, flush, then fsync — in that order, so the digest is
// only ever computed over data known to be on disk.
func download(ctx context.Context, client *http.Client, url, tmpPath, userAgent string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("mapdownload: building request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mapdownload: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mapdownload: %s returned status %d", url, resp.StatusCode)
	}

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("mapdownload: creating %s: %w", tmpPath, err)
	}

	if _, copyErr := io.Copy(f, resp.Body); copyErr != nil {
		f.Close()

		return fmt.Errorf("mapdownload: writing %s: %w", tmpPath, copyErr)
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return fmt.Errorf("mapdownload: fsyncing %s: %w", tmpPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("mapdownload: closing %s: %w", tmpPath, err)
	}

	return nil
}

// hashFile computes the MD5 digest of a file by reading it back in fixed
// chunks rather than hashing inline while writing — this guards against
// trusting bytes that were never actually fsynced to disk.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // content-addressing checksum, not a security boundary.
	buf := make([]byte, hashChunkSize)

	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
