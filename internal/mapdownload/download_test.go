package mapdownload_test

import (
	"crypto/md5" //nolint:gosec // test fixture hashing, not a security boundary.
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-all-reason/map-syncer/internal/mapdownload"
)

func md5Hex(b []byte) string {
	sum := md5.Sum(b) //nolint:gosec
	return fmt.Sprintf("%x", sum)
}

func TestDownload_Success(t *testing.T) {
	body := []byte("map file contents")
	digest := md5Hex(body)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "map_one.sd7")

	err := mapdownload.Download(t.Context(), srv.Client(), srv.URL, dest, digest, "map-syncer/test")
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	_, err = os.Stat(dest + ".tmp")
	assert.True(t, os.IsNotExist(err), ".tmp file should not remain after a successful download")
}

func TestDownload_IntegrityMismatchLeavesTmpAndNoDest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("unexpected contents"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "map_one.sd7")

	err := mapdownload.Download(t.Context(), srv.Client(), srv.URL, dest, "0000000000000000000000000000000", "ua")
	require.Error(t, err)

	var mismatch *mapdownload.ErrIntegrityMismatch
	require.ErrorAs(t, err, &mismatch)

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "destination must not exist on integrity failure")

	_, err = os.Stat(dest + ".tmp")
	assert.NoError(t, err, ".tmp file is left behind for later GC")
}

func TestDownload_HTTPErrorLeavesDestUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "map_one.sd7")
	require.NoError(t, os.WriteFile(dest, []byte("original"), 0o644))

	err := mapdownload.Download(t.Context(), srv.Client(), srv.URL, dest, "irrelevant", "ua")
	require.Error(t, err)

	got, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(got))
}

func TestDownload_CaseInsensitiveDigestMatch(t *testing.T) {
	body := []byte("case test")
	digest := md5Hex(body)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "map.sd7")

	err := mapdownload.Download(t.Context(), srv.Client(), srv.URL, dest, strings.ToUpper(digest), "ua")
	require.NoError(t, err)
}
