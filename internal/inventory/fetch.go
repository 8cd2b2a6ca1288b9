package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// rawEntry mirrors the JSON schema published by the inventory endpoint.
// Unknown fields are ignored by encoding/json's default decode behavior.
type rawEntry struct {
	SpringName  string `json:"springName"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadURL"`
	MD5         string `json:"md5"`
}

// Fetch retrieves and parses the authoritative live-map list. It issues an
// HTTP GET with a fixed user-agent and a Cache-Control: no-cache header, and
// treats every failure mode — network error, non-2xx response, malformed
// JSON, missing required field, or a duplicate file name across entries —
// as a single fetch error for the caller (the Sync Loop) to catch and log.
func Fetch(ctx context.Context, client *http.Client, url, userAgent string) (Inventory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("inventory: building request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("inventory: %s returned status %d", url, resp.StatusCode)
	}

	var raw []rawEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("inventory: decoding response from %s: %w", url, err)
	}

	inv := make(Inventory, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, r := range raw {
		if r.SpringName == "" || r.FileName == "" || r.DownloadURL == "" || r.MD5 == "" {
			return nil, fmt.Errorf("inventory: entry %d missing a required field", i)
		}

		if _, dup := seen[r.FileName]; dup {
			return nil, fmt.Errorf("inventory: duplicate fileName %q", r.FileName)
		}

		seen[r.FileName] = struct{}{}

		inv = append(inv, Entry{
			SpringName:  r.SpringName,
			FileName:    r.FileName,
			DownloadURL: r.DownloadURL,
			MD5:         r.MD5,
		})
	}

	return inv, nil
}
