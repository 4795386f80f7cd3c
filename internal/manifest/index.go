package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pharoslabs/pharos/internal/core/ports"
)

// HTTPIndex queries a package repository speaking the JSON index protocol
// (GET {base}/{package}/json, releases keyed by version string).
type HTTPIndex struct {
	base   string
	client *http.Client
}

var _ ports.PackageIndex = (*HTTPIndex)(nil)

// NewHTTPIndex returns an index client for the repository at base
// (e.g. "https://pypi.org/pypi"). If client is nil a default with a
// 30 second timeout is used.
func NewHTTPIndex(base string, client *http.Client) *HTTPIndex {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPIndex{base: base, client: client}
}

type indexResponse struct {
	Releases map[string][]json.RawMessage `json:"releases"`
}

// Versions returns every published version of name, unsorted.
func (ix *HTTPIndex) Versions(ctx context.Context, name string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/json", ix.base, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building index request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ix.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("package index unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package %q not found in index", name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("package index returned %s for %q", resp.Status, name)
	}

	var body indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding index response for %q: %w", name, err)
	}

	versions := make([]string, 0, len(body.Releases))
	for v := range body.Releases {
		versions = append(versions, v)
	}
	return versions, nil
}
