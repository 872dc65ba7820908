// Package catalog fetches the external seed catalog document.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sayur5/storefront/internal/port"
)

// HTTPSource fetches the catalog JSON from a URL. The document is either a
// bare array of records or an object with an "items" array.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]port.RawProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var doc json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var items []port.RawProduct
	if err := json.Unmarshal(doc, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Items []port.RawProduct `json:"items"`
	}
	if err := json.Unmarshal(doc, &wrapped); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return wrapped.Items, nil
}
