package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
)

// fetchTimeout bounds the single outbound catalog request. No retries on
// this path: the frontend refetches on its own.
const fetchTimeout = 30 * time.Second

// Client fetches and rewrites the product catalog.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a catalog client for the given Apps Script endpoint.
// The underlying http.Client follows redirects, which Apps Script relies
// on (the exec URL 302s to a googleusercontent host).
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: fetchTimeout},
		logger:   logger,
	}
}

// FetchProducts performs one GET against the catalog endpoint and rewrites
// each item's image links against baseURL. Non-2xx responses and network
// failures both come back as apperror.ErrUpstream.
func (c *Client) FetchProducts(ctx context.Context, baseURL string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Upstream(fmt.Sprintf("Error fetching products: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.Upstream(fmt.Sprintf("Catalog endpoint returned status %d", resp.StatusCode))
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, apperror.Upstream(fmt.Sprintf("Error decoding products: %v", err))
	}

	for _, item := range items {
		RewriteImages(item, baseURL)
	}

	c.logger.Info("products fetched",
		slog.Int("count", len(items)),
		slog.String("endpoint", c.endpoint),
	)

	return items, nil
}
