package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Search executes a search query. With req.Page set the result carries one
// ten-document window and the total match count; without it the full match
// set comes back in one reply.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	var query url.Values
	if req.Page != nil {
		query = url.Values{"page": []string{strconv.Itoa(*req.Page)}}
	}

	var result SearchResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", query, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health reports service health. A degraded or unhealthy report is returned
// as a value, not an error; only transport failures and unexpected statuses
// error out.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("folio: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("folio: GET /health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// An unhealthy service still answers with a well-formed report.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, decodeAPIError(resp)
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("folio: decode health: %w", err)
	}
	return &h, nil
}
