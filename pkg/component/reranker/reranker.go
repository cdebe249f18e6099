// Package reranker provides a client for a cross-encoder reranking service.
//
// The service is expected to expose a Jina-compatible POST /rerank endpoint,
// such as a locally hosted jina-reranker-v2 model behind a small HTTP wrapper
// or a text-embeddings-inference instance.
package reranker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	rerankeropts "github.com/kart-io/finrag/pkg/options/reranker"
	"github.com/kart-io/finrag/pkg/utils/json"
)

// Client is a reranker service client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	opts       *rerankeropts.Options
}

// New creates a new reranker client.
func New(opts *rerankeropts.Options) *Client {
	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		opts: opts,
	}
}

// Model returns the configured reranker model name.
func (c *Client) Model() string {
	return c.opts.Model
}

// RerankRequest is the request body for reranking.
type RerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

// RerankResult is one scored document in the rerank response.
type RerankResult struct {
	// Index refers to the position of the document in the request.
	Index int `json:"index"`
	// RelevanceScore is the cross-encoder relevance score.
	RelevanceScore float64 `json:"relevance_score"`
}

// RerankResponse is the response from the rerank endpoint.
type RerankResponse struct {
	Model   string         `json:"model"`
	Results []RerankResult `json:"results"`
}

// Rerank scores documents against the query and returns the results ordered
// by descending relevance, truncated to topN.
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(documents) {
		topN = len(documents)
	}

	reqBody := RerankRequest{
		Model:     c.opts.Model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	var lastErr error
	for i := 0; i <= c.opts.MaxRetries; i++ {
		results, err := c.doRerank(ctx, body)
		if err == nil {
			// Services are not required to return a sorted list.
			sort.SliceStable(results, func(a, b int) bool {
				return results[a].RelevanceScore > results[b].RelevanceScore
			})
			if len(results) > topN {
				results = results[:topN]
			}
			return results, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i < c.opts.MaxRetries {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}

	return nil, fmt.Errorf("rerank request failed: %w", lastErr)
}

func (c *Client) doRerank(ctx context.Context, body []byte) ([]RerankResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rerank failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var rerankResp RerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode rerank response: %w", err)
	}

	for _, r := range rerankResp.Results {
		if r.Index < 0 {
			return nil, fmt.Errorf("rerank response contains invalid index %d", r.Index)
		}
	}

	return rerankResp.Results, nil
}

// Ping checks if the reranker service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed with status %d", resp.StatusCode)
	}

	return nil
}
