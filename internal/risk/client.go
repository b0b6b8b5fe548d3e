// Package risk fetches third-party contract safety reports. Scores follow
// the provider's convention: lower is safer.
package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Finding is one itemized risk from a report.
type Finding struct {
	Level       string  `json:"level"`
	Score       float64 `json:"score"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Report is a contract safety assessment for a mint address.
type Report struct {
	Score float64   `json:"score"`
	Risks []Finding `json:"risks"`
}

// Acceptable reports whether the score clears the given ceiling.
func (r *Report) Acceptable(maxScore float64) bool {
	return r.Score <= maxScore
}

// Client talks to the risk report API.
type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// Summary fetches the report summary for a mint address. Any transport,
// HTTP, or decode failure is returned as an error; the caller decides how to
// degrade.
func (c *Client) Summary(ctx context.Context, mint string) (*Report, error) {
	var report Report

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&report).
		Get(fmt.Sprintf("%s/tokens/%s/report/summary", c.baseURL, mint))
	if err != nil {
		return nil, fmt.Errorf("risk summary %s: %w", mint, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("risk summary %s: status %d", mint, resp.StatusCode())
	}

	return &report, nil
}
