package social

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"pumpScope/internal/model"
)

// Client talks to the token metadata host and the reach API.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewClient builds a social lookup client. baseURL and apiKey configure the
// reach API; metadata documents are fetched from whatever URI each record
// carries.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// FetchProfileURL loads the token metadata document and returns its twitter
// profile URL. A sentinel URI, transport failure, non-2xx status, or missing
// field all report ok=false; none of them is an error to the caller.
func (c *Client) FetchProfileURL(ctx context.Context, metadataURI string) (string, bool) {
	if metadataURI == "" || metadataURI == model.MissingValue {
		return "", false
	}

	var doc struct {
		Twitter string `json:"twitter"`
	}

	// Metadata hosts do not always send a JSON content type.
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&doc).
		ForceContentType("application/json").
		Get(metadataURI)
	if err != nil {
		c.logger.Warn("metadata fetch failed", zap.String("uri", metadataURI), zap.Error(err))
		return "", false
	}
	if !resp.IsSuccess() {
		c.logger.Warn("metadata fetch rejected", zap.String("uri", metadataURI), zap.Int("status", resp.StatusCode()))
		return "", false
	}
	if doc.Twitter == "" {
		return "", false
	}

	return doc.Twitter, true
}

// Reach looks up the follower count of a handle. ok=false with a nil error
// means the API answered but carried no count.
func (c *Client) Reach(ctx context.Context, handle string) (int64, bool, error) {
	var info struct {
		FollowersCount *int64 `json:"followers_count"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("ApiKey", c.apiKey).
		SetResult(&info).
		Get(fmt.Sprintf("%s/info/%s", c.baseURL, handle))
	if err != nil {
		return 0, false, fmt.Errorf("reach lookup %s: %w", handle, err)
	}
	if !resp.IsSuccess() {
		return 0, false, fmt.Errorf("reach lookup %s: status %d", handle, resp.StatusCode())
	}
	if info.FollowersCount == nil {
		return 0, false, nil
	}

	return *info.FollowersCount, true, nil
}
