package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/httputil"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// Client handles communication with Eastmoney (东方财富)
// ⭐ SSOT: 东方财富接口调用只在这个客户端
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	quoteBaseURL string
	fundBaseURL  string
	limiter      *rate.Limiter
}

// NewClient creates a new Eastmoney client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.Eastmoney.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		quoteBaseURL: cfg.Eastmoney.QuoteBaseURL,
		fundBaseURL:  cfg.Eastmoney.FundBaseURL,
		limiter:      rate.NewLimiter(rate.Limit(rps), int(rps)),
	}
}

// fetchJSON issues a rate-limited GET and decodes the JSON body into dest
func (c *Client) fetchJSON(ctx context.Context, base, path string, params url.Values, dest interface{}) error {
	body, err := c.fetchBody(ctx, base, path, params, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// fetchBody issues a rate-limited GET and returns the raw body
func (c *Client) fetchBody(ctx context.Context, base, path string, params url.Values, headers map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	fullURL := base + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	var resp *http.Response
	var err error
	if len(headers) > 0 {
		resp, err = c.httpClient.GetWithHeaders(ctx, fullURL, headers)
	} else {
		resp, err = c.httpClient.Get(ctx, fullURL)
	}
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}
	return body, nil
}

// toFloat converts Eastmoney numeric fields, which arrive as numbers
// normally and as the string "-" for suspended securities
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
