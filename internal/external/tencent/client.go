package tencent

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/httputil"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// Client handles communication with Tencent Finance (腾讯财经)
// ⭐ SSOT: 腾讯财经接口调用只在这个客户端
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	quoteBaseURL string
	klineBaseURL string
}

// NewClient creates a new Tencent Finance client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		quoteBaseURL: cfg.Tencent.QuoteBaseURL,
		klineBaseURL: cfg.Tencent.KLineBaseURL,
	}
}

// fetchGBK fetches a URL and decodes the GBK body the quote endpoint
// serves into UTF-8
func (c *Client) fetchGBK(ctx context.Context, fullURL string) (string, error) {
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	decoded, err := io.ReadAll(transform.NewReader(resp.Body, simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode GBK body failed: %w", err)
	}
	return string(decoded), nil
}

// fetchJSONBody fetches a URL and returns the raw UTF-8 body
func (c *Client) fetchJSONBody(ctx context.Context, fullURL string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, fullURL)
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
