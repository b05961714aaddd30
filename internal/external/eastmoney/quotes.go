package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zhenwei/fundlens/internal/quotes"
)

// quote list response from push2
type ulistResponse struct {
	RC   int `json:"rc"`
	Data *struct {
		Diff []struct {
			Code          string      `json:"f12"`
			Name          string      `json:"f14"`
			Price         interface{} `json:"f2"` // "-" when suspended
			ChangePercent interface{} `json:"f3"`
		} `json:"diff"`
	} `json:"data"`
}

// secID prefixes stock codes with the exchange flag push2 expects:
// 1 for Shanghai (6xxxxx), 0 for Shenzhen.
func secID(stockCode string) string {
	if strings.HasPrefix(stockCode, "6") {
		return "1." + stockCode
	}
	return "0." + stockCode
}

// FetchQuotes fetches realtime quotes for a batch of A-share codes.
// Suspended or unknown codes are silently absent from the result.
// ⭐ SSOT: 股票实时行情抓取只在这里
func (c *Client) FetchQuotes(ctx context.Context, stockCodes []string) (map[string]quotes.Quote, error) {
	if len(stockCodes) == 0 {
		return map[string]quotes.Quote{}, nil
	}

	secids := make([]string, 0, len(stockCodes))
	for _, code := range stockCodes {
		secids = append(secids, secID(code))
	}

	params := url.Values{}
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fields", "f12,f14,f2,f3")
	params.Set("secids", strings.Join(secids, ","))

	var resp ulistResponse
	if err := c.fetchJSON(ctx, c.quoteBaseURL, "/api/qt/ulist.np/get", params, &resp); err != nil {
		return nil, err
	}

	if resp.RC != 0 {
		return nil, fmt.Errorf("eastmoney returned rc=%d", resp.RC)
	}
	if resp.Data == nil {
		return map[string]quotes.Quote{}, nil
	}

	now := time.Now()
	out := make(map[string]quotes.Quote, len(resp.Data.Diff))
	for _, item := range resp.Data.Diff {
		if item.Code == "" {
			continue
		}
		price, okPrice := toFloat(item.Price)
		change, okChange := toFloat(item.ChangePercent)
		if !okPrice || !okChange {
			// Suspended stock, no usable quote today
			continue
		}
		out[item.Code] = quotes.Quote{
			StockCode:     item.Code,
			StockName:     item.Name,
			Price:         price,
			ChangePercent: change,
			ObservedAt:    now,
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(stockCodes),
		"received":  len(out),
	}).Debug("Fetched stock quotes")

	return out, nil
}
