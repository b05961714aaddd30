package tencent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// KLinePoint is one candle from the fqkline endpoint
type KLinePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Period presets for fund history charts. Longer ranges switch to
// coarser candles so the point count stays small.
var periodPresets = map[string]struct {
	Candle string
	Count  int
}{
	"1w": {"day", 7},
	"1m": {"day", 30},
	"3m": {"day", 90},
	"6m": {"day", 180},
	"1y": {"week", 52},
	"3y": {"month", 36},
}

type fqklineResponse struct {
	Code int                               `json:"code"`
	Msg  string                            `json:"msg"`
	Data map[string]map[string]interface{} `json:"data"`
}

// marketPrefix maps an exchange-listed fund code to its market flag:
// 15/16 开头在深圳, 50/51/52 开头在上海.
func marketPrefix(fundCode string) string {
	switch {
	case strings.HasPrefix(fundCode, "15"), strings.HasPrefix(fundCode, "16"):
		return "sz"
	case strings.HasPrefix(fundCode, "50"), strings.HasPrefix(fundCode, "51"), strings.HasPrefix(fundCode, "52"):
		return "sh"
	default:
		return "sz"
	}
}

// FetchKLine fetches forward-adjusted candles for an exchange-listed
// fund. period is one of 1w/1m/3m/6m/1y/3y.
// ⭐ SSOT: 基金K线抓取只在这里
func (c *Client) FetchKLine(ctx context.Context, fundCode, period string) ([]KLinePoint, error) {
	preset, ok := periodPresets[period]
	if !ok {
		preset = periodPresets["1m"]
	}

	fullCode := marketPrefix(fundCode) + fundCode
	fullURL := fmt.Sprintf("%s/appstock/app/fqkline/get?param=%s,%s,,,%d,qfq",
		c.klineBaseURL, fullCode, preset.Candle, preset.Count)

	body, err := c.fetchJSONBody(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	var resp fqklineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode kline response failed: %w", err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("tencent kline returned code=%d msg=%s", resp.Code, resp.Msg)
	}

	// data.{sz161725}.{qfqday|qfqweek|qfqmonth} is an array of
	// [date, open, close, low, high, volume] rows
	raw, ok := resp.Data[fullCode]["qfq"+preset.Candle]
	if !ok {
		// Unadjusted key when the fund has no adjustment history
		raw, ok = resp.Data[fullCode][preset.Candle]
		if !ok {
			return nil, nil
		}
	}

	rows, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}

	points := make([]KLinePoint, 0, len(rows))
	for _, r := range rows {
		cells, ok := r.([]interface{})
		if !ok || len(cells) < 5 {
			continue
		}

		date, _ := cells[0].(string)
		open, ok1 := cellFloat(cells[1])
		close_, ok2 := cellFloat(cells[2])
		low, ok3 := cellFloat(cells[3])
		high, ok4 := cellFloat(cells[4])
		if date == "" || !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		var volume float64
		if len(cells) > 5 {
			volume, _ = cellFloat(cells[5])
		}

		points = append(points, KLinePoint{
			Date:   date,
			Open:   round4(open),
			High:   round4(high),
			Low:    round4(low),
			Close:  round4(close_),
			Volume: round2(volume),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"fund_code": fundCode,
		"period":    period,
		"count":     len(points),
	}).Debug("Fetched kline")

	return points, nil
}

// cellFloat handles kline cells arriving as either numbers or strings
func cellFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
