package tencent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MarketIndex is one exchange index snapshot
type MarketIndex struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// The three benchmark indices the dashboard shows
var defaultIndexSymbols = []string{"sh000001", "sz399001", "sz399006"}

// v_sh000001="1~上证指数~000001~3285.42~3270.10~...";
var indexLineRe = regexp.MustCompile(`v_((?:sh|sz)\d+)="([^"]*)"`)

// FetchIndices fetches the benchmark index snapshots (上证指数, 深证成指,
// 创业板指)
// ⭐ SSOT: 大盘指数抓取只在这里
func (c *Client) FetchIndices(ctx context.Context) ([]MarketIndex, error) {
	fullURL := fmt.Sprintf("%s/q=%s", c.quoteBaseURL, strings.Join(defaultIndexSymbols, ","))
	body, err := c.fetchGBK(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	indices := parseIndexLines(body)

	c.logger.WithField("count", len(indices)).Debug("Fetched market indices")
	return indices, nil
}

// parseIndexLines parses index quote assignments. Field 1 is the name,
// 2 the bare symbol, 3 the current value, 4 the previous close.
func parseIndexLines(body string) []MarketIndex {
	var indices []MarketIndex

	for _, m := range indexLineRe.FindAllStringSubmatch(body, -1) {
		fields := strings.Split(m[2], "~")
		if len(fields) < 5 {
			continue
		}

		value, err := strconv.ParseFloat(fields[3], 64)
		if err != nil || value == 0 {
			continue
		}
		previous, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			continue
		}

		change := 0.0
		changePercent := 0.0
		if previous != 0 {
			change = value - previous
			changePercent = change / previous * 100
		}

		indices = append(indices, MarketIndex{
			Symbol:        fields[2],
			Name:          fields[1],
			Value:         round2(value),
			Change:        round2(change),
			ChangePercent: round2(changePercent),
		})
	}

	return indices
}
