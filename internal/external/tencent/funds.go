package tencent

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FundSnapshot is a fund's latest published net value from the realtime
// quote endpoint
type FundSnapshot struct {
	FundCode      string    `json:"fund_code"`
	FundName      string    `json:"fund_name"`
	NetValue      float64   `json:"net_value"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// v_f_161725="1~招商中证白酒~161725~0.8420~0.8390~...";
var fundLineRe = regexp.MustCompile(`v_f_(\d+)="([^"]*)"`)

// FetchFund fetches one fund's realtime net-value snapshot
// ⭐ SSOT: 基金实时净值抓取只在这里
func (c *Client) FetchFund(ctx context.Context, fundCode string) (*FundSnapshot, error) {
	snaps, err := c.FetchFunds(ctx, []string{fundCode})
	if err != nil {
		return nil, err
	}
	for i := range snaps {
		if snaps[i].FundCode == fundCode {
			return &snaps[i], nil
		}
	}
	return nil, nil
}

// FetchFunds fetches realtime net-value snapshots for several funds in
// one call. Funds the endpoint does not know are absent from the result.
func (c *Client) FetchFunds(ctx context.Context, fundCodes []string) ([]FundSnapshot, error) {
	if len(fundCodes) == 0 {
		return nil, nil
	}

	symbols := make([]string, 0, len(fundCodes))
	for _, code := range fundCodes {
		symbols = append(symbols, "f_"+code)
	}

	fullURL := fmt.Sprintf("%s/q=%s", c.quoteBaseURL, strings.Join(symbols, ","))
	body, err := c.fetchGBK(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	snaps := parseFundLines(body)

	c.logger.WithFields(map[string]interface{}{
		"requested": len(fundCodes),
		"received":  len(snaps),
	}).Debug("Fetched fund snapshots")

	return snaps, nil
}

// parseFundLines parses the tilde-delimited assignments the quote
// endpoint returns, one per fund:
//
//	v_f_161725="1~招商中证白酒~161725~0.8420~0.8390~...";
//
// Field 3 is the current net value, field 4 the previous one.
func parseFundLines(body string) []FundSnapshot {
	var snaps []FundSnapshot

	for _, m := range fundLineRe.FindAllStringSubmatch(body, -1) {
		code := m[1]
		fields := strings.Split(m[2], "~")
		if len(fields) < 5 {
			continue
		}

		current, err := strconv.ParseFloat(fields[3], 64)
		if err != nil || current == 0 {
			continue
		}
		previous, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			continue
		}

		change := 0.0
		changePercent := 0.0
		if previous != 0 {
			change = current - previous
			changePercent = change / previous * 100
		}

		snaps = append(snaps, FundSnapshot{
			FundCode:      code,
			FundName:      fields[1],
			NetValue:      round4(current),
			PreviousClose: round4(previous),
			Change:        round4(change),
			ChangePercent: round2(changePercent),
			UpdatedAt:     time.Now(),
		})
	}

	return snaps
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
