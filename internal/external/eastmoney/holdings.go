package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/zhenwei/fundlens/internal/holdings"
)

var (
	// content:"<html...>",arryear:[2024,2023]
	apidataContentRe = regexp.MustCompile(`content:"(.*)",arryear`)
	quarterRe        = regexp.MustCompile(`\d{4}年\d季度`)
)

// FetchTopHoldings fetches a fund's latest disclosed top-10 holdings
// from the F10 archive. The endpoint returns a JS assignment wrapping
// an HTML fragment, one box per disclosed quarter, newest first.
// An empty result with no error means the fund has no disclosure yet.
// ⭐ SSOT: 基金持仓抓取只在这里
func (c *Client) FetchTopHoldings(ctx context.Context, fundCode string) (string, []holdings.HoldingWeight, error) {
	year := time.Now().Year()

	// Q1 disclosures land in April; early in the year only the
	// previous year's archive has data.
	for _, y := range []int{year, year - 1} {
		quarter, held, err := c.fetchHoldingsYear(ctx, fundCode, y)
		if err != nil {
			return "", nil, err
		}
		if len(held) > 0 {
			return quarter, held, nil
		}
	}

	c.logger.WithField("fund_code", fundCode).Debug("No holdings disclosure found")
	return "", nil, nil
}

func (c *Client) fetchHoldingsYear(ctx context.Context, fundCode string, year int) (string, []holdings.HoldingWeight, error) {
	params := url.Values{}
	params.Set("type", "jjcc")
	params.Set("code", fundCode)
	params.Set("topline", "10")
	params.Set("year", strconv.Itoa(year))
	params.Set("month", "")

	headers := map[string]string{
		"Referer":    c.fundBaseURL + "/",
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	}

	body, err := c.fetchBody(ctx, c.fundBaseURL, "/FundArchivesDatas.aspx", params, headers)
	if err != nil {
		return "", nil, err
	}

	return parseHoldingsArchive(string(body))
}

// parseHoldingsArchive extracts the newest quarter's holdings table
// from the apidata JS fragment
func parseHoldingsArchive(body string) (string, []holdings.HoldingWeight, error) {
	m := apidataContentRe.FindStringSubmatch(body)
	if m == nil {
		return "", nil, nil
	}
	html := strings.ReplaceAll(m[1], `\"`, `"`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, fmt.Errorf("parse holdings HTML failed: %w", err)
	}

	// Boxes are ordered newest quarter first
	box := doc.Find("div.box").First()
	if box.Length() == 0 {
		return "", nil, nil
	}

	quarter := quarterRe.FindString(box.Find("h4").Text())

	var held []holdings.HoldingWeight
	box.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		code := strings.TrimSpace(cells.Eq(1).Text())
		name := strings.TrimSpace(cells.Eq(2).Text())
		if code == "" || name == "" {
			return
		}

		// The weight column position shifts with the related-link
		// columns, so locate it by its % suffix instead.
		var weight float64
		found := false
		for i := 3; i < cells.Length(); i++ {
			text := strings.TrimSpace(cells.Eq(i).Text())
			if strings.HasSuffix(text, "%") {
				w, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
				if err == nil {
					weight = w
					found = true
				}
				break
			}
		}
		if !found {
			return
		}

		held = append(held, holdings.HoldingWeight{
			StockCode: code,
			StockName: name,
			Weight:    weight,
		})
	})

	return quarter, held, nil
}
