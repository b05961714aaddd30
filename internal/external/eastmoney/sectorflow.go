package eastmoney

import (
	"context"
	"fmt"
	"math"
	"net/url"
)

// SectorFlow is one industry sector's money-flow snapshot.
// Inflow values are normalized to 亿元.
type SectorFlow struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangePercent     float64 `json:"change_percent"`
	MainInflow        float64 `json:"main_inflow"`
	MainInflowPercent float64 `json:"main_inflow_percent"`
	SuperLargeInflow  float64 `json:"super_large_inflow"`
	SuperLargePercent float64 `json:"super_large_percent"`
	LargeInflow       float64 `json:"large_inflow"`
	LargePercent      float64 `json:"large_percent"`
	MediumInflow      float64 `json:"medium_inflow"`
	MediumPercent     float64 `json:"medium_percent"`
	SmallInflow       float64 `json:"small_inflow"`
	SmallPercent      float64 `json:"small_percent"`
}

type clistResponse struct {
	RC   int `json:"rc"`
	Data *struct {
		Diff []map[string]interface{} `json:"diff"`
	} `json:"data"`
}

// toYi converts 元 to 亿元, two decimals
func toYi(v float64) float64 {
	return math.Round(v/1e8*100) / 100
}

// FetchSectorFlows fetches industry sectors ranked by main net inflow
// ⭐ SSOT: 板块资金流向抓取只在这里
func (c *Client) FetchSectorFlows(ctx context.Context, pageSize int) ([]SectorFlow, error) {
	if pageSize <= 0 {
		pageSize = 50
	}

	params := url.Values{}
	params.Set("fid", "f62") // rank by main net inflow
	params.Set("po", "1")
	params.Set("pz", fmt.Sprintf("%d", pageSize))
	params.Set("pn", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fs", "m:90+t:2") // industry sectors
	params.Set("fields", "f12,f14,f2,f3,f62,f184,f66,f69,f72,f75,f78,f81,f84,f87")

	var resp clistResponse
	if err := c.fetchJSON(ctx, c.quoteBaseURL, "/api/qt/clist/get", params, &resp); err != nil {
		return nil, err
	}

	if resp.RC != 0 {
		return nil, fmt.Errorf("eastmoney returned rc=%d", resp.RC)
	}
	if resp.Data == nil {
		return []SectorFlow{}, nil
	}

	flows := make([]SectorFlow, 0, len(resp.Data.Diff))
	for _, item := range resp.Data.Diff {
		code, _ := item["f12"].(string)
		name, _ := item["f14"].(string)
		if code == "" || name == "" {
			continue
		}

		num := func(field string) float64 {
			v, _ := toFloat(item[field])
			return v
		}

		flows = append(flows, SectorFlow{
			Code:              code,
			Name:              name,
			Price:             num("f2"),
			ChangePercent:     num("f3"),
			MainInflow:        toYi(num("f62")),
			MainInflowPercent: num("f184"),
			SuperLargeInflow:  toYi(num("f66")),
			SuperLargePercent: num("f69"),
			LargeInflow:       toYi(num("f72")),
			LargePercent:      num("f75"),
			MediumInflow:      toYi(num("f78")),
			MediumPercent:     num("f81"),
			SmallInflow:       toYi(num("f84")),
			SmallPercent:      num("f87"),
		})
	}

	c.logger.WithField("count", len(flows)).Debug("Fetched sector flows")
	return flows, nil
}
