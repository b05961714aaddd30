package sector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zhenwei/fundlens/internal/holdings"
)

// DerivedFrom tells which resolution step produced an assignment
type DerivedFrom string

const (
	DerivedStatic      DerivedFrom = "static"
	DerivedHoldings    DerivedFrom = "holdings"
	DerivedNameKeyword DerivedFrom = "name_keyword"
	DerivedDefault     DerivedFrom = "default"
)

// Assignment is the classifier's verdict for one fund
type Assignment struct {
	FundCode    string      `json:"fund_code"`
	FundName    string      `json:"fund_name"`
	SectorCode  string      `json:"sector_code"`
	SectorName  string      `json:"sector_name"`
	Confidence  float64     `json:"confidence"`
	Reason      string      `json:"reason"`
	DerivedFrom DerivedFrom `json:"derived_from"`
}

// Classifier maps funds to Eastmoney sector (板块) codes. It never
// fails: static table first, then fund-name keywords, then the default
// sector. Holdings-based scoring is a separate entry point used by the
// synchronization path.
// ⭐ SSOT: 基金板块归属只在这里
type Classifier struct {
	static   map[string]staticEntry
	keywords []nameKeyword // descending keyword length
}

// NewClassifier builds a classifier from the built-in tables
func NewClassifier() *Classifier {
	ordered := make([]nameKeyword, len(nameKeywords))
	copy(ordered, nameKeywords)
	// Longest keyword first, so "新能源汽" outranks "汽车" and "酒".
	// Stable sort keeps table order among equal lengths.
	sort.SliceStable(ordered, func(i, j int) bool {
		return len([]rune(ordered[i].Keyword)) > len([]rune(ordered[j].Keyword))
	})

	return &Classifier{
		static:   fundSectorMap,
		keywords: ordered,
	}
}

// Classify resolves a fund to a sector. Total: always returns an
// assignment, falling back to the default sector.
func (c *Classifier) Classify(fundCode, fundName string) Assignment {
	if entry, ok := c.static[fundCode]; ok {
		return Assignment{
			FundCode:    fundCode,
			FundName:    fundName,
			SectorCode:  entry.Code,
			SectorName:  entry.Name,
			Confidence:  95,
			Reason:      entry.Reason,
			DerivedFrom: DerivedStatic,
		}
	}

	if fundName != "" {
		lower := strings.ToLower(fundName)
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw.Keyword) {
				return Assignment{
					FundCode:    fundCode,
					FundName:    fundName,
					SectorCode:  kw.SectorCode,
					SectorName:  kw.SectorName,
					Confidence:  75,
					Reason:      fmt.Sprintf("基金名称包含'%s'", kw.Keyword),
					DerivedFrom: DerivedNameKeyword,
				}
			}
		}
	}

	return Assignment{
		FundCode:    fundCode,
		FundName:    fundName,
		SectorCode:  defaultSectorCode,
		SectorName:  defaultSectorName,
		Confidence:  60,
		Reason:      "默认板块",
		DerivedFrom: DerivedDefault,
	}
}

// ClassifyByHoldings scores candidate sectors against a fund's top
// holdings: a representative stock code counts the holding's full
// weight, a stock-name keyword counts half. Returns false when no
// candidate scores at all.
func (c *Classifier) ClassifyByHoldings(fundCode, fundName string, held []holdings.HoldingWeight) (Assignment, bool) {
	scores := make(map[string]float64)

	for _, h := range held {
		for _, cand := range candidateSectors {
			for _, code := range cand.Stocks {
				if strings.Contains(h.StockCode, code) {
					scores[cand.Code] += h.Weight
					break
				}
			}
			for _, kw := range cand.Keywords {
				if strings.Contains(h.StockName, kw) {
					scores[cand.Code] += h.Weight * 0.5
					break
				}
			}
		}
	}

	if len(scores) == 0 {
		return Assignment{}, false
	}

	// Walk candidates in table order so ties resolve deterministically
	var best candidateSector
	bestScore := -1.0
	for _, cand := range candidateSectors {
		if s, ok := scores[cand.Code]; ok && s > bestScore {
			best = cand
			bestScore = s
		}
	}

	confidence := bestScore * 1.2
	if confidence < 60 {
		confidence = 60
	}
	if confidence > 95 {
		confidence = 95
	}

	return Assignment{
		FundCode:    fundCode,
		FundName:    fundName,
		SectorCode:  best.Code,
		SectorName:  best.Name,
		Confidence:  confidence,
		Reason:      fmt.Sprintf("基于持仓分析，前10大持仓中%.1f%%匹配该板块", bestScore),
		DerivedFrom: DerivedHoldings,
	}, true
}
