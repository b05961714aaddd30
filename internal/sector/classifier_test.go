package sector

import (
	"testing"

	"github.com/zhenwei/fundlens/internal/holdings"
)

func TestClassifyStaticTable(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("161725", "招商中证白酒指数")
	if got.DerivedFrom != DerivedStatic {
		t.Fatalf("DerivedFrom = %s, want static", got.DerivedFrom)
	}
	if got.SectorCode != "BK0438" || got.SectorName != "食品饮料" {
		t.Errorf("sector = %s/%s, want BK0438/食品饮料", got.SectorCode, got.SectorName)
	}
	if got.Reason == "" {
		t.Error("static entries must carry a reason")
	}
}

func TestClassifyNameKeyword(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		fundName   string
		wantCode   string
		wantSector string
	}{
		{"medical fund", "某某医疗健康混合", "BK1040", "中药"},
		{"bank fund", "某某银行精选", "BK0736", "银行"},
		{"battery fund", "某某新能源主题", "BK1033", "电池"},
		// 新能源汽 is longer than 汽车 and 酒, so it must win even
		// though all three substrings appear in the name
		{"longest keyword wins", "某某新能源汽车股票", "BK1016", "汽车服务"},
		{"plain auto fund", "某某汽车零部件精选", "BK1016", "汽车服务"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify("999999", tt.fundName)
			if got.DerivedFrom != DerivedNameKeyword {
				t.Fatalf("DerivedFrom = %s, want name_keyword", got.DerivedFrom)
			}
			if got.SectorCode != tt.wantCode || got.SectorName != tt.wantSector {
				t.Errorf("sector = %s/%s, want %s/%s", got.SectorCode, got.SectorName, tt.wantCode, tt.wantSector)
			}
		})
	}
}

func TestClassifyDefault(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("999999", "某某灵活配置混合")
	if got.DerivedFrom != DerivedDefault {
		t.Fatalf("DerivedFrom = %s, want default", got.DerivedFrom)
	}
	if got.SectorCode != "BK0438" {
		t.Errorf("default sector = %s, want BK0438", got.SectorCode)
	}

	// Empty name also falls through to the default
	got = c.Classify("888888", "")
	if got.DerivedFrom != DerivedDefault {
		t.Errorf("empty name: DerivedFrom = %s, want default", got.DerivedFrom)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewClassifier()

	first := c.Classify("999999", "某某新能源汽车股票")
	second := c.Classify("999999", "某某新能源汽车股票")
	if first != second {
		t.Errorf("Classify not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyByHoldings(t *testing.T) {
	c := NewClassifier()

	held := []holdings.HoldingWeight{
		{StockCode: "600519", StockName: "贵州茅台", Weight: 9.5}, // code + 酒 keyword
		{StockCode: "000858", StockName: "五粮液", Weight: 8.0},
		{StockCode: "300750", StockName: "宁德时代", Weight: 3.0},
	}

	got, ok := c.ClassifyByHoldings("161725", "招商中证白酒指数", held)
	if !ok {
		t.Fatal("expected a holdings-based assignment")
	}
	if got.SectorCode != "BK0438" {
		t.Errorf("sector = %s, want BK0438", got.SectorCode)
	}
	if got.DerivedFrom != DerivedHoldings {
		t.Errorf("DerivedFrom = %s, want holdings", got.DerivedFrom)
	}
	if got.Confidence < 60 || got.Confidence > 95 {
		t.Errorf("confidence %v outside [60,95]", got.Confidence)
	}
}

func TestClassifyByHoldingsNoMatch(t *testing.T) {
	c := NewClassifier()

	held := []holdings.HoldingWeight{
		{StockCode: "601888", StockName: "中国中免", Weight: 9.0},
	}
	if _, ok := c.ClassifyByHoldings("999999", "某某基金", held); ok {
		t.Error("expected no assignment when nothing scores")
	}
	if _, ok := c.ClassifyByHoldings("999999", "某某基金", nil); ok {
		t.Error("expected no assignment for empty holdings")
	}
}

func TestClassifyByHoldingsTieBreak(t *testing.T) {
	c := NewClassifier()

	// One full-weight code match for each of two sectors, equal weight:
	// the earlier candidate in the table (食品饮料) must win.
	held := []holdings.HoldingWeight{
		{StockCode: "600519", StockName: "X", Weight: 5.0},
		{StockCode: "300750", StockName: "Y", Weight: 5.0},
	}

	got, ok := c.ClassifyByHoldings("777777", "某某基金", held)
	if !ok {
		t.Fatal("expected an assignment")
	}
	if got.SectorCode != "BK0438" {
		t.Errorf("tie resolved to %s, want BK0438 (first in table order)", got.SectorCode)
	}
}
