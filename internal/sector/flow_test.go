package sector

import (
	"context"
	"testing"

	"github.com/zhenwei/fundlens/internal/external/eastmoney"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/logger"
	"github.com/zhenwei/fundlens/pkg/redis"
)

type fakeFlowSource struct {
	flows []eastmoney.SectorFlow
	calls int
}

func (f *fakeFlowSource) FetchSectorFlows(ctx context.Context, pageSize int) ([]eastmoney.SectorFlow, error) {
	f.calls++
	return f.flows, nil
}

func newTestFlowService(source *fakeFlowSource) *FlowService {
	cfg := &config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
		Redis:     config.RedisConfig{Enabled: false},
	}
	client, _ := redis.New(cfg)
	return NewFlowService(source, NewClassifier(), redis.NewCache(client, "fundlens"), logger.New(cfg))
}

func sampleFlows() []eastmoney.SectorFlow {
	return []eastmoney.SectorFlow{
		{Code: "BK0438", Name: "食品饮料", MainInflow: 15.2, ChangePercent: 1.2},
		{Code: "BK1033", Name: "电池", MainInflow: 8.1, ChangePercent: 0.5},
		{Code: "BK0736", Name: "银行", MainInflow: -6.3, ChangePercent: -0.4},
	}
}

func TestTopFlows(t *testing.T) {
	svc := newTestFlowService(&fakeFlowSource{flows: sampleFlows()})

	top, err := svc.TopFlows(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopFlows failed: %v", err)
	}
	if len(top) != 2 || top[0].Code != "BK0438" {
		t.Errorf("top flows = %+v", top)
	}

	// Limit larger than the list is clamped
	all, err := svc.TopFlows(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopFlows failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d flows, want 3", len(all))
	}
}

func TestFundFlowKnownSector(t *testing.T) {
	svc := newTestFlowService(&fakeFlowSource{flows: sampleFlows()})

	got, err := svc.FundFlow(context.Background(), "161725", "招商中证白酒指数")
	if err != nil {
		t.Fatalf("FundFlow failed: %v", err)
	}

	if got.Assignment.SectorCode != "BK0438" {
		t.Errorf("assignment sector = %s, want BK0438", got.Assignment.SectorCode)
	}
	if got.Flow == nil || got.Flow.Name != "食品饮料" {
		t.Fatalf("flow = %+v, want 食品饮料 snapshot", got.Flow)
	}
	if got.InflowPercent <= got.OutflowPercent {
		t.Errorf("positive main inflow must skew toward inflow: %v / %v", got.InflowPercent, got.OutflowPercent)
	}
}

func TestFundFlowSectorOutsideList(t *testing.T) {
	svc := newTestFlowService(&fakeFlowSource{flows: sampleFlows()})

	// 003096 maps to BK1040 which is not in the ranked list
	got, err := svc.FundFlow(context.Background(), "003096", "中欧医疗健康混合")
	if err != nil {
		t.Fatalf("FundFlow failed: %v", err)
	}
	if got.Flow != nil {
		t.Errorf("flow = %+v, want nil for unranked sector", got.Flow)
	}
	if got.Assignment.SectorCode != "BK1040" {
		t.Errorf("assignment still required, got %+v", got.Assignment)
	}
}

func TestFlowSplit(t *testing.T) {
	tests := []struct {
		name        string
		mainInflow  float64
		wantInflow  float64
		wantOutflow float64
	}{
		{"strong inflow saturates", 30, 100, 0},
		{"mild inflow", 5, 60, 40},
		{"outflow mirrors", -5, 40, 60},
		{"flat", 0, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := flowSplit(tt.mainInflow)
			if in != tt.wantInflow || out != tt.wantOutflow {
				t.Errorf("flowSplit(%v) = %v/%v, want %v/%v", tt.mainInflow, in, out, tt.wantInflow, tt.wantOutflow)
			}
		})
	}
}
