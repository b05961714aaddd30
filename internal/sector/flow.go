package sector

import (
	"context"
	"math"
	"time"

	"github.com/zhenwei/fundlens/internal/external/eastmoney"
	"github.com/zhenwei/fundlens/pkg/logger"
	"github.com/zhenwei/fundlens/pkg/redis"
)

// FlowSource provides sector money-flow snapshots
type FlowSource interface {
	FetchSectorFlows(ctx context.Context, pageSize int) ([]eastmoney.SectorFlow, error)
}

// FundFlow ties a fund's sector assignment to that sector's money flow
type FundFlow struct {
	Assignment     Assignment            `json:"assignment"`
	Flow           *eastmoney.SectorFlow `json:"flow,omitempty"`
	InflowPercent  float64               `json:"inflow_percent"`
	OutflowPercent float64               `json:"outflow_percent"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// FlowService serves sector money-flow views, cached in Redis so the
// upstream list endpoint is hit at most once per minute
// ⭐ SSOT: 板块资金流向查询只在这里
type FlowService struct {
	source     FlowSource
	classifier *Classifier
	cache      *redis.Cache
	logger     *logger.Logger
}

// NewFlowService creates a flow service
func NewFlowService(source FlowSource, classifier *Classifier, cache *redis.Cache, log *logger.Logger) *FlowService {
	return &FlowService{
		source:     source,
		classifier: classifier,
		cache:      cache,
		logger:     log,
	}
}

// ListFlows returns all industry sectors ranked by main net inflow
func (s *FlowService) ListFlows(ctx context.Context) ([]eastmoney.SectorFlow, error) {
	var flows []eastmoney.SectorFlow
	err := s.cache.GetOrSet(ctx, redis.SectorFlowListKey(), &flows, redis.TTLShort, func() (interface{}, error) {
		return s.source.FetchSectorFlows(ctx, 50)
	})
	if err != nil {
		return nil, err
	}
	return flows, nil
}

// TopFlows returns the limit sectors with the largest main net inflow
func (s *FlowService) TopFlows(ctx context.Context, limit int) ([]eastmoney.SectorFlow, error) {
	if limit <= 0 {
		limit = 5
	}

	flows, err := s.ListFlows(ctx)
	if err != nil {
		return nil, err
	}
	if limit > len(flows) {
		limit = len(flows)
	}
	return flows[:limit], nil
}

// FlowFor returns one sector's flow snapshot, or nil when the sector
// is not in the ranked list
func (s *FlowService) FlowFor(ctx context.Context, sectorCode string) (*eastmoney.SectorFlow, error) {
	flows, err := s.ListFlows(ctx)
	if err != nil {
		return nil, err
	}

	for i := range flows {
		if flows[i].Code == sectorCode {
			return &flows[i], nil
		}
	}
	return nil, nil
}

// FundFlow classifies a fund and attaches its sector's money flow.
// The assignment is always present; the flow may be nil when the
// sector is outside the ranked list.
func (s *FlowService) FundFlow(ctx context.Context, fundCode, fundName string) (*FundFlow, error) {
	assignment := s.classifier.Classify(fundCode, fundName)

	flow, err := s.FlowFor(ctx, assignment.SectorCode)
	if err != nil {
		return nil, err
	}

	result := &FundFlow{
		Assignment: assignment,
		Flow:       flow,
		UpdatedAt:  time.Now(),
	}
	if flow != nil {
		result.InflowPercent, result.OutflowPercent = flowSplit(flow.MainInflow)
	}
	return result, nil
}

// flowSplit turns a signed main inflow (亿元) into a display-friendly
// inflow/outflow percentage pair
func flowSplit(mainInflow float64) (inflow, outflow float64) {
	skew := math.Min(100, math.Max(50, 50+math.Abs(mainInflow)*2))
	skew = math.Round(skew*10) / 10

	if mainInflow >= 0 {
		return skew, math.Round((100-skew)*10) / 10
	}
	return math.Round((100-skew)*10) / 10, skew
}
