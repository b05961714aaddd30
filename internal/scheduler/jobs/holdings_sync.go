package jobs

import (
	"context"
	"fmt"

	"github.com/zhenwei/fundlens/internal/holdsync"
	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// FavoriteSource lists the user's watchlisted funds. Optional; a nil
// source limits the job to the configured fund list.
type FavoriteSource interface {
	ListFavorites(ctx context.Context) ([]store.Favorite, error)
}

// HoldingsSyncJob refreshes the persisted disclosures for the tracked
// funds after the market closes. Disclosures change quarterly, so a
// nightly run is already generous.
type HoldingsSyncJob struct {
	service   *holdsync.Service
	fundCodes []string
	favorites FavoriteSource
	schedule  string
	logger    *logger.Logger
}

// NewHoldingsSyncJob creates the nightly holdings sync job
func NewHoldingsSyncJob(service *holdsync.Service, fundCodes []string, favorites FavoriteSource, schedule string, log *logger.Logger) *HoldingsSyncJob {
	return &HoldingsSyncJob{
		service:   service,
		fundCodes: fundCodes,
		favorites: favorites,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *HoldingsSyncJob) Name() string {
	return "holdings_sync"
}

// Schedule returns the cron expression
func (j *HoldingsSyncJob) Schedule() string {
	return j.schedule
}

// Run syncs every tracked and favorited fund; fails if any fund failed
func (j *HoldingsSyncJob) Run(ctx context.Context) error {
	codes := j.targetCodes(ctx)
	if len(codes) == 0 {
		j.logger.Warn("Holdings sync has no funds to sync")
		return nil
	}

	results := j.service.SyncFunds(ctx, codes)

	failed := 0
	for code, err := range results {
		if err != nil {
			failed++
			j.logger.WithError(err).WithField("fund_code", code).Error("Holdings sync failed for fund")
		}
	}

	if failed > 0 {
		return fmt.Errorf("holdings sync: %d/%d funds failed", failed, len(codes))
	}

	j.logger.WithField("count", len(codes)).Info("Holdings sync finished")
	return nil
}

// targetCodes unions the configured list with current favorites.
// A favorites lookup failure falls back to the configured list.
func (j *HoldingsSyncJob) targetCodes(ctx context.Context) []string {
	seen := make(map[string]bool, len(j.fundCodes))
	codes := make([]string, 0, len(j.fundCodes))
	for _, code := range j.fundCodes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}

	if j.favorites == nil {
		return codes
	}

	favs, err := j.favorites.ListFavorites(ctx)
	if err != nil {
		j.logger.WithError(err).Warn("Could not list favorites, syncing configured funds only")
		return codes
	}

	for _, f := range favs {
		if f.FundCode == "" || seen[f.FundCode] {
			continue
		}
		seen[f.FundCode] = true
		codes = append(codes, f.FundCode)
	}

	return codes
}
