package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhenwei/fundlens/internal/holdings"
)

// HoldingsSnapshot is one persisted quarterly disclosure for a fund
type HoldingsSnapshot struct {
	FundCode  string                   `json:"fund_code"`
	Quarter   string                   `json:"quarter"`
	Holdings  []holdings.HoldingWeight `json:"holdings"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// HoldingsRepository persists disclosed fund holdings
// ⭐ SSOT: 基金持仓落库只在这里
type HoldingsRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingsRepository creates a new holdings repository
func NewHoldingsRepository(pool *pgxpool.Pool) *HoldingsRepository {
	return &HoldingsRepository{pool: pool}
}

// SaveSnapshot upserts one quarter's holdings for a fund
func (r *HoldingsRepository) SaveSnapshot(ctx context.Context, fundCode, quarter string, held []holdings.HoldingWeight) error {
	query := `
		INSERT INTO fund_holdings (fund_code, quarter, stock_code, stock_name, weight, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (fund_code, quarter, stock_code) DO UPDATE SET
			stock_name = EXCLUDED.stock_name,
			weight = EXCLUDED.weight,
			rank = EXCLUDED.rank,
			updated_at = now()
	`

	for i, h := range held {
		if _, err := r.pool.Exec(ctx, query, fundCode, quarter, h.StockCode, h.StockName, h.Weight, i+1); err != nil {
			return err
		}
	}
	return nil
}

// LatestSnapshot returns the newest persisted disclosure for a fund,
// or nil when the fund was never synced
func (r *HoldingsRepository) LatestSnapshot(ctx context.Context, fundCode string) (*HoldingsSnapshot, error) {
	query := `
		SELECT quarter, stock_code, stock_name, weight, updated_at
		FROM fund_holdings
		WHERE fund_code = $1
		  AND quarter = (
			SELECT quarter FROM fund_holdings
			WHERE fund_code = $1
			ORDER BY quarter DESC
			LIMIT 1
		  )
		ORDER BY rank ASC
	`

	rows, err := r.pool.Query(ctx, query, fundCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := &HoldingsSnapshot{FundCode: fundCode}
	for rows.Next() {
		var h holdings.HoldingWeight
		if err := rows.Scan(&snapshot.Quarter, &h.StockCode, &h.StockName, &h.Weight, &snapshot.UpdatedAt); err != nil {
			return nil, err
		}
		snapshot.Holdings = append(snapshot.Holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(snapshot.Holdings) == 0 {
		return nil, nil
	}
	return snapshot, nil
}

// SyncedFundCodes lists the funds that have at least one persisted
// disclosure
func (r *HoldingsRepository) SyncedFundCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT fund_code FROM fund_holdings ORDER BY fund_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
