package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhenwei/fundlens/internal/sector"
)

// SectorRepository persists fund-to-sector assignments
// ⭐ SSOT: 板块归属落库只在这里
type SectorRepository struct {
	pool *pgxpool.Pool
}

// NewSectorRepository creates a new sector repository
func NewSectorRepository(pool *pgxpool.Pool) *SectorRepository {
	return &SectorRepository{pool: pool}
}

// SaveAssignment upserts a fund's sector assignment
func (r *SectorRepository) SaveAssignment(ctx context.Context, a sector.Assignment) error {
	query := `
		INSERT INTO fund_sector_map (fund_code, sector_code, sector_name, confidence, match_reason, derived_from, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (fund_code) DO UPDATE SET
			sector_code = EXCLUDED.sector_code,
			sector_name = EXCLUDED.sector_name,
			confidence = EXCLUDED.confidence,
			match_reason = EXCLUDED.match_reason,
			derived_from = EXCLUDED.derived_from,
			updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query,
		a.FundCode, a.SectorCode, a.SectorName, a.Confidence, a.Reason, string(a.DerivedFrom),
	)
	return err
}

// GetAssignment returns a fund's persisted sector assignment, or nil
// when the fund was never classified
func (r *SectorRepository) GetAssignment(ctx context.Context, fundCode string) (*sector.Assignment, error) {
	query := `
		SELECT fund_code, sector_code, sector_name, confidence, match_reason, derived_from
		FROM fund_sector_map
		WHERE fund_code = $1
	`

	var a sector.Assignment
	var derivedFrom string
	err := r.pool.QueryRow(ctx, query, fundCode).Scan(
		&a.FundCode, &a.SectorCode, &a.SectorName, &a.Confidence, &a.Reason, &derivedFrom,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.DerivedFrom = sector.DerivedFrom(derivedFrom)
	return &a, nil
}
