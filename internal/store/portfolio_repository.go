package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserHolding is one fund position in the user's portfolio
type UserHolding struct {
	FundCode  string    `json:"fund_code"`
	FundName  string    `json:"fund_name"`
	Shares    float64   `json:"shares"`
	CostPrice float64   `json:"cost_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Favorite is one watchlisted fund
type Favorite struct {
	FundCode  string    `json:"fund_code"`
	FundName  string    `json:"fund_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one buy or sell record
type Transaction struct {
	ID        int64     `json:"id"`
	FundCode  string    `json:"fund_code"`
	Type      string    `json:"type"` // buy, sell
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// PortfolioRepository persists the user's positions, favorites and
// transaction history
// ⭐ SSOT: 用户组合数据落库只在这里
type PortfolioRepository struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{pool: pool}
}

// UpsertHolding creates or replaces a position
func (r *PortfolioRepository) UpsertHolding(ctx context.Context, h UserHolding) error {
	query := `
		INSERT INTO user_holdings (fund_code, fund_name, shares, cost_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (fund_code) DO UPDATE SET
			fund_name = EXCLUDED.fund_name,
			shares = EXCLUDED.shares,
			cost_price = EXCLUDED.cost_price,
			updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, h.FundCode, h.FundName, h.Shares, h.CostPrice)
	return err
}

// DeleteHolding removes a position
func (r *PortfolioRepository) DeleteHolding(ctx context.Context, fundCode string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_holdings WHERE fund_code = $1`, fundCode)
	return err
}

// ListHoldings returns all positions ordered by fund code
func (r *PortfolioRepository) ListHoldings(ctx context.Context) ([]UserHolding, error) {
	query := `
		SELECT fund_code, fund_name, shares, cost_price, created_at, updated_at
		FROM user_holdings
		ORDER BY fund_code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []UserHolding
	for rows.Next() {
		var h UserHolding
		if err := rows.Scan(&h.FundCode, &h.FundName, &h.Shares, &h.CostPrice, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// AddFavorite watchlists a fund
func (r *PortfolioRepository) AddFavorite(ctx context.Context, fundCode, fundName string) error {
	query := `
		INSERT INTO favorites (fund_code, fund_name, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (fund_code) DO UPDATE SET fund_name = EXCLUDED.fund_name
	`

	_, err := r.pool.Exec(ctx, query, fundCode, fundName)
	return err
}

// RemoveFavorite drops a fund from the watchlist
func (r *PortfolioRepository) RemoveFavorite(ctx context.Context, fundCode string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE fund_code = $1`, fundCode)
	return err
}

// ListFavorites returns the watchlist, newest first
func (r *PortfolioRepository) ListFavorites(ctx context.Context) ([]Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT fund_code, fund_name, created_at
		FROM favorites
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.FundCode, &f.FundName, &f.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// RecordTransaction appends a buy or sell record
func (r *PortfolioRepository) RecordTransaction(ctx context.Context, t Transaction) error {
	query := `
		INSERT INTO transactions (fund_code, type, shares, price, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`

	_, err := r.pool.Exec(ctx, query, t.FundCode, t.Type, t.Shares, t.Price, t.Amount)
	return err
}

// ListTransactions returns a fund's transaction history, newest first
func (r *PortfolioRepository) ListTransactions(ctx context.Context, fundCode string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, fund_code, type, shares, price, amount, created_at
		FROM transactions
		WHERE fund_code = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, fundCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.FundCode, &t.Type, &t.Shares, &t.Price, &t.Amount, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
