package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/database"
)

// testDB connects to the database named by TEST_DATABASE_URL and
// ensures the schema. Tests are skipped when the variable is unset.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	cfg := &config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
		Database: config.DatabaseConfig{
			URL:      url,
			MaxConns: 4,
			MinConns: 1,
		},
	}

	db, err := database.New(cfg)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func TestHoldingsRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testDB(t)
	repo := NewHoldingsRepository(db.Pool)
	ctx := context.Background()

	held := []holdings.HoldingWeight{
		{StockCode: "600519", StockName: "贵州茅台", Weight: 9.55},
		{StockCode: "000858", StockName: "五粮液", Weight: 8.21},
	}

	require.NoError(t, repo.SaveSnapshot(ctx, "999901", "2024年2季度", held))

	snap, err := repo.LatestSnapshot(ctx, "999901")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "999901", snap.FundCode)
	assert.Equal(t, "2024年2季度", snap.Quarter)
	require.Len(t, snap.Holdings, 2)
	assert.Equal(t, "600519", snap.Holdings[0].StockCode, "rows should come back in rank order")

	codes, err := repo.SyncedFundCodes(ctx)
	require.NoError(t, err)
	assert.Contains(t, codes, "999901")
}

func TestHoldingsRepositoryLatestSnapshotUnknownFund(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testDB(t)
	repo := NewHoldingsRepository(db.Pool)

	snap, err := repo.LatestSnapshot(context.Background(), "999999")
	require.NoError(t, err)
	assert.Nil(t, snap, "unknown fund should yield no snapshot, not an error")
}

func TestSectorRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testDB(t)
	repo := NewSectorRepository(db.Pool)
	ctx := context.Background()

	a := sector.Assignment{
		FundCode:    "999902",
		FundName:    "测试白酒基金",
		SectorCode:  "BK0438",
		SectorName:  "食品饮料",
		Confidence:  95,
		Reason:      "静态映射",
		DerivedFrom: sector.DerivedStatic,
	}
	require.NoError(t, repo.SaveAssignment(ctx, a))

	got, err := repo.GetAssignment(ctx, "999902")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BK0438", got.SectorCode)
	assert.Equal(t, sector.DerivedStatic, got.DerivedFrom)

	// Upsert replaces in place
	a.SectorCode = "BK0473"
	a.SectorName = "证券"
	require.NoError(t, repo.SaveAssignment(ctx, a))

	got, err = repo.GetAssignment(ctx, "999902")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BK0473", got.SectorCode)
}

func TestPortfolioRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testDB(t)
	repo := NewPortfolioRepository(db.Pool)
	ctx := context.Background()

	require.NoError(t, repo.UpsertHolding(ctx, UserHolding{
		FundCode:  "999903",
		FundName:  "测试基金",
		Shares:    1000,
		CostPrice: 0.85,
	}))

	list, err := repo.ListHoldings(ctx)
	require.NoError(t, err)

	var found bool
	for _, h := range list {
		if h.FundCode == "999903" {
			found = true
			assert.Equal(t, 1000.0, h.Shares)
		}
	}
	assert.True(t, found, "upserted holding should be listed")

	require.NoError(t, repo.RecordTransaction(ctx, Transaction{
		FundCode: "999903",
		Type:     "buy",
		Shares:   1000,
		Price:    0.85,
		Amount:   850,
	}))

	txs, err := repo.ListTransactions(ctx, "999903", 10)
	require.NoError(t, err)
	require.NotEmpty(t, txs)
	assert.Equal(t, "buy", txs[0].Type)

	require.NoError(t, repo.AddFavorite(ctx, "999903", "测试基金"))
	favs, err := repo.ListFavorites(ctx)
	require.NoError(t, err)

	found = false
	for _, f := range favs {
		if f.FundCode == "999903" {
			found = true
		}
	}
	assert.True(t, found)

	require.NoError(t, repo.RemoveFavorite(ctx, "999903"))
	require.NoError(t, repo.DeleteHolding(ctx, "999903"))
}
