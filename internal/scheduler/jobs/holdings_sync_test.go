package jobs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

type fakeFavorites struct {
	favs []store.Favorite
	err  error
}

func (f *fakeFavorites) ListFavorites(ctx context.Context) ([]store.Favorite, error) {
	return f.favs, f.err
}

func TestTargetCodesUnionsFavorites(t *testing.T) {
	favs := &fakeFavorites{favs: []store.Favorite{
		{FundCode: "005827"},
		{FundCode: "110022"},
		{FundCode: "161725"}, // already configured
	}}
	job := NewHoldingsSyncJob(nil, []string{"161725", "003096"}, favs, "0 0 18 * * 1-5", testLogger())

	got := job.targetCodes(context.Background())
	want := []string{"161725", "003096", "005827", "110022"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("targetCodes = %v, want %v", got, want)
	}
}

func TestTargetCodesFavoritesFailure(t *testing.T) {
	favs := &fakeFavorites{err: errors.New("db down")}
	job := NewHoldingsSyncJob(nil, []string{"161725"}, favs, "0 0 18 * * 1-5", testLogger())

	got := job.targetCodes(context.Background())
	want := []string{"161725"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("targetCodes = %v, want %v", got, want)
	}
}

func TestTargetCodesNoFavoriteSource(t *testing.T) {
	job := NewHoldingsSyncJob(nil, []string{"161725", "", "161725"}, nil, "0 0 18 * * 1-5", testLogger())

	got := job.targetCodes(context.Background())
	want := []string{"161725"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("targetCodes = %v, want %v", got, want)
	}
}
