package app

import (
	"context"
	"testing"
	"time"

	"warehouse/adapters/stats"
	"warehouse/domain/chart"
	"warehouse/domain/core"
	"warehouse/domain/dataset"
	"warehouse/domain/table"
	"warehouse/internal/cache"
	"warehouse/internal/charts"
	"warehouse/internal/quality"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAnalyticsFixture(repo *MockDatasetRepository) (*AnalyticsService, *TableStore, *cache.ResultCache) {
	tables := NewTableStore()
	results := cache.New(30 * time.Second)
	service := NewAnalyticsService(
		repo,
		tables,
		stats.NewEngine(),
		quality.NewAnalyzer(quality.DefaultWeights()),
		charts.NewShaper(),
		results,
		30*time.Second,
	)
	return service, tables, results
}

func valueTable(t *testing.T, name string, values ...float64) *table.Table {
	t.Helper()
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.NewNumericValue(v)
	}
	tbl, err := table.New([]table.Column{{Name: name, Type: table.TypeNumeric, Values: cells}})
	require.NoError(t, err)
	return tbl
}

func TestSummaryFromStoredTable(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, _ := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	tables.Put(id, valueTable(t, "amount", 10, 20, 30))

	summaries, err := service.Summary(context.Background(), id)
	require.NoError(t, err)

	summary, ok := summaries["amount"]
	require.True(t, ok)
	require.NotNil(t, summary.Mean)
	assert.InDelta(t, 20.0, *summary.Mean, 1e-9)

	// The table store had the data, so the metadata store is never touched
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSummaryIsCached(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, _ := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	tables.Put(id, valueTable(t, "amount", 10, 20, 30))

	first, err := service.Summary(context.Background(), id)
	require.NoError(t, err)

	// Swapping the table does not change the answer until the cache is
	// cleared or the entry expires
	tables.Put(id, valueTable(t, "amount", 100, 200, 300))

	cached, err := service.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.InDelta(t, *first["amount"].Mean, *cached["amount"].Mean, 1e-9)

	service.ClearCache()
	fresh, err := service.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, *fresh["amount"].Mean, 1e-9)
}

func TestCorrelationInsufficientColumns(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, results := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	tables.Put(id, valueTable(t, "amount", 1, 2, 3))

	_, err := service.Correlation(context.Background(), id)
	require.ErrorIs(t, err, core.ErrInsufficientData)
	assert.Equal(t, 0, results.Len(), "failures are never cached")
}

func TestQuality(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, _ := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	tables.Put(id, valueTable(t, "amount", 1, 2, 3))

	report, err := service.Quality(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.CompletenessPct)
	assert.Equal(t, 0, report.DuplicateRowCount)
	assert.Equal(t, 100.0, report.QualityScore)
}

func TestChartSpecsCacheIndependently(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, results := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	tbl, err := table.New([]table.Column{
		{Name: "x", Type: table.TypeNumeric, Values: []table.Value{
			table.NewNumericValue(1), table.NewNumericValue(2), table.NewNumericValue(3),
			table.NewNumericValue(4), table.NewNumericValue(5),
		}},
		{Name: "y", Type: table.TypeNumeric, Values: []table.Value{
			table.NewNumericValue(2), table.NewNumericValue(4), table.NewNumericValue(6),
			table.NewNumericValue(8), table.NewNumericValue(10),
		}},
	})
	require.NoError(t, err)
	tables.Put(id, tbl)

	scatter, err := service.Chart(context.Background(), id, chart.Spec{Kind: chart.KindScatter, X: "x", Y: "y"})
	require.NoError(t, err)
	assert.Equal(t, chart.KindScatter, scatter.Kind)

	histogram, err := service.Chart(context.Background(), id, chart.Spec{Kind: chart.KindHistogram, X: "x", BinCount: 5})
	require.NoError(t, err)
	assert.Equal(t, chart.KindHistogram, histogram.Kind)

	assert.Equal(t, 2, results.Len(), "distinct specs occupy distinct cache entries")
}

func TestChartBindingErrorPropagates(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, _ := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	tables.Put(id, valueTable(t, "amount", 1, 2, 3))

	_, err := service.Chart(context.Background(), id, chart.Spec{Kind: chart.KindLine, X: "amount", Y: "amount"})
	assert.ErrorIs(t, err, core.ErrInvalidChartBinding)
}

func TestTableRegeneratedFromMetadata(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, tables, _ := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	meta := &dataset.Metadata{ID: id, Filename: "sales_data.csv", Status: dataset.StatusReady}
	repo.On("GetByID", mock.Anything, id).Return(meta, nil)

	// The in-memory table is gone, as after a restart
	summaries, err := service.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, summaries, "revenue", "regenerated table follows the filename hint")

	regenerated, ok := tables.Get(id)
	require.True(t, ok, "regenerated table is registered for later requests")
	assert.Equal(t, 150, regenerated.RowCount())

	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestRegeneratedTableIsDeterministic(t *testing.T) {
	id := core.NewDatasetID()
	meta := &dataset.Metadata{ID: id, Filename: "sales_data.csv", Status: dataset.StatusReady}

	means := make([]float64, 2)
	for run := 0; run < 2; run++ {
		repo := new(MockDatasetRepository)
		repo.On("GetByID", mock.Anything, id).Return(meta, nil)
		service, _, _ := newAnalyticsFixture(repo)

		summaries, err := service.Summary(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, summaries["revenue"].Mean)
		means[run] = *summaries["revenue"].Mean
	}
	assert.Equal(t, means[0], means[1], "the same dataset id always regenerates the same table")
}

func TestSummaryUnknownDataset(t *testing.T) {
	repo := new(MockDatasetRepository)
	service, _, _ := newAnalyticsFixture(repo)

	id := core.NewDatasetID()
	repo.On("GetByID", mock.Anything, id).Return(nil, core.NewNotFoundError("dataset", id.String()))

	_, err := service.Summary(context.Background(), id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
