package sample

import (
	"testing"

	"warehouse/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montanaflynn/stats"
)

func seededConfig(rows int) Config {
	config := DefaultConfig()
	config.RowCount = rows
	config.Seed = 42
	return config
}

func TestGenerateSalesTemplate(t *testing.T) {
	tbl, err := NewGenerator(seededConfig(150)).Generate("sales_report.csv")
	require.NoError(t, err)

	assert.Equal(t, 150, tbl.RowCount())
	assert.Equal(t, []string{"date", "region", "product", "units_sold", "revenue", "profit_margin"}, tbl.ColumnNames())

	date, ok := tbl.Column("date")
	require.True(t, ok)
	assert.Equal(t, table.TypeDate, date.Type)

	// Generated numerics must have non-degenerate variance
	revenue, ok := tbl.Column("revenue")
	require.True(t, ok)
	require.Equal(t, table.TypeNumeric, revenue.Type)
	std, err := stats.StandardDeviationSample(revenue.Floats())
	require.NoError(t, err)
	assert.Greater(t, std, 0.0)
}

func TestGenerateSalesConsistency(t *testing.T) {
	tbl, err := NewGenerator(seededConfig(200)).Generate("sales.csv")
	require.NoError(t, err)

	units, _ := tbl.Column("units_sold")
	revenue, _ := tbl.Column("revenue")

	// Revenue tracks units_sold times a bounded price band, so every
	// row's implied unit price must stay inside that band plus noise
	for i := range units.Values {
		u, _ := units.Values[i].Float()
		r, _ := revenue.Values[i].Float()
		price := r / u
		assert.GreaterOrEqual(t, price, 80.0*0.95)
		assert.LessOrEqual(t, price, 120.0*1.05+0.01)
	}
}

func TestGenerateTemplateSelection(t *testing.T) {
	cases := []struct {
		hint    string
		columns []string
	}{
		{"USER_metrics.xlsx", []string{"session_id", "device", "country", "duration", "pages_viewed"}},
		{"customer-sessions.csv", []string{"session_id", "device", "country", "duration", "pages_viewed"}},
		{"transactions_2024.json", []string{"timestamp", "amount", "category", "account"}},
		{"mystery.csv", []string{"date", "value", "metric"}},
	}

	for _, tc := range cases {
		tbl, err := NewGenerator(seededConfig(50)).Generate(tc.hint)
		require.NoError(t, err, tc.hint)
		assert.Equal(t, tc.columns, tbl.ColumnNames(), tc.hint)
		assert.Equal(t, 50, tbl.RowCount(), tc.hint)
	}
}

func TestGenerateSalesBeatsUserInHint(t *testing.T) {
	// Priority order: sales wins when both substrings match
	tbl, err := NewGenerator(seededConfig(20)).Generate("user_sales.csv")
	require.NoError(t, err)
	_, ok := tbl.Column("revenue")
	assert.True(t, ok)
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a, err := NewGenerator(seededConfig(30)).Generate("transactions.csv")
	require.NoError(t, err)
	b, err := NewGenerator(seededConfig(30)).Generate("transactions.csv")
	require.NoError(t, err)

	amountA, _ := a.Column("amount")
	amountB, _ := b.Column("amount")
	assert.Equal(t, amountA.Floats(), amountB.Floats())
}

func TestGenerateDefaultRowCount(t *testing.T) {
	config := Config{Seed: 1}
	tbl, err := NewGenerator(config).Generate("anything.csv")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().RowCount, tbl.RowCount())
}
