package sample

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"warehouse/domain/table"
)

// Config configures the sample data generator
type Config struct {
	RowCount  int       `json:"row_count"`
	StartDate time.Time `json:"start_date"`
	Seed      int64     `json:"seed"`
}

// DefaultConfig returns sensible defaults for demo datasets
func DefaultConfig() Config {
	return Config{
		RowCount:  150,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:      time.Now().UnixNano(),
	}
}

// Generator produces synthetic tabular data matching one of the domain
// templates. Values are internally consistent so downstream statistics
// are non-degenerate.
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a generator with the given config
func NewGenerator(config Config) *Generator {
	if config.RowCount <= 0 {
		config.RowCount = DefaultConfig().RowCount
	}
	if config.StartDate.IsZero() {
		config.StartDate = DefaultConfig().StartDate
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate picks a template by case-insensitive substring match on the
// filename hint, in priority order: sales, user/customer, transaction,
// then a generic fallback.
func (g *Generator) Generate(filenameHint string) (*table.Table, error) {
	hint := strings.ToLower(filenameHint)
	switch {
	case strings.Contains(hint, "sales"):
		return g.generateSales()
	case strings.Contains(hint, "user"), strings.Contains(hint, "customer"):
		return g.generateUserAnalytics()
	case strings.Contains(hint, "transaction"):
		return g.generateTransactions()
	default:
		return g.generateGeneric()
	}
}

var (
	regions   = []string{"North", "South", "East", "West"}
	devices   = []string{"Mobile", "Desktop", "Tablet"}
	countries = []string{"US", "UK", "CA", "AU", "DE"}
)

// generateSales emits {date, region, product, units_sold, revenue,
// profit_margin}. Revenue tracks units_sold times a plausible unit price
// with bounded noise so the pair correlates without being degenerate.
func (g *Generator) generateSales() (*table.Table, error) {
	n := g.config.RowCount
	dates := make([]table.Value, n)
	region := make([]table.Value, n)
	product := make([]table.Value, n)
	units := make([]table.Value, n)
	revenue := make([]table.Value, n)
	margin := make([]table.Value, n)

	for i := 0; i < n; i++ {
		dates[i] = table.NewDateValue(g.config.StartDate.AddDate(0, 0, i))
		region[i] = table.NewTextValue(regions[g.rng.Intn(len(regions))])
		product[i] = table.NewTextValue(fmt.Sprintf("Product %d", i%5+1))

		unitsSold := float64(50 + g.rng.Intn(150))
		unitPrice := 80.0 + g.rng.Float64()*40.0 // plausible price band
		noise := 1.0 + (g.rng.Float64()-0.5)*0.1 // bounded +/-5%

		units[i] = table.NewNumericValue(unitsSold)
		revenue[i] = table.NewNumericValue(round2(unitsSold * unitPrice * noise))
		margin[i] = table.NewNumericValue(round2(0.15 + g.rng.Float64()*0.25))
	}

	return table.New([]table.Column{
		{Name: "date", Type: table.TypeDate, Values: dates},
		{Name: "region", Type: table.TypeCategorical, Values: region},
		{Name: "product", Type: table.TypeCategorical, Values: product},
		{Name: "units_sold", Type: table.TypeNumeric, Values: units},
		{Name: "revenue", Type: table.TypeNumeric, Values: revenue},
		{Name: "profit_margin", Type: table.TypeNumeric, Values: margin},
	})
}

// generateUserAnalytics emits {session_id, device, country, duration,
// pages_viewed}. Session duration scales with pages viewed.
func (g *Generator) generateUserAnalytics() (*table.Table, error) {
	n := g.config.RowCount
	session := make([]table.Value, n)
	device := make([]table.Value, n)
	country := make([]table.Value, n)
	duration := make([]table.Value, n)
	pages := make([]table.Value, n)

	for i := 0; i < n; i++ {
		session[i] = table.NewTextValue(fmt.Sprintf("session_%04d", i+1))
		device[i] = table.NewTextValue(devices[g.rng.Intn(len(devices))])
		country[i] = table.NewTextValue(countries[g.rng.Intn(len(countries))])

		pagesViewed := float64(1 + g.rng.Intn(20))
		perPage := 20.0 + g.rng.Float64()*40.0 // seconds per page
		pages[i] = table.NewNumericValue(pagesViewed)
		duration[i] = table.NewNumericValue(round2(pagesViewed * perPage))
	}

	return table.New([]table.Column{
		{Name: "session_id", Type: table.TypeCategorical, Values: session},
		{Name: "device", Type: table.TypeCategorical, Values: device},
		{Name: "country", Type: table.TypeCategorical, Values: country},
		{Name: "duration", Type: table.TypeNumeric, Values: duration},
		{Name: "pages_viewed", Type: table.TypeNumeric, Values: pages},
	})
}

// generateTransactions emits {timestamp, amount, category, account}
func (g *Generator) generateTransactions() (*table.Table, error) {
	n := g.config.RowCount
	categories := []string{"groceries", "travel", "utilities", "entertainment", "dining"}

	ts := make([]table.Value, n)
	amount := make([]table.Value, n)
	category := make([]table.Value, n)
	account := make([]table.Value, n)

	for i := 0; i < n; i++ {
		offset := time.Duration(g.rng.Intn(90*24)) * time.Hour
		ts[i] = table.NewDateValue(g.config.StartDate.Add(offset))
		amount[i] = table.NewNumericValue(round2(5.0 + g.rng.Float64()*495.0))
		category[i] = table.NewTextValue(categories[g.rng.Intn(len(categories))])
		account[i] = table.NewTextValue(fmt.Sprintf("ACC-%03d", g.rng.Intn(20)+1))
	}

	return table.New([]table.Column{
		{Name: "timestamp", Type: table.TypeDate, Values: ts},
		{Name: "amount", Type: table.TypeNumeric, Values: amount},
		{Name: "category", Type: table.TypeCategorical, Values: category},
		{Name: "account", Type: table.TypeCategorical, Values: account},
	})
}

// generateGeneric is the fallback: a date column and two numeric metrics
func (g *Generator) generateGeneric() (*table.Table, error) {
	n := g.config.RowCount
	dates := make([]table.Value, n)
	value := make([]table.Value, n)
	metric := make([]table.Value, n)

	for i := 0; i < n; i++ {
		dates[i] = table.NewDateValue(g.config.StartDate.AddDate(0, 0, i))
		value[i] = table.NewNumericValue(round2(100.0 + g.rng.NormFloat64()*20.0))
		metric[i] = table.NewNumericValue(round2(g.rng.Float64() * 100.0))
	}

	return table.New([]table.Column{
		{Name: "date", Type: table.TypeDate, Values: dates},
		{Name: "value", Type: table.TypeNumeric, Values: value},
		{Name: "metric", Type: table.TypeNumeric, Values: metric},
	})
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
