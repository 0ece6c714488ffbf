package tabular

import (
	"strconv"
	"strings"
	"time"

	"warehouse/domain/table"
)

// dateFormats is the fixed set of layouts tried during date inference,
// in priority order
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// inferColumn decides a single semantic type for a column and coerces
// every cell to it. Policy: boolean when every non-null value is in
// {true,false,0,1}, else numeric, else date, else categorical. A column
// only earns a type when ALL of its non-null values parse as that type.
func inferColumn(name string, raw []string) table.Column {
	cleaned := make([]string, len(raw))
	nonNull := 0
	for i, cell := range raw {
		cleaned[i] = strings.TrimSpace(cell)
		if cleaned[i] != "" {
			nonNull++
		}
	}

	colType := table.TypeCategorical
	if nonNull > 0 {
		switch {
		case allBoolean(cleaned):
			colType = table.TypeBoolean
		case allNumeric(cleaned):
			colType = table.TypeNumeric
		case allDates(cleaned):
			colType = table.TypeDate
		}
	}

	values := make([]table.Value, len(cleaned))
	for i, cell := range cleaned {
		values[i] = coerceCell(cell, colType)
	}
	return table.Column{Name: name, Type: colType, Values: values}
}

func coerceCell(cell string, colType table.Type) table.Value {
	if cell == "" {
		return table.NewMissingValue(colType)
	}
	switch colType {
	case table.TypeBoolean:
		b, _ := parseBool(cell)
		return table.NewBoolValue(b)
	case table.TypeNumeric:
		f, _ := parseNumeric(cell)
		return table.NewNumericValue(f)
	case table.TypeDate:
		t, _ := parseDate(cell)
		return table.NewDateValue(t)
	default:
		return table.NewTextValue(cell)
	}
}

func allBoolean(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if _, ok := parseBool(cell); !ok {
			return false
		}
	}
	return true
}

func allNumeric(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if _, ok := parseNumeric(cell); !ok {
			return false
		}
	}
	return true
}

func allDates(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if _, ok := parseDate(cell); !ok {
			return false
		}
	}
	return true
}

// parseBool accepts exactly {true,false,0,1} after normalization
func parseBool(cell string) (bool, bool) {
	switch strings.ToLower(cell) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

// parseNumeric handles the formats spreadsheets commonly export:
// thousands separators, currency prefixes, and parenthesized negatives
func parseNumeric(cell string) (float64, bool) {
	clean := cell
	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

func parseDate(cell string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
