package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"

	"warehouse/domain/core"
	"warehouse/domain/table"

	"github.com/xuri/excelize/v2"
)

// Parser turns raw uploaded bytes into a typed table. It is a pure
// transformation: persistence of the result is the caller's concern.
type Parser struct {
	config Config
}

// NewParser creates a parser with the given limits
func NewParser(config Config) *Parser {
	return &Parser{config: config}
}

// Parse decodes raw bytes in the declared format into a Table. It fails
// with ErrUnsupportedFormat, ErrSizeLimitExceeded, or ErrMalformedInput.
func (p *Parser) Parse(raw []byte, format Format) (*table.Table, error) {
	if int64(len(raw)) > p.config.MaxSizeBytes {
		return nil, core.NewSizeLimitError(int64(len(raw)), p.config.MaxSizeBytes)
	}
	if len(raw) == 0 {
		return nil, core.NewMalformedInputError("empty payload", nil)
	}

	var (
		headers []string
		records [][]string
		err     error
	)

	switch format {
	case FormatCSV:
		headers, records, err = p.decodeCSV(raw)
	case FormatExcel:
		headers, records, err = p.decodeExcel(raw)
	case FormatJSON:
		headers, records, err = p.decodeJSON(raw)
	default:
		return nil, core.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[TableParser] Decoded %s payload: %d columns, %d rows", format, len(headers), len(records))

	return buildTable(headers, records)
}

// decodeCSV reads a header row plus data rows. The csv reader enforces a
// consistent field count, which gives us the rectangular guarantee.
func (p *Parser) decodeCSV(raw []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, core.NewMalformedInputError("failed to read CSV", err)
	}
	if len(rows) == 0 {
		return nil, nil, core.NewMalformedInputError("CSV has no header row", nil)
	}
	return rows[0], rows[1:], nil
}

// decodeExcel reads the first sheet. Excel rows may be ragged on the
// right edge, so short rows are padded to the header width.
func (p *Parser) decodeExcel(raw []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, core.NewMalformedInputError("failed to open Excel workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, core.NewMalformedInputError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, core.NewMalformedInputError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, nil, core.NewMalformedInputError("sheet has no header row", nil)
	}

	headers := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(headers) {
			return nil, nil, core.NewMalformedInputError(
				fmt.Sprintf("row %d has %d cells, header has %d", i+2, len(row), len(headers)), nil)
		}
		for len(row) < len(headers) {
			row = append(row, "")
		}
		records = append(records, row)
	}
	return headers, records, nil
}

// decodeJSON accepts an array of flat objects. JSON objects carry no key
// order, so columns are emitted in sorted name order for determinism.
func (p *Parser) decodeJSON(raw []byte) ([]string, [][]string, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, nil, core.NewMalformedInputError("expected a JSON array of objects", err)
	}
	if len(rows) == 0 {
		return nil, nil, core.NewMalformedInputError("JSON array is empty", nil)
	}

	keySet := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			keySet[key] = true
		}
	}
	headers := make([]string, 0, len(keySet))
	for key := range keySet {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	records := make([][]string, len(rows))
	for i, row := range rows {
		record := make([]string, len(headers))
		for j, key := range headers {
			cell, err := jsonCellString(row[key])
			if err != nil {
				return nil, nil, core.NewMalformedInputError(
					fmt.Sprintf("row %d field %q is not a scalar value", i+1, key), nil)
			}
			record[j] = cell
		}
		records[i] = record
	}
	return headers, records, nil
}

// jsonCellString flattens a decoded JSON scalar into the shared string
// representation the type inferrer consumes. Nested objects and arrays
// are not tabular data and are rejected.
func jsonCellString(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("nested value of type %T", v)
	}
}

// buildTable runs type inference per column and assembles the table
func buildTable(headers []string, records [][]string) (*table.Table, error) {
	columns := make([]table.Column, len(headers))
	for j, name := range headers {
		raw := make([]string, len(records))
		for i, record := range records {
			raw[i] = record[j]
		}
		columns[j] = inferColumn(name, raw)
	}

	t, err := table.New(columns)
	if err != nil {
		return nil, core.NewMalformedInputError("decoded structure is not rectangular", err)
	}
	return t, nil
}
