package tabular

import (
	"path/filepath"
	"strings"

	"warehouse/domain/core"
)

// Format identifies a supported upload format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatJSON  Format = "json"
)

// ParseFormat normalizes a declared format or MIME type into a Format
func ParseFormat(declared string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "csv", "text/csv":
		return FormatCSV, nil
	case "xlsx", "xls", "excel",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatExcel, nil
	case "json", "application/json":
		return FormatJSON, nil
	default:
		return "", core.NewUnsupportedFormatError(declared)
	}
}

// FormatFromFilename guesses the format from a file extension
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ParseFormat(ext)
}

// Config holds parser limits
type Config struct {
	MaxSizeBytes int64
}

// DefaultConfig returns the default 10 MB upload limit
func DefaultConfig() Config {
	return Config{MaxSizeBytes: 10 * 1024 * 1024}
}
