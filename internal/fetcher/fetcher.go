// Package fetcher reads venue export files: CSV, TSV, and XLSX
// locally, plus FTP retrieval from the ticketing platform's drop
// directory. It deals only in raw string rows; interpretation belongs
// to the normalize package.
package fetcher

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Export is a parsed export file: the header row and the data rows.
type Export struct {
	Header []string
	Rows   [][]string
}

// ReadExport parses an export file, dispatching on its extension.
func ReadExport(path string) (*Export, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path, ',')
	case ".tsv", ".txt":
		return ReadCSVFile(path, '\t')
	case ".xlsx":
		return ReadXLSX(path, XLSXOptions{})
	default:
		return nil, eris.Errorf("fetcher: unsupported export format %q", filepath.Ext(path))
	}
}
