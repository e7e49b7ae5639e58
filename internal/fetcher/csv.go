package fetcher

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadCSV parses delimited text from a reader. The first row is the
// header. Rows may have variable field counts; venue exports often
// pad or truncate trailing columns.
func ReadCSV(r io.Reader, delimiter rune) (*Export, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var exp Export
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}
		if exp.Header == nil {
			exp.Header = record
			continue
		}
		exp.Rows = append(exp.Rows, record)
	}
	if exp.Header == nil {
		return nil, eris.New("csv: empty file")
	}
	return &exp, nil
}

// ReadCSVFile parses a delimited file from disk.
func ReadCSVFile(path string, delimiter rune) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close()
	return ReadCSV(f, delimiter)
}
