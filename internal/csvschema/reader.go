package csvschema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const bom = "\ufeff"

// ReadCSV reads a header row followed by records and keys every record by the
// lower-cased header. Short records are padded with empty cells.
func ReadCSV(r io.Reader) ([]map[string]string, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty csv: missing header row")
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		if blank(record) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string) ([]map[string]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only file.
			_ = cerr
		}
	}()
	return ReadCSV(f)
}

// MissingColumns lists required schema columns absent from header.
func MissingColumns(s Schema, header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.ToLower(h)] = true
	}
	var missing []string
	for _, c := range s.Columns {
		if c.Required && !present[strings.ToLower(c.Name)] {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
