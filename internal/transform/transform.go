// Package transform reads raw record rows from CSV, normalizes them into
// canonical records, and serializes the result in one of three encodings.
package transform

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/record"
)

// Columns is the fixed CSV column order for raw rows. A header row is
// required; year and rank are optional trailing columns.
var Columns = []string{"team", "event", "course", "gender", "age_group", "time", "swimmer", "date", "meet", "year", "rank"}

var requiredColumns = []string{"team", "event", "course", "gender", "age_group", "time", "swimmer", "date", "meet"}

// Result is the outcome of transforming a batch of raw rows.
type Result struct {
	Records []record.Record
	Loaded  int
	Skipped int
}

// LoadCSV reads raw rows from a CSV file. The header row is required and
// must contain every required column; column order beyond that is free.
func LoadCSV(path string) ([]record.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	logger.Info("Loaded CSV", logger.Fields{"path": path, "rows": len(rows)})
	return rows, nil
}

// ReadRows reads raw rows from CSV data with a required header.
func ReadRows(r io.Reader) ([]record.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	field := func(line []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(line) {
			return ""
		}
		return line[i]
	}

	var rows []record.RawRow
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		rows = append(rows, record.RawRow{
			Team:     field(line, "team"),
			Event:    field(line, "event"),
			Course:   field(line, "course"),
			Gender:   field(line, "gender"),
			AgeGroup: field(line, "age_group"),
			Time:     field(line, "time"),
			Swimmer:  field(line, "swimmer"),
			Date:     field(line, "date"),
			Meet:     field(line, "meet"),
			Year:     field(line, "year"),
			Rank:     field(line, "rank"),
		})
	}
	return rows, nil
}

// WriteRows writes raw rows as CSV with the full column set, header first.
func WriteRows(w io.Writer, rows []record.RawRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		line := []string{row.Team, row.Event, row.Course, row.Gender, row.AgeGroup,
			row.Time, row.Swimmer, row.Date, row.Meet, row.Year, row.Rank}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Transform normalizes raw rows into canonical records. Rows that fail
// normalization are logged and skipped; the batch always continues. When
// several rows map to the same identity, the row encountered later in the
// input wins, in the slot established by the first occurrence, so output
// order is deterministic for a given input order.
func Transform(rows []record.RawRow) *Result {
	result := &Result{Loaded: len(rows)}

	slot := make(map[string]int)
	for _, row := range rows {
		rec, err := record.FromRow(row)
		if err != nil {
			logger.Warn("Skipping row", logger.Fields{"row": fmt.Sprintf("%+v", row), "reason": err.Error()})
			logger.IncrCounter("transform.rows_skipped")
			result.Skipped++
			continue
		}

		if i, seen := slot[rec.ID]; seen {
			result.Records[i] = rec // last wins
			continue
		}
		slot[rec.ID] = len(result.Records)
		result.Records = append(result.Records, rec)
	}

	logger.Info("Transformed rows", logger.Fields{
		"loaded":  result.Loaded,
		"records": len(result.Records),
		"skipped": result.Skipped,
	})
	return result
}

// TransformFiles loads every CSV and transforms the concatenated rows,
// ordered by input file then row, so the later row wins across files too.
func TransformFiles(csvPaths []string) (*Result, error) {
	var all []record.RawRow
	for _, path := range csvPaths {
		rows, err := LoadCSV(path)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return Transform(all), nil
}

// FindCSVs lists the CSV files to transform for an input path: the file
// itself, or every *.csv in the directory, sorted for deterministic order.
func FindCSVs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	paths, err := filepath.Glob(filepath.Join(input, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing csv files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", input)
	}
	sort.Strings(paths)
	return paths, nil
}
