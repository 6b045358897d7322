// Package tabfile ingests tabular files into datasets. CSV goes through the
// standard library, XLSX through excelize; both funnel into the same cell
// coercion: a column where every non-empty cell parses as a date becomes
// temporal, everything else is numeric with unparseable cells as missing.
package tabfile

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"autostat/domain/dataset"
	"autostat/internal/errors"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Reader loads a CSV or XLSX file into a Dataset.
type Reader struct {
	path     string
	fileType string
}

// NewReader infers the file type from the extension; anything that is not
// .csv is treated as XLSX.
func NewReader(path string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{path: path, fileType: fileType}
}

// Read parses the file. The first row must be a header.
func (r *Reader) Read() (dataset.Dataset, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return dataset.Dataset{}, errors.IO("file not found: "+r.path, nil)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readXLSX()
	}
	if err != nil {
		return dataset.Dataset{}, err
	}
	if len(rows) < 2 {
		return dataset.Dataset{}, errors.InvalidInput("file needs a header row and at least one data row")
	}
	return coerceColumns(rows)
}

func (r *Reader) readCSV() ([][]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open csv file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse csv file")
	}
	return rows, nil
}

func (r *Reader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open xlsx file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read first sheet")
	}
	return rows, nil
}

// coerceColumns builds one typed column per header entry.
func coerceColumns(rows [][]string) (dataset.Dataset, error) {
	header := rows[0]
	data := rows[1:]
	ds := dataset.Dataset{Columns: make([]dataset.Column, 0, len(header))}

	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return dataset.Dataset{}, errors.InvalidInput("empty column name in header")
		}
		cells := make([]string, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}
		ds.Columns = append(ds.Columns, coerceColumn(name, cells))
	}
	return ds, nil
}

func coerceColumn(name string, cells []string) dataset.Column {
	if times, ok := parseTimes(cells); ok {
		return dataset.Column{Name: name, Kind: dataset.Temporal, Times: times}
	}

	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if cell == "" || err != nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = v
	}
	return dataset.Column{Name: name, Kind: dataset.Numeric, Values: values}
}

// parseTimes succeeds only when every non-empty cell parses under a single
// shared layout, so mixed columns stay numeric.
func parseTimes(cells []string) ([]time.Time, bool) {
	for _, layout := range dateLayouts {
		times := make([]time.Time, len(cells))
		ok := true
		seen := false
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			t, err := time.Parse(layout, cell)
			if err != nil {
				ok = false
				break
			}
			times[i] = t
			seen = true
		}
		if ok && seen {
			return times, true
		}
	}
	return nil, false
}
