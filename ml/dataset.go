package ml

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LabelColumn is the name of the binary ground-truth column in the
// external CSV contract.
const LabelColumn = "target"

// Dataset is an immutable labeled sample set with features already in
// canonical schema order.
type Dataset struct {
	features [][]float64
	labels   []int
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.labels)
}

// Features returns the feature matrix in schema order. Callers must not
// mutate the returned slices.
func (d *Dataset) Features() [][]float64 {
	return d.features
}

// Labels returns the binary labels aligned with Features.
func (d *Dataset) Labels() []int {
	return d.labels
}

// ClassCounts returns the number of records per label.
func (d *Dataset) ClassCounts() (healthy, disease int) {
	for _, label := range d.labels {
		if label == 1 {
			disease++
		} else {
			healthy++
		}
	}
	return healthy, disease
}

// LoadDataset reads a labeled CSV into a Dataset. The header must contain
// every schema field plus the target column, in any order; columns are
// reordered to canonical schema order while reading.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataNotFound, path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header", ErrSchemaMismatch)
	}

	columns, labelIdx, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var features [][]float64
	var labels []int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		vector := make([]float64, FieldCount)
		for i, col := range columns {
			value, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", ErrSchemaMismatch, len(labels)+1, header[col], err)
			}
			vector[i] = value
		}
		label, err := strconv.ParseFloat(strings.TrimSpace(row[labelIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d label: %v", ErrSchemaMismatch, len(labels)+1, err)
		}
		features = append(features, vector)
		if label >= 0.5 {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}

	if len(labels) == 0 {
		return nil, ErrEmptyDataset
	}
	return &Dataset{features: features, labels: labels}, nil
}

// mapColumns resolves header positions so that columns[i] is the CSV column
// holding schema field i.
func mapColumns(header []string) (columns []int, labelIdx int, err error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	labelIdx, ok := index[LabelColumn]
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing %s column", ErrSchemaMismatch, LabelColumn)
	}

	columns = make([]int, FieldCount)
	for i, name := range FieldNames() {
		col, ok := index[name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: missing column %s", ErrSchemaMismatch, name)
		}
		columns[i] = col
	}

	if len(header) != FieldCount+1 {
		return nil, 0, fmt.Errorf("%w: expected %d columns, got %d", ErrSchemaMismatch, FieldCount+1, len(header))
	}
	return columns, labelIdx, nil
}
