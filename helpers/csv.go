package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/derive/engine"
	"github.com/spektr-org/derive/schema"
)

// ============================================================================
// CSV HELPER — Converts CSV bytes to and from *engine.Dataset
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper converts the raw bytes into typed columns using the schema.
// ============================================================================

// ParseCSV parses CSV bytes into a Dataset using sch for column kinds.
// Header cells are matched to schema keys after snake-casing; CSV columns
// the schema does not mention are skipped. Rows with the wrong number of
// fields are skipped. A cell that does not parse as its column's kind is
// an error.
func ParseCSV(data []byte, sch schema.Config) (*engine.Dataset, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	// Read header
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	// Build schema column → CSV index mapping
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		key := schema.ToKey(h)
		if _, dup := position[key]; !dup {
			position[key] = i
		}
	}

	builders := make([]*columnBuilder, 0, len(sch.Columns))
	for _, meta := range sch.Columns {
		kind, err := meta.EngineKind()
		if err != nil {
			return nil, fmt.Errorf("schema column %q: %w", meta.Key, err)
		}
		idx, ok := position[meta.Key]
		if !ok {
			return nil, fmt.Errorf("schema column %q not found in CSV header", meta.Key)
		}
		builders = append(builders, &columnBuilder{key: meta.Key, kind: kind, index: idx})
	}

	// Read rows
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		row++
		for _, b := range builders {
			if err := b.add(fields[b.index]); err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", row, b.key, err)
			}
		}
	}

	cols := make([]*engine.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.build()
	}
	return engine.NewDataset(cols...)
}

// ParseCSVAuto discovers a schema from the data and parses it.
// Returns both the dataset and the schema it was parsed with.
func ParseCSVAuto(data []byte, opts ...schema.DiscoverOptions) (*engine.Dataset, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data, opts...)
	if err != nil {
		return nil, nil, err
	}
	ds, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return ds, sch, nil
}

// WriteCSV writes ds as CSV: a header of column names, then one line per
// row. NaN floats are written as empty cells.
func WriteCSV(w io.Writer, ds *engine.Dataset) error {
	cw := csv.NewWriter(w)

	cols := ds.Columns()
	if err := cw.Write(ds.Names()); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for i := 0; i < ds.Len(); i++ {
		for j, col := range cols {
			if col.Kind() == engine.KindFloat && math.IsNaN(col.Float(i)) {
				record[j] = ""
			} else {
				record[j] = col.Text(i)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// COLUMN BUILDER
// ============================================================================

var errNullInt = errors.New("null value in int column")

type columnBuilder struct {
	key     string
	kind    engine.Kind
	index   int
	ints    []int64
	floats  []float64
	strings []string
}

func (b *columnBuilder) add(raw string) error {
	val := strings.TrimSpace(raw)
	switch b.kind {
	case engine.KindInt:
		if schema.IsNull(val) {
			return errNullInt
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return err
		}
		b.ints = append(b.ints, n)
	case engine.KindFloat:
		if schema.IsNull(val) {
			b.floats = append(b.floats, math.NaN())
			return nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		b.floats = append(b.floats, f)
	default:
		b.strings = append(b.strings, val)
	}
	return nil
}

func (b *columnBuilder) build() *engine.Column {
	switch b.kind {
	case engine.KindInt:
		return engine.IntColumn(b.key, b.ints...)
	case engine.KindFloat:
		return engine.FloatColumn(b.key, b.floats...)
	default:
		return engine.StringColumn(b.key, b.strings...)
	}
}
