package engine

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================================
// ENCODING — Column-oriented JSON / YAML shape
// ============================================================================
//
//	{"columns":[{"name":"sales","kind":"int","values":[100,200]}],"rows":2}
//
// NaN and ±Inf float values encode as null; null decodes as NaN.
// int and string columns have no null and reject it on decode.
// ============================================================================

type wireColumn struct {
	Name   string      `json:"name" yaml:"name"`
	Kind   string      `json:"kind" yaml:"kind"`
	Values interface{} `json:"values" yaml:"values"`
}

type wireDataset struct {
	Columns []wireColumn `json:"columns" yaml:"columns"`
	Rows    int          `json:"rows" yaml:"rows"`
}

func (d *Dataset) wire() wireDataset {
	w := wireDataset{Columns: make([]wireColumn, 0, d.Width()), Rows: d.Len()}
	for _, col := range d.Columns() {
		wc := wireColumn{Name: col.name, Kind: col.kind.String()}
		switch col.kind {
		case KindFloat:
			vals := make([]*float64, len(col.floats))
			for i := range col.floats {
				if v := col.floats[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
					vals[i] = &v
				}
			}
			wc.Values = vals
		default:
			wc.Values = col.Values()
		}
		w.Columns = append(w.Columns, wc)
	}
	return w
}

// MarshalJSON implements json.Marshaler.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// MarshalYAML implements yaml.Marshaler.
func (d *Dataset) MarshalYAML() (interface{}, error) {
	return d.wire(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var w struct {
		Columns []struct {
			Name   string          `json:"name"`
			Kind   string          `json:"kind"`
			Values json.RawMessage `json:"values"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	cols := make([]*Column, 0, len(w.Columns))
	for _, wc := range w.Columns {
		kind, err := ParseKind(wc.Kind)
		if err != nil {
			return fmt.Errorf("column %q: %w", wc.Name, err)
		}
		col := &Column{name: wc.Name, kind: kind}
		switch kind {
		case KindInt:
			col.ints, err = decodeNonNull[int64](wc.Values)
		case KindString:
			col.strings, err = decodeNonNull[string](wc.Values)
		case KindFloat:
			var vals []*float64
			err = decodeValues(wc.Values, &vals)
			col.floats = make([]float64, len(vals))
			for i, v := range vals {
				if v == nil {
					col.floats[i] = math.NaN()
				} else {
					col.floats[i] = *v
				}
			}
		}
		if err != nil {
			return fmt.Errorf("column %q: %w", wc.Name, err)
		}
		cols = append(cols, col)
	}

	ds, err := NewDataset(cols...)
	if err != nil {
		return err
	}
	*d = *ds
	return nil
}

func decodeValues(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeNonNull decodes a values array whose kind has no null
// representation. A null entry is an error naming its row.
func decodeNonNull[T any](raw json.RawMessage) ([]T, error) {
	var ptrs []*T
	if err := decodeValues(raw, &ptrs); err != nil {
		return nil, err
	}
	vals := make([]T, len(ptrs))
	for i, v := range ptrs {
		if v == nil {
			return nil, fmt.Errorf("row %d: null value", i)
		}
		vals[i] = *v
	}
	return vals, nil
}
