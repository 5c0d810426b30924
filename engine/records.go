package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// RECORDS — Row-oriented interop with dimension/measure maps
// ============================================================================
// A Record is one row split into string dimensions and numeric measures.
// FromRecords pivots rows into columns; Dataset.Records pivots back.
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// FromRecords builds a dataset from records. Dimension keys become string
// columns and measure keys become float columns, each in first-seen order,
// dimensions first. A key missing from a record reads as "" or 0.
func FromRecords(records []Record) (*Dataset, error) {
	dimKeys, mesKeys := recordKeys(records)

	cols := make([]*Column, 0, len(dimKeys)+len(mesKeys))
	for _, k := range dimKeys {
		vals := make([]string, len(records))
		for i, r := range records {
			vals[i] = r.Dimensions[k]
		}
		cols = append(cols, &Column{name: k, kind: KindString, strings: vals})
	}
	for _, k := range mesKeys {
		vals := make([]float64, len(records))
		for i, r := range records {
			vals[i] = r.Measures[k]
		}
		cols = append(cols, &Column{name: k, kind: KindFloat, floats: vals})
	}

	ds, err := NewDataset(cols...)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset from records: %w", err)
	}
	return ds, nil
}

// recordKeys collects dimension and measure keys in first-seen order.
// Keys first seen in the same record are sorted.
func recordKeys(records []Record) (dimKeys, mesKeys []string) {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range records {
		dimKeys = appendUnseen(dimKeys, dimSeen, r.Dimensions)
		mesKeys = appendUnseen(mesKeys, mesSeen, r.Measures)
	}
	return dimKeys, mesKeys
}

func appendUnseen[V any](keys []string, seen map[string]bool, m map[string]V) []string {
	start := len(keys)
	for k := range m {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys[start:])
	return keys
}

// Records converts the dataset back to rows. String columns become
// dimensions and numeric columns become measures.
func (d *Dataset) Records() []Record {
	records := make([]Record, d.Len())
	for i := range records {
		records[i] = Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for _, col := range d.columns {
			if col.kind == KindString {
				records[i].Dimensions[col.name] = col.strings[i]
			} else {
				records[i].Measures[col.name] = col.Float(i)
			}
		}
	}
	return records
}
