// Package derive adds computed ("virtual") columns to tabular datasets.
//
// Usage:
//
//	import "github.com/spektr-org/derive/engine"
//
//	ds := engine.MustDataset(
//	    engine.IntColumn("sales", 100, 200),
//	    engine.IntColumn("costs", 60, 30),
//	)
//	out, err := engine.Derive(ds, "sales - costs", "profit")
//
// An expression is two column labels joined by one of + - *. Labels are
// ASCII letters and underscores. The input dataset is never modified;
// the result is a deep copy with the new column appended (or replaced).
//
// The schema and helpers packages load CSV files into typed datasets.
// The derive command in cmd/derive wraps all of it for the shell.
package derive
