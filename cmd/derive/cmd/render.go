package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/derive/engine"
	"github.com/spektr-org/derive/helpers"
	"github.com/spektr-org/derive/schema"
)

// ============================================================================
// RENDERING
// ============================================================================

func renderDataset(w io.Writer, ds *engine.Dataset, format string) error {
	switch format {
	case "csv":
		return helpers.WriteCSV(w, ds)
	case "text":
		return writeDatasetText(w, ds)
	default:
		return writeStructured(w, ds, format)
	}
}

// writeStructured encodes v as yaml, indented JSON ("pretty") or compact JSON.
func writeStructured(w io.Writer, v interface{}, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return enc.Close()
	case "pretty":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}

// writeDatasetText prints an aligned table followed by a row count.
func writeDatasetText(w io.Writer, ds *engine.Dataset) error {
	if ds.Width() == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(ds.Names(), "\t"))
	cols := ds.Columns()
	row := make([]string, len(cols))
	for i := 0; i < ds.Len(); i++ {
		for j, col := range cols {
			row[j] = col.Text(i)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", ds.Len())
	return err
}

func writeSchemaText(w io.Writer, sch *schema.Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tKIND\tNULLS\tLABEL\tHEADER")
	for _, col := range sch.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", col.Key, col.Kind, col.NullCount, col.IsLabel, col.Header)
	}
	for _, s := range sch.SkippedColumns {
		fmt.Fprintf(tw, "%s\tskipped\t\t\t%s\n", s.Column, s.Reason)
	}
	return tw.Flush()
}
