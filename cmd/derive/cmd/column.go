package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spektr-org/derive/engine"
)

type columnOptions struct {
	file        string
	schemaFile  string
	expr        string
	name        string
	format      string
	out         string
	noOverwrite bool
}

func newColumnCmd(a *app) *cobra.Command {
	o := &columnOptions{}
	c := &cobra.Command{
		Use:   "column",
		Short: "Add a column computed from two existing columns",
		Example: `  derive column --file sales.csv --expr "sales - costs" --name profit
  derive column --file orders.csv --expr "unit_price*quantity" --name total --format csv --out totals.csv
  derive column --file data.json --expr "first + last" --name full_name --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runColumn(cmd, o)
		},
	}

	f := c.Flags()
	f.StringVarP(&o.file, "file", "f", "", "CSV or dataset JSON file (required)")
	f.StringVar(&o.schemaFile, "schema", "", "schema JSON or YAML file (skips auto-detect)")
	f.StringVarP(&o.expr, "expr", "e", "", `expression, e.g. "sales - costs" (required)`)
	f.StringVarP(&o.name, "name", "n", "", "name of the new column (required)")
	f.StringVar(&o.format, "format", "", "output format: json, pretty, yaml, csv, text")
	f.StringVarP(&o.out, "out", "o", "", "write output to file instead of stdout")
	f.BoolVar(&o.noOverwrite, "no-overwrite", false, "fail if the column already exists")
	for _, name := range []string{"file", "expr", "name"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func (a *app) runColumn(cmd *cobra.Command, o *columnOptions) error {
	format, err := a.format(o.format)
	if err != nil {
		return err
	}

	ds, err := a.loadDataset(o.file, o.schemaFile)
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithLogger(a.log)}
	if o.noOverwrite || !a.cfg.Overwrite {
		opts = append(opts, engine.WithoutOverwrite())
	}
	result, err := engine.Derive(ds, o.expr, o.name, opts...)
	if err != nil {
		return fmt.Errorf("derive failed: %w", err)
	}
	a.log.Infof("🧮 Derived %s = %s", o.name, o.expr)

	return a.emit(cmd, o.out, func(w io.Writer) error {
		return renderDataset(w, result, format)
	})
}
