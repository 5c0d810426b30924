package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type schemaOptions struct {
	file   string
	format string
	out    string
}

func newSchemaCmd(a *app) *cobra.Command {
	o := &schemaOptions{}
	c := &cobra.Command{
		Use:   "schema",
		Short: "Print the auto-detected schema of a CSV file",
		Example: `  derive schema --file data.csv --format pretty
  derive schema --file data.csv --format yaml --out schema.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSchema(cmd, o)
		},
	}

	f := c.Flags()
	f.StringVarP(&o.file, "file", "f", "", "CSV file (required)")
	f.StringVar(&o.format, "format", "", "output format: json, pretty, yaml, text")
	f.StringVarP(&o.out, "out", "o", "", "write output to file instead of stdout")
	_ = c.MarkFlagRequired("file")
	return c
}

func (a *app) runSchema(cmd *cobra.Command, o *schemaOptions) error {
	format, err := a.format(o.format)
	if err != nil {
		return err
	}
	if format == "csv" {
		return fmt.Errorf("format csv is not available for schemas")
	}

	data, err := readFile(o.file)
	if err != nil {
		return err
	}
	sch, err := a.discover(data)
	if err != nil {
		return err
	}

	return a.emit(cmd, o.out, func(w io.Writer) error {
		if format == "text" {
			return writeSchemaText(w, sch)
		}
		return writeStructured(w, sch, format)
	})
}
