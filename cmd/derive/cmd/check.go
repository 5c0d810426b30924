package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/derive/engine"
)

type checkOptions struct {
	expr string
	file string
	name string
}

// The check command validates an expression without producing output data.
// With --file it also resolves operands and types against the dataset.
func newCheckCmd(a *app) *cobra.Command {
	o := &checkOptions{}
	c := &cobra.Command{
		Use:   "check [expression]",
		Short: "Validate an expression",
		Example: `  derive check "sales - costs"
  derive check --expr "price*qty" --file orders.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				o.expr = args[0]
			}
			return a.runCheck(cmd, o)
		},
	}

	f := c.Flags()
	f.StringVarP(&o.expr, "expr", "e", "", "expression to validate")
	f.StringVarP(&o.file, "file", "f", "", "dataset to resolve operands against")
	f.StringVarP(&o.name, "name", "n", "derived", "target column name checked with --file")
	return c
}

func (a *app) runCheck(cmd *cobra.Command, o *checkOptions) error {
	if o.expr == "" {
		return fmt.Errorf("an expression is required")
	}
	expr, err := engine.ParseExpression(o.expr)
	if err != nil {
		return err
	}

	if o.file != "" {
		ds, err := a.loadDataset(o.file, "")
		if err != nil {
			return err
		}
		result, err := engine.Derive(ds, o.expr, o.name, engine.WithLogger(a.log))
		if err != nil {
			return err
		}
		col, _ := result.Column(o.name)
		a.log.WithField("kind", col.Kind()).Infof("✅ %s resolves against %s", expr, o.file)
	}

	fmt.Fprintln(cmd.OutOrStdout(), expr)
	return nil
}
