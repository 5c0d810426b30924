package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/derive/engine"
	"github.com/spektr-org/derive/helpers"
	"github.com/spektr-org/derive/internal/config"
	"github.com/spektr-org/derive/internal/logging"
	"github.com/spektr-org/derive/schema"
)

// ============================================================================
// DERIVE CLI — Virtual columns for CSV datasets
// ============================================================================

// app carries state shared by all subcommands once the root has run.
type app struct {
	cfgFile string
	verbose bool

	cfg config.Cfg
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "derive",
		Short: "derive - computed columns for tabular data",
		Long: `derive adds a computed column to a dataset from an expression
over two existing columns:

  derive column --file sales.csv --expr "sales - costs" --name profit

Operators: + (add, or concatenate text), - (subtract), * (multiply).
Column labels are ASCII letters and underscores only.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./derive.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newColumnCmd(a),
		newSchemaCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and reports any failure on stderr.
func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logging.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	if cfg.Source != "" {
		log.Debugf("📋 Loaded config: %s", cfg.Source)
	}
	return nil
}

// format returns the flag value when set, the configured format otherwise.
func (a *app) format(flag string) (string, error) {
	if flag == "" {
		return a.cfg.Format, nil
	}
	f := strings.ToLower(flag)
	for _, known := range config.Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", flag, strings.Join(config.Formats, ", "))
}

// ── Input ────────────────────────────────────────────────────────────────

// loadDataset reads a .json dataset as encoded by the engine, anything
// else as CSV. CSV columns come from schemaPath or from discovery.
func (a *app) loadDataset(path, schemaPath string) (*engine.Dataset, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		ds := &engine.Dataset{}
		if err := json.Unmarshal(data, ds); err != nil {
			return nil, fmt.Errorf("failed to parse dataset JSON: %w", err)
		}
		a.log.Infof("📊 Loaded %d rows, %d columns", ds.Len(), ds.Width())
		return ds, nil
	}

	var sch *schema.Config
	if schemaPath != "" {
		if sch, err = loadSchema(schemaPath); err != nil {
			return nil, err
		}
		a.log.Infof("📋 Loaded schema: %s (%d columns)", sch.Name, len(sch.Columns))
	} else {
		if sch, err = a.discover(data); err != nil {
			return nil, err
		}
	}

	ds, err := helpers.ParseCSV(data, *sch)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV records: %w", err)
	}
	a.log.Infof("📊 Parsed %d rows", ds.Len())
	return ds, nil
}

func (a *app) discover(data []byte) (*schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data, schema.DiscoverOptions{SampleSize: a.cfg.Discover.SampleSize})
	if err != nil {
		return nil, fmt.Errorf("auto-detect failed: %w", err)
	}
	a.log.Infof("🔍 Auto-Detect: %s (%d columns, %d skipped)", sch.Name, len(sch.Columns), len(sch.SkippedColumns))
	for _, s := range sch.SkippedColumns {
		a.log.WithField("column", s.Column).Warnf("⚠️ Skipped: %s", s.Reason)
	}
	return sch, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// loadSchema reads a schema file written by `derive schema`, as JSON or YAML.
func loadSchema(path string) (*schema.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	sch := &schema.Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, sch)
	default:
		err = json.Unmarshal(data, sch)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	return sch, nil
}

// ── Output ───────────────────────────────────────────────────────────────

// emit runs render against the --out file, or stdout when path is empty.
func (a *app) emit(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Infof("📄 Output written to %s", path)
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
