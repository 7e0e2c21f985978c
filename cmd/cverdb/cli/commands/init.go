package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
	"github.com/cverdb/cverdb/cmd/cverdb/cli/options"
	"github.com/cverdb/cverdb/pkg/cvedb"
	"github.com/cverdb/cverdb/pkg/store/sqlite"
)

var _ options.Interface = &initConfig{}

type initConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *initConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Store)
}

func (o *initConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Store)
}

func Init(app *application.Application) *cobra.Command {
	cfg := initConfig{
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "initialize the database schema (safe to re-run)",
		Args:    cobra.NoArgs,
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(cfg)
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runInit(cfg initConfig) error {
	store, cleanup, err := sqlite.New(cfg.Store.Path, false)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer cleanup()

	for _, outcome := range store.EnsureColumns() {
		switch outcome.Status {
		case cvedb.ColumnFailed:
			fmt.Printf("  • %s: %s (%v)\n", outcome.Column, outcome.Status, outcome.Err)
		default:
			fmt.Printf("  • %s: %s\n", outcome.Column, outcome.Status)
		}
	}

	fmt.Printf("initialized DB: %s\n", cfg.Store.Path)

	return nil
}
