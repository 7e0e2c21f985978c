package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
	"github.com/cverdb/cverdb/cmd/cverdb/cli/options"
	"github.com/cverdb/cverdb/pkg/store/sqlite"
)

var _ options.Interface = &countsConfig{}

type countsConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *countsConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Store)
}

func (o *countsConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Store)
}

func CountsCmd(app *application.Application) *cobra.Command {
	cfg := countsConfig{
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "counts",
		Short:   "show record, vendor, and product totals",
		Args:    cobra.NoArgs,
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCounts(cfg)
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runCounts(cfg countsConfig) error {
	store, cleanup, err := sqlite.New(cfg.Store.Path, false)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer cleanup()

	counts, err := store.Counts()
	if err != nil {
		return err
	}

	fmt.Printf("records:  %d\n", counts.Records)
	fmt.Printf("vendors:  %d\n", counts.Vendors)
	fmt.Printf("products: %d\n", counts.Products)

	return nil
}
