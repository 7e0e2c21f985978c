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

var _ options.Interface = &topVendorsConfig{}

type topVendorsConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
	Limit int           `yaml:"limit" json:"limit" mapstructure:"limit"`
}

func (o *topVendorsConfig) AddFlags(flags *pflag.FlagSet) {
	flags.IntVarP(
		&o.Limit,
		"limit", "l", o.Limit,
		"maximum number of vendors to show",
	)
	options.AddAllFlags(flags, &o.Store)
}

func (o *topVendorsConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	if err := options.Bind(v, "top-vendors.limit", flags.Lookup("limit")); err != nil {
		return err
	}
	return options.BindAllFlags(flags, v, &o.Store)
}

func TopVendors(app *application.Application) *cobra.Command {
	cfg := topVendorsConfig{
		Store: options.DefaultStore(),
		Limit: 10,
	}

	cmd := &cobra.Command{
		Use:     "top-vendors",
		Short:   "show vendors with the most affected records",
		Args:    cobra.NoArgs,
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTopVendors(cfg)
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runTopVendors(cfg topVendorsConfig) error {
	store, cleanup, err := sqlite.New(cfg.Store.Path, false)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer cleanup()

	vendors, err := store.TopVendors(cfg.Limit)
	if err != nil {
		return err
	}

	for _, vc := range vendors {
		fmt.Printf("%s: %d\n", vc.Vendor, vc.Count)
	}

	return nil
}
