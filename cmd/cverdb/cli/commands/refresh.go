package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
	"github.com/cverdb/cverdb/cmd/cverdb/cli/options"
	"github.com/cverdb/cverdb/pkg/cvedb/unmarshal"
	"github.com/cverdb/cverdb/pkg/store/sqlite"
)

var _ options.Interface = &refreshConfig{}

type refreshConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *refreshConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Store)
}

func (o *refreshConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Store)
}

func Refresh(app *application.Application) *cobra.Command {
	cfg := refreshConfig{
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "refresh FILE",
		Short:   "upsert records from a JSON document, overwriting fields of existing records",
		Args:    cobra.ExactArgs(1),
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRefresh(cfg, args[0])
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runRefresh(cfg refreshConfig, jsonPath string) error {
	f, err := os.Open(jsonPath)
	if err != nil {
		return fmt.Errorf("unable to open document: %w", err)
	}
	defer f.Close()

	records, err := unmarshal.Records(f)
	if err != nil {
		return err
	}

	store, cleanup, err := sqlite.New(cfg.Store.Path, false)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer cleanup()

	summary, err := store.UpsertAll(records)
	if err != nil {
		return err
	}

	fmt.Printf("upsert complete. inserted: %d, updated: %d\n", summary.Inserted, summary.Updated)

	return nil
}
