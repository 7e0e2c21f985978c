package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
	"github.com/cverdb/cverdb/cmd/cverdb/cli/options"
	"github.com/cverdb/cverdb/internal/log"
	"github.com/cverdb/cverdb/pkg/cvedb/unmarshal"
	"github.com/cverdb/cverdb/pkg/store/sqlite"
)

var _ options.Interface = &importConfig{}

type importConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
}

func (o *importConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Store)
}

func (o *importConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Store)
}

func Import(app *application.Application) *cobra.Command {
	cfg := importConfig{
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "import FILE",
		Short:   "import records from a JSON document, keeping existing records untouched",
		Args:    cobra.ExactArgs(1),
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, args []string) error {
			return runImport(cfg, args[0])
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runImport(cfg importConfig, jsonPath string) error {
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

	if err := store.ImportNewOnly(records); err != nil {
		return err
	}

	log.WithFields("records", len(records), "db", cfg.Store.Path).Info("import complete")
	fmt.Printf("imported %d records into %s\n", len(records), cfg.Store.Path)

	return nil
}
