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

var _ options.Interface = &queryYearConfig{}

type queryYearConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
	Year  int           `yaml:"year" json:"year" mapstructure:"year"`
}

func (o *queryYearConfig) AddFlags(flags *pflag.FlagSet) {
	flags.IntVarP(
		&o.Year,
		"year", "y", o.Year,
		"year to filter records by",
	)
	options.AddAllFlags(flags, &o.Store)
}

func (o *queryYearConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	if err := options.Bind(v, "query-year.year", flags.Lookup("year")); err != nil {
		return err
	}
	return options.BindAllFlags(flags, v, &o.Store)
}

func QueryYear(app *application.Application) *cobra.Command {
	cfg := queryYearConfig{
		Store: options.DefaultStore(),
	}

	cmd := &cobra.Command{
		Use:     "query-year",
		Short:   "list records for a year, highest CVSS first",
		Args:    cobra.NoArgs,
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runQueryYear(cfg)
		},
	}

	commonConfiguration(cmd, &cfg)

	if err := cmd.MarkFlagRequired("year"); err != nil {
		panic(err)
	}

	return cmd
}

func runQueryYear(cfg queryYearConfig) error {
	store, cleanup, err := sqlite.New(cfg.Store.Path, false)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer cleanup()

	summaries, err := store.RecordsByYear(cfg.Year)
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		fmt.Println(formatYearSummary(summary))
	}

	return nil
}

func formatYearSummary(summary cvedb.YearSummary) string {
	cvss := "-"
	if summary.CVSS != nil {
		cvss = fmt.Sprintf("%.1f", *summary.CVSS)
	}
	description := ""
	if summary.Description != nil {
		description = *summary.Description
	}
	return fmt.Sprintf("%s: CVSS=%s - %s", summary.CVEID, cvss, description)
}
