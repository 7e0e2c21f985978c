package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
	"github.com/cverdb/cverdb/cmd/cverdb/cli/options"
	"github.com/cverdb/cverdb/internal/log"
	"github.com/cverdb/cverdb/internal/server"
	"github.com/cverdb/cverdb/pkg/store/sqlite"
)

var _ options.Interface = &serveConfig{}

type serveConfig struct {
	Store options.Store `yaml:"store" json:"store" mapstructure:"store"`
	Serve options.Serve `yaml:"serve" json:"serve" mapstructure:"serve"`
}

func (o *serveConfig) AddFlags(flags *pflag.FlagSet) {
	options.AddAllFlags(flags, &o.Store, &o.Serve)
}

func (o *serveConfig) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	return options.BindAllFlags(flags, v, &o.Store, &o.Serve)
}

func Serve(app *application.Application) *cobra.Command {
	cfg := serveConfig{
		Store: options.DefaultStore(),
		Serve: options.DefaultServe(),
	}

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "serve the record listing and detail views over HTTP",
		Args:    cobra.NoArgs,
		PreRunE: app.Setup(&cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(cfg)
		},
	}

	commonConfiguration(cmd, &cfg)

	return cmd
}

func runServe(cfg serveConfig) error {
	store, cleanup, err := sqlite.New(cfg.Store.Path, false)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer cleanup()

	addr := fmt.Sprintf("%s:%d", cfg.Serve.Host, cfg.Serve.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(store).Handler(),
	}

	log.WithFields("addr", addr, "db", cfg.Store.Path).Info("listening")

	return srv.ListenAndServe()
}
