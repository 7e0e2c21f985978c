package cli

import (
	"github.com/spf13/cobra"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
	"github.com/cverdb/cverdb/cmd/cverdb/cli/commands"
)

type config struct {
	app *application.Application
}

type Option func(*config)

func WithApplication(app *application.Application) Option {
	return func(config *config) {
		config.app = app
	}
}

func New(opts ...Option) *cobra.Command {
	cfg := &config{
		app: application.New(),
	}
	for _, fn := range opts {
		fn(cfg)
	}

	app := cfg.app

	root := commands.Root(app)
	root.AddCommand(commands.Version(app))
	root.AddCommand(commands.Init(app))
	root.AddCommand(commands.Import(app))
	root.AddCommand(commands.Refresh(app))
	root.AddCommand(commands.QueryYear(app))
	root.AddCommand(commands.TopVendors(app))
	root.AddCommand(commands.CountsCmd(app))
	root.AddCommand(commands.Serve(app))

	return root
}
