package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cverdb/cverdb/cmd/cverdb/application"
)

func Root(app *application.Application) *cobra.Command {
	appCfg := app.Config

	cmd := &cobra.Command{
		Use:     application.Name,
		Short:   "import CVE-style vulnerability records into a normalized sqlite store and query them",
		Version: application.ReadBuildInfo().Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	commonConfiguration(cmd, nil)

	cmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", application.Name))

	flags := cmd.PersistentFlags()

	flags.StringVarP(&appCfg.ConfigPath, "config", "c", "", "path to the application config")
	flags.CountVarP(&appCfg.Log.Verbosity, "verbose", "v", "increase verbosity (-v = debug, -vv = trace)")
	flags.BoolVarP(&appCfg.Log.Quiet, "quiet", "q", false, "suppress all logging output")

	return cmd
}
