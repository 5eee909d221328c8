package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "forgepreview",
		Short: "Preview deployments of branches on Laravel Forge",
		Long: `Provision and update preview/staging sites on a Laravel Forge server
from a CI pipeline.

For every branch or pull request it makes sure a site, a database, the
site environment and a scheduler job exist, then triggers a deployment.
Running it again for the same branch updates the environment and deploys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to settings file (default: auto-detect)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

// newSubcommand exposes a controller as a cobra subcommand taking no
// positional arguments.
func newSubcommand(controller entities.Controller) *cobra.Command {
	bind := controller.GetBind()
	//nolint:exhaustruct // only the fields a subcommand needs
	sub := &cobra.Command{
		Use:   bind.Use,
		Short: bind.Short,
		Long:  bind.Long,
		Args:  cobra.NoArgs,
		RunE:  controller.Execute,
	}
	controller.AddFlags(sub)
	return sub
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	root := buildRootCommand()
	for _, controller := range injectAppContext().GetControllers() {
		root.AddCommand(newSubcommand(controller))
	}

	if err := root.Execute(); err != nil {
		logger.Fatalf("forgepreview: %s", err)
	}
}
