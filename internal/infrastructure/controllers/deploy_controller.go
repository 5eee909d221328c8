package controllers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/forgepreview/internal/domain/commands"
	"github.com/rios0rios0/forgepreview/internal/domain/entities"
)

const (
	defaultStagingEnv = ".env.staging"
	scriptFilePrefix  = "@"
)

// DeployController handles the "deploy" subcommand.
type DeployController struct {
	command commands.Deploy
}

// NewDeployController creates a new DeployController.
func NewDeployController(command commands.Deploy) *DeployController {
	return &DeployController{command: command}
}

// GetBind returns the Cobra command metadata for the deploy controller.
func (it *DeployController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "deploy",
		Short: "Deploy a branch / pull request to Laravel Forge",
		Long: `Create or update the preview site of a branch on a Forge server.

The site, its database and its scheduler job are created only when they
do not exist yet, so running the command again for the same branch is safe.
Every FORGE_* environment variable (FORGE_TOKEN, FORGE_SERVER, FORGE_REPO,
FORGE_BRANCH, FORGE_DOMAIN, FORGE_NAME, FORGE_DB_DATABASE, FORGE_DB_USERNAME,
FORGE_DB_PASSWORD) takes precedence over the matching flag.`,
	}
}

// AddFlags adds the deploy-specific flags to the given Cobra command.
func (it *DeployController) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("token", "", "The Forge API token")
	flags.String("server", "", "The ID of the target server")
	flags.String("provider", entities.DefaultProvider, "The Git provider")
	flags.String("repo", "", "The name of the repository being deployed")
	flags.String("branch", "", "The name of the branch being deployed")
	flags.String("domain", "", "The domain you'd like to use for deployments ({branch} is replaced)")
	flags.String("name", "", "The unique name of the deployment (defaults to the branch)")
	flags.String("php-version", entities.DefaultPHPVersion, "The PHP version the site should use, e.g. php81, php80")
	flags.StringArray("setup-command", nil, "A command to execute after configuring the git repository")
	flags.StringArray("command", nil, "A command to execute on the site, e.g. php artisan db:seed")
	flags.StringArray("edit-env", nil,
		`A colon-separated name and value added/updated in the site's environment, e.g. "MY_API_KEY:my_api_key_value"`)
	flags.String("deployment-script", "", "The deployment script to use, or @path to read it from a file")
	flags.String("staging-env", defaultStagingEnv, "File with KEY=VALUE overrides applied before --edit-env")
	flags.String("git-dir", "", "Local checkout used to detect the branch and repository")
	flags.Bool("scheduler", false, "Setup a cronjob to run Laravel's scheduler")
	flags.Bool("isolate", false, "Enable site isolation")
	flags.Bool("ci", false, "Add additional output for your CI provider")
	flags.Bool("no-quick-deploy", false, `Create your site without "Quick Deploy"`)
	flags.Bool("no-deploy", false, "Avoid deploying the site")
	flags.Bool("no-db", false, "Avoid creating a database")
	flags.Bool("wildcard", false, "Create a site with wildcard subdomains")
	flags.String("route-53-key", "", "AWS Route 53 key for the wildcard subdomains SSL certificate")
	flags.String("route-53-secret", "", "AWS Route 53 secret for the wildcard subdomains SSL certificate")
	flags.String("nginx-template", "", "The nginx template ID to use on the site")
	flags.String("db-database", "", "The database name (defaults to the branch slug)")
	flags.String("db-username", "", "The database user (defaults to forge)")
	flags.String("db-password", "", "The database password (defaults to a random one)")
}

// Execute runs the deploy.
func (it *DeployController) Execute(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	input, err := buildDeployInput(cmd, settings)
	if err != nil {
		return err
	}

	if execErr := it.command.Execute(ctx, input); execErr != nil {
		return fmt.Errorf("deploy failed: %w", execErr)
	}
	return nil
}

// loadSettings reads the settings file given by --config, or the first one
// found in the default locations. A missing default file is not an error.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No settings file: %v", err)
			return &entities.Settings{}, nil
		}
		configPath = found
	}

	logger.Infof("Using settings file: %s", configPath)
	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func buildDeployInput(cmd *cobra.Command, settings *entities.Settings) (commands.DeployInput, error) {
	flags := cmd.Flags()
	str := func(name string) string {
		value, _ := flags.GetString(name)
		return value
	}
	boolean := func(name string) bool {
		value, _ := flags.GetBool(name)
		return value
	}
	array := func(name string, fallback []string) []string {
		if !flags.Changed(name) && len(fallback) > 0 {
			return fallback
		}
		value, _ := flags.GetStringArray(name)
		return value
	}
	withDefault := func(name, fallback string) string {
		if !flags.Changed(name) && fallback != "" {
			return fallback
		}
		return str(name)
	}

	script, err := loadDeploymentScript(str("deployment-script"))
	if err != nil {
		return commands.DeployInput{}, err
	}

	staging, err := loadStagingEnv(str("staging-env"), flags.Changed("staging-env"))
	if err != nil {
		return commands.DeployInput{}, err
	}

	return commands.DeployInput{
		Flags: entities.ParameterFlags{
			Token:            withDefault("token", settings.Token),
			Server:           withDefault("server", settings.Server),
			Provider:         withDefault("provider", settings.Provider),
			Repository:       str("repo"),
			Branch:           str("branch"),
			Domain:           withDefault("domain", settings.Domain),
			Name:             str("name"),
			DatabaseName:     str("db-database"),
			DatabaseUsername: str("db-username"),
			DatabasePassword: str("db-password"),
		},
		Options: entities.DeployOptions{
			PHPVersion:       withDefault("php-version", settings.PHPVersion),
			SetupCommands:    array("setup-command", settings.SetupCommands),
			Commands:         array("command", settings.Commands),
			EditEnv:          array("edit-env", settings.EditEnv),
			StagingEnv:       staging,
			DeploymentScript: script,
			NginxTemplate:    withDefault("nginx-template", settings.NginxTemplate),
			Scheduler:        boolean("scheduler"),
			Isolate:          boolean("isolate"),
			CI:               boolean("ci"),
			NoQuickDeploy:    boolean("no-quick-deploy"),
			NoDeploy:         boolean("no-deploy"),
			NoDatabase:       boolean("no-db"),
			Wildcard:         boolean("wildcard"),
			Route53Key:       str("route-53-key"),
			Route53Secret:    str("route-53-secret"),
			APIURL:           settings.APIURL,
			Timeout:          settings.RequestTimeout(),
			GitDir:           str("git-dir"),
		},
	}, nil
}

// loadDeploymentScript returns the script as given, or the contents of the
// referenced file when the value starts with "@".
func loadDeploymentScript(value string) (string, error) {
	path, isFile := strings.CutPrefix(value, scriptFilePrefix)
	if !isFile {
		return value, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read deployment script %q: %w",
			entities.ErrInvalidConfiguration, path, err)
	}
	return string(data), nil
}

// loadStagingEnv reads the staging overrides file. The default file is
// optional; a file given explicitly must exist.
func loadStagingEnv(path string, explicit bool) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("%w: failed to read staging overrides %q: %w",
			entities.ErrInvalidConfiguration, path, err)
	}

	logger.Infof("Applying staging overrides from %s", path)
	return string(data), nil
}
