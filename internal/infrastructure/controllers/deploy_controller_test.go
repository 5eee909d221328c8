//go:build unit

package controllers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
	"github.com/rios0rios0/forgepreview/internal/infrastructure/controllers"
	"github.com/rios0rios0/forgepreview/test/domain/commanddoubles"
)

func newDeployCobra(t *testing.T, ctrl *controllers.DeployController, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: ctrl.GetBind().Use}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("verbose", false, "")
	ctrl.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDeployControllerGetBind(t *testing.T) {
	t.Parallel()

	// when
	bind := controllers.NewDeployController(&commanddoubles.StubDeployCommand{}).GetBind()

	// then
	assert.Equal(t, "deploy", bind.Use)
	assert.NotEmpty(t, bind.Short)
	assert.Contains(t, bind.Long, "FORGE_TOKEN")
}

func TestDeployControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the flags to the command", func(t *testing.T) {
		t.Parallel()
		// given
		stub := &commanddoubles.StubDeployCommand{}
		ctrl := controllers.NewDeployController(stub)
		settings := writeFile(t, "settings.yaml", "php_version: php82\n")
		cmd := newDeployCobra(t, ctrl,
			"--config", settings,
			"--token", "tok", "--server", "42", "--repo", "acme/shop", "--branch", "main",
			"--domain", "{branch}.example.com", "--edit-env", "A:1", "--edit-env", "B:2",
			"--scheduler", "--no-db", "--ci", "--staging-env", "",
		)

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, entities.ParameterFlags{
			Token:      "tok",
			Server:     "42",
			Provider:   "github",
			Repository: "acme/shop",
			Branch:     "main",
			Domain:     "{branch}.example.com",
		}, stub.LastInput.Flags)
		assert.Equal(t, "php82", stub.LastInput.Options.PHPVersion)
		assert.Equal(t, []string{"A:1", "B:2"}, stub.LastInput.Options.EditEnv)
		assert.True(t, stub.LastInput.Options.Scheduler)
		assert.True(t, stub.LastInput.Options.NoDatabase)
		assert.True(t, stub.LastInput.Options.CI)
		assert.False(t, stub.LastInput.Options.Wildcard)
	})

	t.Run("should wrap command failures", func(t *testing.T) {
		t.Parallel()
		// given
		failure := errors.New("boom")
		stub := &commanddoubles.StubDeployCommand{ExecuteErr: failure}
		ctrl := controllers.NewDeployController(stub)
		settings := writeFile(t, "settings.yaml", "")
		cmd := newDeployCobra(t, ctrl, "--config", settings, "--staging-env", "")

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.ErrorIs(t, err, failure)
		assert.Contains(t, err.Error(), "deploy failed")
	})

	t.Run("should fail for an unreadable settings file", func(t *testing.T) {
		t.Parallel()
		// given
		stub := &commanddoubles.StubDeployCommand{}
		ctrl := controllers.NewDeployController(stub)
		cmd := newDeployCobra(t, ctrl, "--config", filepath.Join(t.TempDir(), "missing.yaml"))

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.Zero(t, stub.ExecuteCallCount)
	})
}

func TestBuildDeployInput(t *testing.T) {
	t.Parallel()

	t.Run("should fill unset flags from the settings", func(t *testing.T) {
		t.Parallel()
		// given
		ctrl := controllers.NewDeployController(&commanddoubles.StubDeployCommand{})
		cmd := newDeployCobra(t, ctrl, "--staging-env", "")
		settings := &entities.Settings{
			Token:         "settings-token",
			Server:        "7",
			Domain:        "{branch}.preview.test",
			Provider:      "gitlab",
			PHPVersion:    "php83",
			APIURL:        "https://forge.test/api/v1",
			Timeout:       15,
			SetupCommands: []string{"setup"},
			Commands:      []string{"cmd"},
			EditEnv:       []string{"APP_ENV:preview"},
			NginxTemplate: "3",
		}

		// when
		input, err := controllers.BuildDeployInput(cmd, settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, "settings-token", input.Flags.Token)
		assert.Equal(t, "7", input.Flags.Server)
		assert.Equal(t, "{branch}.preview.test", input.Flags.Domain)
		assert.Equal(t, "gitlab", input.Flags.Provider)
		assert.Equal(t, "php83", input.Options.PHPVersion)
		assert.Equal(t, "https://forge.test/api/v1", input.Options.APIURL)
		assert.Equal(t, 15*time.Second, input.Options.Timeout)
		assert.Equal(t, []string{"setup"}, input.Options.SetupCommands)
		assert.Equal(t, []string{"cmd"}, input.Options.Commands)
		assert.Equal(t, []string{"APP_ENV:preview"}, input.Options.EditEnv)
		assert.Equal(t, "3", input.Options.NginxTemplate)
	})

	t.Run("should let explicit flags win over the settings", func(t *testing.T) {
		t.Parallel()
		// given
		ctrl := controllers.NewDeployController(&commanddoubles.StubDeployCommand{})
		cmd := newDeployCobra(t, ctrl,
			"--staging-env", "", "--token", "flag-token", "--php-version", "php80", "--command", "flag-cmd")
		settings := &entities.Settings{Token: "settings-token", PHPVersion: "php83", Commands: []string{"cmd"}}

		// when
		input, err := controllers.BuildDeployInput(cmd, settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, "flag-token", input.Flags.Token)
		assert.Equal(t, "php80", input.Options.PHPVersion)
		assert.Equal(t, []string{"flag-cmd"}, input.Options.Commands)
	})

	t.Run("should load the deployment script and staging overrides from files", func(t *testing.T) {
		t.Parallel()
		// given
		script := writeFile(t, "deploy.sh", "cd {domain}\n")
		staging := writeFile(t, ".env.staging", "APP_ENV=staging\n")
		ctrl := controllers.NewDeployController(&commanddoubles.StubDeployCommand{})
		cmd := newDeployCobra(t, ctrl, "--deployment-script", "@"+script, "--staging-env", staging)

		// when
		input, err := controllers.BuildDeployInput(cmd, &entities.Settings{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "cd {domain}\n", input.Options.DeploymentScript)
		assert.Equal(t, "APP_ENV=staging\n", input.Options.StagingEnv)
	})
}

func TestLoadDeploymentScript(t *testing.T) {
	t.Parallel()

	t.Run("should return an inline script unchanged", func(t *testing.T) {
		t.Parallel()
		// when
		script, err := controllers.LoadDeploymentScript("git pull && php artisan migrate")

		// then
		require.NoError(t, err)
		assert.Equal(t, "git pull && php artisan migrate", script)
	})

	t.Run("should fail for a missing script file", func(t *testing.T) {
		t.Parallel()
		// when
		_, err := controllers.LoadDeploymentScript("@" + filepath.Join(t.TempDir(), "missing.sh"))

		// then
		require.ErrorIs(t, err, entities.ErrInvalidConfiguration)
	})
}

func TestLoadStagingEnv(t *testing.T) {
	t.Parallel()

	t.Run("should ignore a missing default file", func(t *testing.T) {
		t.Parallel()
		// when
		content, err := controllers.LoadStagingEnv(filepath.Join(t.TempDir(), ".env.staging"), false)

		// then
		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("should fail for a missing explicit file", func(t *testing.T) {
		t.Parallel()
		// when
		_, err := controllers.LoadStagingEnv(filepath.Join(t.TempDir(), "custom.env"), true)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidConfiguration)
	})

	t.Run("should return nothing for an empty path", func(t *testing.T) {
		t.Parallel()
		// when
		content, err := controllers.LoadStagingEnv("", true)

		// then
		require.NoError(t, err)
		assert.Empty(t, content)
	})
}
