//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
)

func TestParseEnvOverrides(t *testing.T) {
	t.Parallel()

	t.Run("should list staging lines before CLI pairs", func(t *testing.T) {
		t.Parallel()
		// given
		staging := "APP_ENV=staging\nAPP_DEBUG=true\n"
		pairs := []string{"APP_URL:https://{domain}", "APP_ENV:preview"}

		// when
		overrides, err := entities.ParseEnvOverrides(staging, pairs)

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.EnvOverride{
			{Key: "APP_ENV", Value: "staging"},
			{Key: "APP_DEBUG", Value: "true"},
			{Key: "APP_URL", Value: "https://{domain}"},
			{Key: "APP_ENV", Value: "preview"},
		}, overrides)
	})

	t.Run("should split only on the first separator", func(t *testing.T) {
		t.Parallel()
		// when
		overrides, err := entities.ParseEnvOverrides("DSN=mysql://u:p@h/db?x=1", []string{"REDIS_URL:redis://h:6379"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.EnvOverride{
			{Key: "DSN", Value: "mysql://u:p@h/db?x=1"},
			{Key: "REDIS_URL", Value: "redis://h:6379"},
		}, overrides)
	})

	t.Run("should skip blank lines comments and malformed staging lines", func(t *testing.T) {
		t.Parallel()
		// given
		staging := "\n# comment\nNOT_A_PAIR\n\nKEY=value\n"

		// when
		overrides, err := entities.ParseEnvOverrides(staging, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.EnvOverride{{Key: "KEY", Value: "value"}}, overrides)
	})

	t.Run("should accept an empty value", func(t *testing.T) {
		t.Parallel()
		// when
		overrides, err := entities.ParseEnvOverrides("", []string{"MAIL_PASSWORD:"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.EnvOverride{{Key: "MAIL_PASSWORD", Value: ""}}, overrides)
	})

	t.Run("should reject a CLI pair without separator", func(t *testing.T) {
		t.Parallel()
		// when
		overrides, err := entities.ParseEnvOverrides("", []string{"APP_ENV=staging"})

		// then
		require.ErrorIs(t, err, entities.ErrInvalidConfiguration)
		assert.Nil(t, overrides)
	})

	t.Run("should return nothing without input", func(t *testing.T) {
		t.Parallel()
		// when
		overrides, err := entities.ParseEnvOverrides("", nil)

		// then
		require.NoError(t, err)
		assert.Empty(t, overrides)
	})
}
