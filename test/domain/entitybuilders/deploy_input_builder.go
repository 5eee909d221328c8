//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/forgepreview/internal/domain/commands"
	"github.com/rios0rios0/forgepreview/internal/domain/entities"
)

// DeployInputBuilder helps create deploy inputs with a fluent interface.
type DeployInputBuilder struct {
	*testkit.BaseBuilder
	flags   entities.ParameterFlags
	options entities.DeployOptions
}

// NewDeployInputBuilder creates a new deploy input builder with sensible defaults:
// every required parameter is set and the database password is fixed.
func NewDeployInputBuilder() *DeployInputBuilder {
	return &DeployInputBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		flags:       defaultFlags(),
		options:     defaultOptions(),
	}
}

func defaultFlags() entities.ParameterFlags {
	return entities.ParameterFlags{
		Token:            "forge-token",
		Server:           "42",
		Provider:         "github",
		Repository:       "acme/shop",
		Branch:           "pr12-feature",
		Domain:           "pr-12.example.com",
		DatabasePassword: "s3cr3t-passw0rd!",
	}
}

func defaultOptions() entities.DeployOptions {
	return entities.DeployOptions{PHPVersion: entities.DefaultPHPVersion}
}

// WithBranch sets the branch flag.
func (b *DeployInputBuilder) WithBranch(branch string) *DeployInputBuilder {
	b.flags.Branch = branch
	return b
}

// WithDomain sets the domain flag.
func (b *DeployInputBuilder) WithDomain(domain string) *DeployInputBuilder {
	b.flags.Domain = domain
	return b
}

// WithFlags replaces every parameter flag.
func (b *DeployInputBuilder) WithFlags(flags entities.ParameterFlags) *DeployInputBuilder {
	b.flags = flags
	return b
}

// WithOptions replaces every deploy option.
func (b *DeployInputBuilder) WithOptions(options entities.DeployOptions) *DeployInputBuilder {
	b.options = options
	return b
}

// WithNoDatabase disables database management.
func (b *DeployInputBuilder) WithNoDatabase() *DeployInputBuilder {
	b.options.NoDatabase = true
	return b
}

// WithEditEnv adds KEY:VALUE overrides.
func (b *DeployInputBuilder) WithEditEnv(pairs ...string) *DeployInputBuilder {
	b.options.EditEnv = append(b.options.EditEnv, pairs...)
	return b
}

// WithStagingEnv sets the raw staging overrides.
func (b *DeployInputBuilder) WithStagingEnv(staging string) *DeployInputBuilder {
	b.options.StagingEnv = staging
	return b
}

// WithWildcard enables wildcard subdomains with the given Route 53 credentials.
func (b *DeployInputBuilder) WithWildcard(key, secret string) *DeployInputBuilder {
	b.options.Wildcard = true
	b.options.Route53Key = key
	b.options.Route53Secret = secret
	return b
}

// Build creates the deploy input (satisfies testkit.Builder interface).
func (b *DeployInputBuilder) Build() interface{} {
	return b.BuildDeployInput()
}

// BuildDeployInput creates the deploy input with a concrete return type.
func (b *DeployInputBuilder) BuildDeployInput() commands.DeployInput {
	options := b.options
	options.EditEnv = append([]string(nil), b.options.EditEnv...)
	return commands.DeployInput{Flags: b.flags, Options: options}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DeployInputBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.flags = defaultFlags()
	b.options = defaultOptions()
	return b
}

// Clone creates a deep copy of the DeployInputBuilder.
func (b *DeployInputBuilder) Clone() testkit.Builder {
	clone := &DeployInputBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		flags:       b.flags,
		options:     b.options,
	}
	clone.options.EditEnv = append([]string(nil), b.options.EditEnv...)
	return clone
}
