package entities

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	envToken            = "FORGE_TOKEN"
	envServer           = "FORGE_SERVER"
	envRepository       = "FORGE_REPO"
	envBranch           = "FORGE_BRANCH"
	envDomain           = "FORGE_DOMAIN"
	envName             = "FORGE_NAME"
	envDatabaseDatabase = "FORGE_DB_DATABASE"
	envDatabaseUser     = "FORGE_DB_USERNAME"
	envDatabasePass     = "FORGE_DB_PASSWORD"

	// DefaultProvider is the git provider used when none is given.
	DefaultProvider = "github"
	// DefaultDatabaseUsername is the database user created when none is given.
	DefaultDatabaseUsername = "forge"

	passwordLength = 16
)

//nolint:gochecknoglobals // fixed set accepted by the remote platform
var supportedProviders = []string{"github", "gitlab", "gitlab-custom", "bitbucket", "custom"}

var hostnamePattern = regexp.MustCompile(
	`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`,
)

// EnvLookup reads a single process environment variable.
type EnvLookup func(name string) (string, bool)

// DatabaseSpec is the database the preview deployment uses.
type DatabaseSpec struct {
	Name     string
	Username string
	Password string
}

// DeploymentParameters identifies one preview deployment. It is resolved once
// per run and never modified afterwards.
type DeploymentParameters struct {
	Domain     string
	Branch     string
	Repository string
	Provider   string
	Server     string
	Token      string
	Name       string
	Database   DatabaseSpec
}

// ParameterFlags holds the raw CLI values the parameters are resolved from.
type ParameterFlags struct {
	Token            string
	Server           string
	Provider         string
	Repository       string
	Branch           string
	Domain           string
	Name             string
	DatabaseName     string
	DatabaseUsername string
	DatabasePassword string
}

// ParameterFallback holds values detected from the local checkout. They are
// only used when neither the environment nor the CLI provide a value.
type ParameterFallback struct {
	Repository string
	Branch     string
}

// ParameterResolver merges the process environment and the CLI values into
// DeploymentParameters. Environment values take precedence over CLI values.
type ParameterResolver struct {
	lookup           EnvLookup
	generatePassword func(length int) (string, error)
}

// NewParameterResolver creates a resolver reading the environment through lookup.
func NewParameterResolver(lookup EnvLookup) *ParameterResolver {
	return &ParameterResolver{
		lookup:           lookup,
		generatePassword: GeneratePassword,
	}
}

// Resolve builds the DeploymentParameters. It returns ErrMissingRequiredValue
// when token, server, repository, branch or domain cannot be determined, and
// ErrInvalidConfiguration when the provider or domain is malformed.
func (it *ParameterResolver) Resolve(
	flags ParameterFlags,
	fallback ParameterFallback,
) (DeploymentParameters, error) {
	params := DeploymentParameters{
		Token:      it.value(envToken, flags.Token),
		Server:     it.value(envServer, flags.Server),
		Repository: it.value(envRepository, firstNonEmpty(flags.Repository, fallback.Repository)),
		Branch:     it.value(envBranch, firstNonEmpty(flags.Branch, fallback.Branch)),
		Provider:   firstNonEmpty(flags.Provider, DefaultProvider),
	}

	required := []struct {
		name, env, flag, value string
	}{
		{"token", envToken, "--token", params.Token},
		{"server", envServer, "--server", params.Server},
		{"repository", envRepository, "--repo", params.Repository},
		{"branch", envBranch, "--branch", params.Branch},
	}
	for _, field := range required {
		if field.value == "" {
			return DeploymentParameters{}, fmt.Errorf(
				"%w: %s (set %s or %s)", ErrMissingRequiredValue, field.name, field.env, field.flag,
			)
		}
	}

	if !slices.Contains(supportedProviders, params.Provider) {
		return DeploymentParameters{}, fmt.Errorf(
			"%w: unsupported provider %q (expected one of %s)",
			ErrInvalidConfiguration, params.Provider, strings.Join(supportedProviders, ", "),
		)
	}

	domain, err := it.resolveDomain(flags.Domain, params.Branch)
	if err != nil {
		return DeploymentParameters{}, err
	}
	params.Domain = domain
	params.Name = it.value(envName, firstNonEmpty(flags.Name, params.Branch))

	database, err := it.resolveDatabase(flags, params.Branch)
	if err != nil {
		return DeploymentParameters{}, err
	}
	params.Database = database

	return params, nil
}

func (it *ParameterResolver) resolveDomain(flag, branch string) (string, error) {
	domain := it.value(envDomain, flag)
	if domain == "" {
		return "", fmt.Errorf(
			"%w: domain (set %s or --domain)", ErrMissingRequiredValue, envDomain,
		)
	}

	domain = strings.ToLower(strings.ReplaceAll(domain, placeholderBranch, Slugify(branch, "-")))
	if !hostnamePattern.MatchString(domain) {
		return "", fmt.Errorf("%w: %q is not a valid domain", ErrInvalidConfiguration, domain)
	}

	return domain, nil
}

func (it *ParameterResolver) resolveDatabase(flags ParameterFlags, branch string) (DatabaseSpec, error) {
	spec := DatabaseSpec{
		Name:     it.value(envDatabaseDatabase, flags.DatabaseName),
		Username: it.value(envDatabaseUser, firstNonEmpty(flags.DatabaseUsername, DefaultDatabaseUsername)),
		Password: it.value(envDatabasePass, flags.DatabasePassword),
	}

	if spec.Name == "" {
		spec.Name = DatabaseNameFromBranch(branch)
	}
	if spec.Name == "" {
		return DatabaseSpec{}, fmt.Errorf(
			"%w: cannot derive a database name from branch %q", ErrInvalidConfiguration, branch,
		)
	}

	if spec.Password == "" {
		password, err := it.generatePassword(passwordLength)
		if err != nil {
			return DatabaseSpec{}, fmt.Errorf("failed to generate database password: %w", err)
		}
		spec.Password = password
	}

	return spec, nil
}

// value returns the environment value for name when it is set and not empty,
// otherwise the given CLI value.
func (it *ParameterResolver) value(name, cli string) string {
	if it.lookup != nil {
		if env, ok := it.lookup(name); ok && env != "" {
			return env
		}
	}
	return cli
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
