package entities

import (
	"fmt"
	"time"
)

const (
	// DefaultPHPVersion is the PHP version new sites are created with.
	DefaultPHPVersion = "php81"
	// DefaultTimeout bounds every request sent to the remote platform.
	DefaultTimeout = 60 * time.Second
)

// DeployOptions holds everything about a deploy run that is not part of the
// deployment identity.
type DeployOptions struct {
	PHPVersion       string
	SetupCommands    []string
	Commands         []string
	EditEnv          []string
	StagingEnv       string // raw contents of the staging overrides file
	DeploymentScript string // script body, already loaded when given as @path
	NginxTemplate    string
	Scheduler        bool
	Isolate          bool
	CI               bool
	NoQuickDeploy    bool
	NoDeploy         bool
	NoDatabase       bool
	Wildcard         bool
	Route53Key       string
	Route53Secret    string
	APIURL           string
	Timeout          time.Duration
	GitDir           string
}

// Validate checks option combinations that must fail before any remote call.
func (o DeployOptions) Validate() error {
	if o.Wildcard && (o.Route53Key == "" || o.Route53Secret == "") {
		return fmt.Errorf(
			"%w: --route-53-key and --route-53-secret are required when the site has wildcard subdomains",
			ErrInvalidConfiguration,
		)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfiguration)
	}
	return nil
}
