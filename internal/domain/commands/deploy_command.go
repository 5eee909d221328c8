package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
	"github.com/rios0rios0/forgepreview/internal/domain/repositories"
)

const (
	projectType       = "php"
	webDirectory      = "/public"
	dnsProviderRoute  = "route53"
	jobFrequency      = "minutely"
	defaultSiteUser   = "forge"
	schedulerCommand  = "php /home/%s/%s/artisan schedule:run"
	outputDomainKey   = "domain"
	outputDatabaseKey = "database"
)

// Deploy is the interface for the deploy command.
type Deploy interface {
	Execute(ctx context.Context, input DeployInput) error
}

// DeployInput holds the raw values of a single deploy invocation.
type DeployInput struct {
	Flags   entities.ParameterFlags
	Options entities.DeployOptions
}

// DeployCommand provisions or updates a preview deployment:
// resolve parameters -> site -> deployment script -> database -> env file ->
// deploy -> site commands -> scheduler. Every step is find-or-create, so a
// failed run is recovered by running it again.
type DeployCommand struct {
	resolver     *entities.ParameterResolver
	forgeFactory repositories.ForgeFactory
	git          repositories.GitRepository
	output       repositories.OutputRepository
}

// NewDeployCommand creates a new DeployCommand.
func NewDeployCommand(
	resolver *entities.ParameterResolver,
	forgeFactory repositories.ForgeFactory,
	git repositories.GitRepository,
	output repositories.OutputRepository,
) *DeployCommand {
	return &DeployCommand{
		resolver:     resolver,
		forgeFactory: forgeFactory,
		git:          git,
		output:       output,
	}
}

// Execute validates the input, resolves the deployment parameters and runs
// every deploy step in order. It stops at the first failure.
func (it *DeployCommand) Execute(ctx context.Context, input DeployInput) error {
	opts := input.Options
	if err := opts.Validate(); err != nil {
		return err
	}

	overrides, err := entities.ParseEnvOverrides(opts.StagingEnv, opts.EditEnv)
	if err != nil {
		return err
	}

	params, err := it.resolver.Resolve(input.Flags, it.detectFallback(ctx, opts.GitDir))
	if err != nil {
		return err
	}

	if opts.PHPVersion == "" {
		opts.PHPVersion = entities.DefaultPHPVersion
	}
	if opts.Timeout == 0 {
		opts.Timeout = entities.DefaultTimeout
	}

	forge := it.forgeFactory(repositories.ForgeConnection{
		Token:   params.Token,
		BaseURL: opts.APIURL,
		Timeout: opts.Timeout,
	})

	run := &deployRun{
		forge:     forge,
		output:    it.output,
		params:    params,
		opts:      opts,
		overrides: overrides,
	}
	return run.execute(ctx)
}

// detectFallback reads the branch and repository from the local checkout when
// a git directory was given. Failures are not fatal: the resolver reports the
// missing value if nothing else provides it.
func (it *DeployCommand) detectFallback(ctx context.Context, dir string) entities.ParameterFallback {
	var fallback entities.ParameterFallback
	if dir == "" || it.git == nil {
		return fallback
	}

	branch, err := it.git.CurrentBranch(ctx, dir)
	if err != nil {
		logger.Warnf("Could not detect the branch from %q: %v", dir, err)
	} else {
		fallback.Branch = branch
	}

	repository, err := it.git.RemoteRepository(ctx, dir)
	if err != nil {
		logger.Warnf("Could not detect the repository from %q: %v", dir, err)
	} else {
		fallback.Repository = repository
	}

	return fallback
}

// deployRun carries the state of one deploy invocation.
type deployRun struct {
	forge     repositories.ForgeRepository
	output    repositories.OutputRepository
	params    entities.DeploymentParameters
	opts      entities.DeployOptions
	overrides []entities.EnvOverride
	serverID  string
}

func (r *deployRun) execute(ctx context.Context) error {
	server, err := r.forge.GetServer(ctx, r.params.Server)
	if err != nil {
		if !errors.Is(err, entities.ErrServerNotFound) {
			err = fmt.Errorf("%w: %w", entities.ErrServerNotFound, err)
		}
		return fmt.Errorf("failed to find server %q: %w", r.params.Server, err)
	}
	r.serverID = r.params.Server
	logger.Debugf("Using server %s (%s)", server.Name, server.IPAddress)

	r.announce(outputDomainKey, r.params.Domain)

	site, err := r.ensureSite(ctx)
	if err != nil {
		return err
	}

	if r.opts.DeploymentScript != "" {
		logger.Info("Updating deployment script")
		script := entities.ExpandTemplate(r.opts.DeploymentScript, r.params)
		if scriptErr := r.forge.UpdateDeploymentScript(ctx, r.serverID, site.ID, script); scriptErr != nil {
			return fmt.Errorf("failed to update deployment script: %w", scriptErr)
		}
	}

	databaseCreated := false
	if !r.opts.NoDatabase {
		r.announce(outputDatabaseKey, r.params.Database.Name)
		databaseCreated, err = r.ensureDatabase(ctx)
		if err != nil {
			return err
		}
	}

	if err = r.patchEnvironment(ctx, site, databaseCreated); err != nil {
		return err
	}

	if !r.opts.NoDeploy {
		logger.Info("Deploying")
		if deployErr := r.forge.DeploySite(ctx, r.serverID, site.ID); deployErr != nil {
			return fmt.Errorf("failed to deploy site: %w", deployErr)
		}
	}

	for i, command := range r.opts.Commands {
		if i == 0 {
			logger.Info("Executing site command(s)")
		}
		if cmdErr := r.forge.ExecuteSiteCommand(ctx, r.serverID, site.ID, command); cmdErr != nil {
			return fmt.Errorf("failed to execute site command %q: %w", command, cmdErr)
		}
	}

	if r.opts.Scheduler {
		if err = r.ensureScheduledJob(ctx); err != nil {
			return err
		}
	}

	logger.Infof("Preview deployment for %s is ready", r.params.Domain)
	return nil
}

func (r *deployRun) ensureSite(ctx context.Context) (entities.Site, error) {
	result, err := entities.Reconcile(
		ctx,
		r.params.Domain,
		func(ctx context.Context) ([]entities.Site, error) {
			return r.forge.ListSites(ctx, r.serverID)
		},
		entities.SiteDomain,
		r.createSite,
	)
	if err != nil {
		return entities.Site{}, err
	}

	if !result.Created {
		logger.Info("Found existing site.")
	}
	return result.Resource, nil
}

func (r *deployRun) createSite(ctx context.Context) (entities.Site, error) {
	logger.Infof("Creating site with domain %s", r.params.Domain)

	input := entities.SiteInput{
		Domain:      r.params.Domain,
		ProjectType: projectType,
		PHPVersion:  r.opts.PHPVersion,
		Directory:   webDirectory,
		Wildcards:   r.opts.Wildcard,
	}
	if r.opts.Isolate {
		logger.Info("Enabling site isolation")
		input.Isolation = true
		input.Username = entities.IsolationUsername(r.params.Branch)
	}
	if r.opts.NginxTemplate != "" {
		logger.Info("Using custom nginx template")
		input.NginxTemplate = r.opts.NginxTemplate
	}

	site, err := r.forge.CreateSite(ctx, r.serverID, input)
	if err != nil {
		return entities.Site{}, fmt.Errorf("failed to create site: %w", err)
	}

	logger.Info("Installing Git repository")
	if err = r.forge.InstallGitRepository(ctx, r.serverID, site.ID, entities.RepositoryInput{
		Provider:   r.params.Provider,
		Repository: r.params.Repository,
		Branch:     r.params.Branch,
		Composer:   true,
	}); err != nil {
		return entities.Site{}, fmt.Errorf("failed to install git repository: %w", err)
	}

	if !r.opts.NoQuickDeploy {
		logger.Info("Enabling quick deploy")
		if err = r.forge.EnableQuickDeploy(ctx, r.serverID, site.ID); err != nil {
			return entities.Site{}, fmt.Errorf("failed to enable quick deploy: %w", err)
		}
	}

	for i, command := range r.opts.SetupCommands {
		if i == 0 {
			logger.Info("Executing set up command(s)")
		}
		logger.Infof("Executing: %s", command)
		if err = r.forge.ExecuteSiteCommand(ctx, r.serverID, site.ID, command); err != nil {
			return entities.Site{}, fmt.Errorf("failed to execute set up command %q: %w", command, err)
		}
	}

	logger.Info("Generating SSL certificate")
	if err = r.forge.ObtainCertificate(ctx, r.serverID, site.ID, r.certificateInput()); err != nil {
		return entities.Site{}, fmt.Errorf("failed to obtain certificate: %w", err)
	}

	return site, nil
}

func (r *deployRun) certificateInput() entities.CertificateInput {
	if !r.opts.Wildcard {
		return entities.CertificateInput{Domains: []string{r.params.Domain}}
	}
	return entities.CertificateInput{
		Domains: []string{"*." + r.params.Domain},
		DNSProvider: &entities.DNSProvider{
			Type:          dnsProviderRoute,
			Route53Key:    r.opts.Route53Key,
			Route53Secret: r.opts.Route53Secret,
		},
	}
}

// ensureDatabase reports whether the database was created during this run.
func (r *deployRun) ensureDatabase(ctx context.Context) (bool, error) {
	database := r.params.Database
	result, err := entities.Reconcile(
		ctx,
		database.Name,
		func(ctx context.Context) ([]entities.Database, error) {
			return r.forge.ListDatabases(ctx, r.serverID)
		},
		entities.DatabaseName,
		func(ctx context.Context) (entities.Database, error) {
			logger.Info("Creating database")
			created, createErr := r.forge.CreateDatabase(ctx, r.serverID, entities.DatabaseInput{
				Name:     database.Name,
				User:     database.Username,
				Password: database.Password,
			})
			if createErr != nil {
				return entities.Database{}, fmt.Errorf("failed to create database: %w", createErr)
			}
			return created, nil
		},
	)
	if err != nil {
		return false, err
	}

	if !result.Created {
		logger.Info("Database already exists.")
	}
	return result.Created, nil
}

// patchEnvironment fetches the env file once, writes the database credentials
// of a freshly created database and every override in order, then writes the
// file back once.
func (r *deployRun) patchEnvironment(ctx context.Context, site entities.Site, databaseCreated bool) error {
	if !databaseCreated && len(r.overrides) == 0 {
		return nil
	}

	logger.Info("Updating environment variables")

	blob, err := r.forge.GetEnvironmentFile(ctx, r.serverID, site.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch environment file: %w", err)
	}

	if databaseCreated {
		blob = entities.PatchDatabaseCredentials(blob, r.params.Database)
	}
	for _, override := range r.overrides {
		blob = entities.PatchEnv(blob, override.Key, entities.ExpandTemplate(override.Value, r.params))
	}

	if err = r.forge.UpdateEnvironmentFile(ctx, r.serverID, site.ID, blob); err != nil {
		return fmt.Errorf("failed to update environment file: %w", err)
	}
	return nil
}

func (r *deployRun) ensureScheduledJob(ctx context.Context) error {
	user := defaultSiteUser
	if r.opts.Isolate {
		user = entities.IsolationUsername(r.params.Branch)
	}
	command := fmt.Sprintf(schedulerCommand, user, r.params.Domain)

	result, err := entities.Reconcile(
		ctx,
		command,
		func(ctx context.Context) ([]entities.Job, error) {
			return r.forge.ListJobs(ctx, r.serverID)
		},
		entities.JobCommand,
		func(ctx context.Context) (entities.Job, error) {
			logger.Info("Creating scheduler job")
			created, createErr := r.forge.CreateJob(ctx, r.serverID, entities.JobInput{
				Command:   command,
				Frequency: jobFrequency,
				User:      user,
			})
			if createErr != nil {
				return entities.Job{}, fmt.Errorf("failed to create scheduler job: %w", createErr)
			}
			return created, nil
		},
	)
	if err != nil {
		return err
	}

	if !result.Created {
		logger.Info("Scheduler job already exists")
	}
	return nil
}

func (r *deployRun) announce(key, value string) {
	if !r.opts.CI || r.output == nil {
		return
	}
	if err := r.output.Announce(key, value); err != nil {
		logger.Warnf("Failed to publish CI output %q: %v", key, err)
	}
}
