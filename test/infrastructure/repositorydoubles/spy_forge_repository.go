//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. They are hand-written, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
	"github.com/rios0rios0/forgepreview/internal/domain/repositories"
)

// SpyForgeRepository implements repositories.ForgeRepository as a configurable spy.
// Calls records the name of every method invoked, in order.
type SpyForgeRepository struct {
	Calls []string

	// --- GetServer ---
	Server       *entities.Server
	GetServerErr error

	// --- sites ---
	Sites             []entities.Site
	ListSitesErr      error
	CreatedSite       entities.Site
	CreateSiteErr     error
	SiteInputs        []entities.SiteInput
	DeploymentScripts []string
	RepositoryInputs  []entities.RepositoryInput
	QuickDeployCount  int
	SiteCommands      []string
	SiteCommandErr    error
	CertificateInputs []entities.CertificateInput
	DeployCount       int
	DeployErr         error

	// --- env file ---
	EnvFile         string
	GetEnvErr       error
	EnvWrites       []string
	UpdateEnvErr    error
	EnvFetchedCount int

	// --- databases ---
	Databases         []entities.Database
	CreateDatabaseErr error
	DatabaseInputs    []entities.DatabaseInput

	// --- jobs ---
	Jobs      []entities.Job
	JobInputs []entities.JobInput

	// --- factory ---
	Connections []repositories.ForgeConnection
}

var _ repositories.ForgeRepository = (*SpyForgeRepository)(nil)

// Factory returns a ForgeFactory always handing out this spy.
func (s *SpyForgeRepository) Factory() repositories.ForgeFactory {
	return func(conn repositories.ForgeConnection) repositories.ForgeRepository {
		s.Connections = append(s.Connections, conn)
		return s
	}
}

func (s *SpyForgeRepository) record(call string) {
	s.Calls = append(s.Calls, call)
}

func (s *SpyForgeRepository) GetServer(_ context.Context, serverID string) (*entities.Server, error) {
	s.record("GetServer")
	if s.GetServerErr != nil {
		return nil, s.GetServerErr
	}
	if s.Server != nil {
		return s.Server, nil
	}
	return &entities.Server{ID: 1, Name: "server-" + serverID, IPAddress: "127.0.0.1"}, nil
}

func (s *SpyForgeRepository) ListSites(_ context.Context, _ string) ([]entities.Site, error) {
	s.record("ListSites")
	return s.Sites, s.ListSitesErr
}

func (s *SpyForgeRepository) CreateSite(
	_ context.Context, _ string, input entities.SiteInput,
) (entities.Site, error) {
	s.record("CreateSite")
	s.SiteInputs = append(s.SiteInputs, input)
	if s.CreateSiteErr != nil {
		return entities.Site{}, s.CreateSiteErr
	}
	if s.CreatedSite.ID != 0 {
		return s.CreatedSite, nil
	}
	return entities.Site{ID: 100, Name: input.Domain, PHPVersion: input.PHPVersion}, nil
}

func (s *SpyForgeRepository) UpdateDeploymentScript(
	_ context.Context, _ string, _ int64, script string,
) error {
	s.record("UpdateDeploymentScript")
	s.DeploymentScripts = append(s.DeploymentScripts, script)
	return nil
}

func (s *SpyForgeRepository) InstallGitRepository(
	_ context.Context, _ string, _ int64, input entities.RepositoryInput,
) error {
	s.record("InstallGitRepository")
	s.RepositoryInputs = append(s.RepositoryInputs, input)
	return nil
}

func (s *SpyForgeRepository) EnableQuickDeploy(_ context.Context, _ string, _ int64) error {
	s.record("EnableQuickDeploy")
	s.QuickDeployCount++
	return nil
}

func (s *SpyForgeRepository) ExecuteSiteCommand(
	_ context.Context, _ string, _ int64, command string,
) error {
	s.record("ExecuteSiteCommand")
	s.SiteCommands = append(s.SiteCommands, command)
	return s.SiteCommandErr
}

func (s *SpyForgeRepository) ObtainCertificate(
	_ context.Context, _ string, _ int64, input entities.CertificateInput,
) error {
	s.record("ObtainCertificate")
	s.CertificateInputs = append(s.CertificateInputs, input)
	return nil
}

func (s *SpyForgeRepository) GetEnvironmentFile(_ context.Context, _ string, _ int64) (string, error) {
	s.record("GetEnvironmentFile")
	s.EnvFetchedCount++
	return s.EnvFile, s.GetEnvErr
}

func (s *SpyForgeRepository) UpdateEnvironmentFile(
	_ context.Context, _ string, _ int64, content string,
) error {
	s.record("UpdateEnvironmentFile")
	s.EnvWrites = append(s.EnvWrites, content)
	return s.UpdateEnvErr
}

func (s *SpyForgeRepository) DeploySite(_ context.Context, _ string, _ int64) error {
	s.record("DeploySite")
	s.DeployCount++
	return s.DeployErr
}

func (s *SpyForgeRepository) ListDatabases(_ context.Context, _ string) ([]entities.Database, error) {
	s.record("ListDatabases")
	return s.Databases, nil
}

func (s *SpyForgeRepository) CreateDatabase(
	_ context.Context, _ string, input entities.DatabaseInput,
) (entities.Database, error) {
	s.record("CreateDatabase")
	s.DatabaseInputs = append(s.DatabaseInputs, input)
	if s.CreateDatabaseErr != nil {
		return entities.Database{}, s.CreateDatabaseErr
	}
	return entities.Database{ID: 200, Name: input.Name}, nil
}

func (s *SpyForgeRepository) ListJobs(_ context.Context, _ string) ([]entities.Job, error) {
	s.record("ListJobs")
	return s.Jobs, nil
}

func (s *SpyForgeRepository) CreateJob(
	_ context.Context, _ string, input entities.JobInput,
) (entities.Job, error) {
	s.record("CreateJob")
	s.JobInputs = append(s.JobInputs, input)
	return entities.Job{ID: 300, Command: input.Command, User: input.User, Frequency: input.Frequency}, nil
}
