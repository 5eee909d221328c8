package repositories

import (
	"context"
	"time"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
)

// ForgeRepository abstracts the server-management platform API. Every call is
// a single synchronous request; implementations must not retry.
type ForgeRepository interface {
	// GetServer returns the server or an error wrapping entities.ErrServerNotFound.
	GetServer(ctx context.Context, serverID string) (*entities.Server, error)

	ListSites(ctx context.Context, serverID string) ([]entities.Site, error)
	CreateSite(ctx context.Context, serverID string, input entities.SiteInput) (entities.Site, error)
	UpdateDeploymentScript(ctx context.Context, serverID string, siteID int64, script string) error
	InstallGitRepository(ctx context.Context, serverID string, siteID int64, input entities.RepositoryInput) error
	EnableQuickDeploy(ctx context.Context, serverID string, siteID int64) error
	// ExecuteSiteCommand queues command on the site and does not wait for its output.
	ExecuteSiteCommand(ctx context.Context, serverID string, siteID int64, command string) error
	ObtainCertificate(ctx context.Context, serverID string, siteID int64, input entities.CertificateInput) error
	GetEnvironmentFile(ctx context.Context, serverID string, siteID int64) (string, error)
	// UpdateEnvironmentFile overwrites the whole env file with content.
	UpdateEnvironmentFile(ctx context.Context, serverID string, siteID int64, content string) error
	DeploySite(ctx context.Context, serverID string, siteID int64) error

	ListDatabases(ctx context.Context, serverID string) ([]entities.Database, error)
	CreateDatabase(ctx context.Context, serverID string, input entities.DatabaseInput) (entities.Database, error)

	ListJobs(ctx context.Context, serverID string) ([]entities.Job, error)
	CreateJob(ctx context.Context, serverID string, input entities.JobInput) (entities.Job, error)
}

// ForgeConnection holds what is needed to talk to the platform API.
type ForgeConnection struct {
	Token   string
	BaseURL string // empty selects the public API
	Timeout time.Duration
}

// ForgeFactory builds an authenticated ForgeRepository for a single run.
type ForgeFactory func(conn ForgeConnection) ForgeRepository
