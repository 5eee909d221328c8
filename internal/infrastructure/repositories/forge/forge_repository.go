package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	cleanhttp "github.com/hashicorp/go-cleanhttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/forgepreview/internal/domain/entities"
	"github.com/rios0rios0/forgepreview/internal/domain/repositories"
)

// DefaultBaseURL is the public Laravel Forge API.
const DefaultBaseURL = "https://forge.laravel.com/api/v1"

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%s %s, status %d): %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// ForgeRepository implements repositories.ForgeRepository over the Forge REST API.
type ForgeRepository struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewForgeRepository creates a client authenticated with token. Every request
// is bounded by timeout.
func NewForgeRepository(conn repositories.ForgeConnection) *ForgeRepository {
	baseURL := strings.TrimSuffix(conn.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := conn.Timeout
	if timeout <= 0 {
		timeout = entities.DefaultTimeout
	}

	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = timeout

	return &ForgeRepository{
		baseURL:    baseURL,
		token:      conn.Token,
		httpClient: httpClient,
	}
}

// NewForgeFactory returns the factory the deploy command uses to open a session.
func NewForgeFactory() repositories.ForgeFactory {
	return func(conn repositories.ForgeConnection) repositories.ForgeRepository {
		return NewForgeRepository(conn)
	}
}

// BaseURL returns the API root requests are sent to.
func (r *ForgeRepository) BaseURL() string {
	return r.baseURL
}

func (r *ForgeRepository) GetServer(ctx context.Context, serverID string) (*entities.Server, error) {
	var result struct {
		Server entities.Server `json:"server"`
	}

	err := r.doJSON(ctx, http.MethodGet, "/servers/"+serverID, nil, &result)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", entities.ErrServerNotFound, err)
		}
		return nil, err
	}

	return &result.Server, nil
}

func (r *ForgeRepository) ListSites(ctx context.Context, serverID string) ([]entities.Site, error) {
	var result struct {
		Sites []entities.Site `json:"sites"`
	}
	if err := r.doJSON(ctx, http.MethodGet, sitesPath(serverID), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return result.Sites, nil
}

func (r *ForgeRepository) CreateSite(
	ctx context.Context,
	serverID string,
	input entities.SiteInput,
) (entities.Site, error) {
	var result struct {
		Site entities.Site `json:"site"`
	}
	if err := r.doJSON(ctx, http.MethodPost, sitesPath(serverID), input, &result); err != nil {
		return entities.Site{}, err
	}
	return result.Site, nil
}

func (r *ForgeRepository) UpdateDeploymentScript(
	ctx context.Context,
	serverID string,
	siteID int64,
	script string,
) error {
	body := map[string]string{"content": script}
	return r.doJSON(ctx, http.MethodPut, sitePath(serverID, siteID)+"/deployment/script", body, nil)
}

func (r *ForgeRepository) InstallGitRepository(
	ctx context.Context,
	serverID string,
	siteID int64,
	input entities.RepositoryInput,
) error {
	return r.doJSON(ctx, http.MethodPost, sitePath(serverID, siteID)+"/git", input, nil)
}

func (r *ForgeRepository) EnableQuickDeploy(ctx context.Context, serverID string, siteID int64) error {
	return r.doJSON(ctx, http.MethodPost, sitePath(serverID, siteID)+"/deployment", nil, nil)
}

func (r *ForgeRepository) ExecuteSiteCommand(
	ctx context.Context,
	serverID string,
	siteID int64,
	command string,
) error {
	body := map[string]string{"command": command}
	return r.doJSON(ctx, http.MethodPost, sitePath(serverID, siteID)+"/commands", body, nil)
}

func (r *ForgeRepository) ObtainCertificate(
	ctx context.Context,
	serverID string,
	siteID int64,
	input entities.CertificateInput,
) error {
	return r.doJSON(ctx, http.MethodPost, sitePath(serverID, siteID)+"/certificates/letsencrypt", input, nil)
}

// GetEnvironmentFile returns the env file as text. The API answers either with
// the raw file or with a JSON encoded string; both are accepted.
func (r *ForgeRepository) GetEnvironmentFile(ctx context.Context, serverID string, siteID int64) (string, error) {
	respBody, err := r.doRequest(ctx, http.MethodGet, sitePath(serverID, siteID)+"/env", nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch environment file: %w", err)
	}

	var content string
	if json.Unmarshal(respBody, &content) == nil {
		return content, nil
	}
	return string(respBody), nil
}

func (r *ForgeRepository) UpdateEnvironmentFile(
	ctx context.Context,
	serverID string,
	siteID int64,
	content string,
) error {
	body := map[string]string{"content": content}
	return r.doJSON(ctx, http.MethodPut, sitePath(serverID, siteID)+"/env", body, nil)
}

func (r *ForgeRepository) DeploySite(ctx context.Context, serverID string, siteID int64) error {
	return r.doJSON(ctx, http.MethodPost, sitePath(serverID, siteID)+"/deployment/deploy", nil, nil)
}

func (r *ForgeRepository) ListDatabases(ctx context.Context, serverID string) ([]entities.Database, error) {
	var result struct {
		Databases []entities.Database `json:"databases"`
	}
	if err := r.doJSON(ctx, http.MethodGet, "/servers/"+serverID+"/databases", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return result.Databases, nil
}

func (r *ForgeRepository) CreateDatabase(
	ctx context.Context,
	serverID string,
	input entities.DatabaseInput,
) (entities.Database, error) {
	var result struct {
		Database entities.Database `json:"database"`
	}
	if err := r.doJSON(ctx, http.MethodPost, "/servers/"+serverID+"/databases", input, &result); err != nil {
		return entities.Database{}, err
	}
	return result.Database, nil
}

func (r *ForgeRepository) ListJobs(ctx context.Context, serverID string) ([]entities.Job, error) {
	var result struct {
		Jobs []entities.Job `json:"jobs"`
	}
	if err := r.doJSON(ctx, http.MethodGet, "/servers/"+serverID+"/jobs", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return result.Jobs, nil
}

func (r *ForgeRepository) CreateJob(
	ctx context.Context,
	serverID string,
	input entities.JobInput,
) (entities.Job, error) {
	var result struct {
		Job entities.Job `json:"job"`
	}
	if err := r.doJSON(ctx, http.MethodPost, "/servers/"+serverID+"/jobs", input, &result); err != nil {
		return entities.Job{}, err
	}
	return result.Job, nil
}

func sitesPath(serverID string) string {
	return "/servers/" + serverID + "/sites"
}

func sitePath(serverID string, siteID int64) string {
	return fmt.Sprintf("/servers/%s/sites/%d", serverID, siteID)
}

// doJSON sends body as JSON and decodes the response into out when out is not nil.
func (r *ForgeRepository) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	respBody, err := r.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err = json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response of %s %s: %w", method, path, err)
	}
	return nil
}

func (r *ForgeRepository) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	started := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.WithFields(logger.Fields{
		"request_id": requestID,
		"status":     resp.StatusCode,
		"elapsed":    time.Since(started).Round(time.Millisecond),
	}).Debugf("%s %s", method, path)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}
