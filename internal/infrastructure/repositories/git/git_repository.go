package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const remoteName = "origin"

var errDetachedHead = errors.New("HEAD is detached")

// GitRepository implements repositories.GitRepository with go-git, so no git
// binary is required on the CI runner.
type GitRepository struct{}

// NewGitRepository creates a new GitRepository.
func NewGitRepository() *GitRepository {
	return &GitRepository{}
}

// CurrentBranch returns the short name of the branch HEAD points to. It works
// on repositories without commits, where HEAD is an unborn branch.
func (g *GitRepository) CurrentBranch(_ context.Context, dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", errDetachedHead
	}
	return head.Target().Short(), nil
}

// RemoteRepository returns the "owner/name" slug of the origin remote.
func (g *GitRepository) RemoteRepository(_ context.Context, dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %q: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remoteName)
	}

	return parseRepositorySlug(urls[0])
}

func open(dir string) (*gogit.Repository, error) {
	//nolint:exhaustruct // only DetectDotGit is relevant
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}
	return repo, nil
}

// parseRepositorySlug extracts "owner/name" from SSH (git@host:owner/name.git),
// scp-less SSH (ssh://git@host/owner/name) and HTTPS remote URLs.
func parseRepositorySlug(rawURL string) (string, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	cleaned = strings.TrimSuffix(cleaned, ".git")

	var pathPart string
	switch {
	case strings.Contains(cleaned, "://"):
		_, after, _ := strings.Cut(cleaned, "://")
		_, rest, ok := strings.Cut(after, "/")
		if !ok {
			return "", fmt.Errorf("cannot extract owner/repo from URL: %s", rawURL)
		}
		pathPart = rest
	case strings.Contains(cleaned, ":"):
		parts := strings.SplitN(cleaned, ":", 2) //nolint:mnd // host:path
		pathPart = parts[1]
	default:
		return "", fmt.Errorf("unsupported git remote URL: %s", rawURL)
	}

	segments := strings.Split(strings.Trim(pathPart, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[len(segments)-1] == "" { //nolint:mnd // owner + repo
		return "", fmt.Errorf("cannot extract owner/repo from URL: %s", rawURL)
	}

	// nested groups (GitLab subgroups) keep their full path
	return strings.Join(segments, "/"), nil
}
