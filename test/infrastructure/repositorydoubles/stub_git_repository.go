//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/forgepreview/internal/domain/repositories"
)

// StubGitRepository implements repositories.GitRepository with fixed answers.
type StubGitRepository struct {
	Branch        string
	BranchErr     error
	Repository    string
	RepositoryErr error
	InspectedDirs []string
}

var _ repositories.GitRepository = (*StubGitRepository)(nil)

func (s *StubGitRepository) CurrentBranch(_ context.Context, dir string) (string, error) {
	s.InspectedDirs = append(s.InspectedDirs, dir)
	return s.Branch, s.BranchErr
}

func (s *StubGitRepository) RemoteRepository(_ context.Context, _ string) (string, error) {
	return s.Repository, s.RepositoryErr
}
