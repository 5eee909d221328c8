//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/forgepreview/internal/domain/commands"
)

// StubDeployCommand is a stub implementation of commands.Deploy.
type StubDeployCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastInput        commands.DeployInput
}

var _ commands.Deploy = (*StubDeployCommand)(nil)

func (s *StubDeployCommand) Execute(_ context.Context, input commands.DeployInput) error {
	s.ExecuteCallCount++
	s.LastInput = input
	return s.ExecuteErr
}
