//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/commands"
	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// StubDiscoverCommand is a stub implementation of commands.Discover.
type StubDiscoverCommand struct {
	Report           entities.UpdatedDependencyList
	ExecuteErr       error
	ExecuteCallCount int
	LastJob          *entities.Job
	LastOpts         entities.RunOptions
}

var _ commands.Discover = (*StubDiscoverCommand)(nil)

func (s *StubDiscoverCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	job *entities.Job,
	opts entities.RunOptions,
) (entities.UpdatedDependencyList, error) {
	s.ExecuteCallCount++
	s.LastJob = job
	s.LastOpts = opts
	return s.Report, s.ExecuteErr
}
