//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// StubDiscoveryRepository implements repositories.DiscoveryRepository with a
// fixed result.
type StubDiscoveryRepository struct {
	Discovery *entities.WorkspaceDiscovery
	Err       error
	// spy: workspace paths that were requested
	Paths []string
}

var _ repositories.DiscoveryRepository = (*StubDiscoveryRepository)(nil)

func (s *StubDiscoveryRepository) Discover(
	_ context.Context, _, workspacePath string,
) (*entities.WorkspaceDiscovery, error) {
	s.Paths = append(s.Paths, workspacePath)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Discovery, nil
}
