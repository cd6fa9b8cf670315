//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// StubEcosystemRepository bundles the three worker doubles behind
// repositories.EcosystemRepository.
type StubEcosystemRepository struct {
	EcosystemName string
	*StubDiscoveryRepository
	*SpyAnalyzeRepository
	*SpyUpdateRepository
}

var _ repositories.EcosystemRepository = (*StubEcosystemRepository)(nil)

func (s *StubEcosystemRepository) Name() string { return s.EcosystemName }
