package repositories

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// DiscoveryRepository turns on-disk manifests into the dependency graph of a
// workspace. It must be idempotent for a fixed filesystem state.
type DiscoveryRepository interface {
	Discover(ctx context.Context, repoRoot, workspacePath string) (*entities.WorkspaceDiscovery, error)
}
