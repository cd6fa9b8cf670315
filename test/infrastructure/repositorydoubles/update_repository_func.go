//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// UpdateRepositoryFunc adapts a function to repositories.UpdateRepository,
// for tests that need a one-off update behavior.
type UpdateRepositoryFunc func(ctx context.Context, request entities.UpdateRequest) (entities.UpdateOperationResult, error)

var _ repositories.UpdateRepository = UpdateRepositoryFunc(nil)

func (f UpdateRepositoryFunc) Update(
	ctx context.Context,
	request entities.UpdateRequest,
) (entities.UpdateOperationResult, error) {
	return f(ctx, request)
}
