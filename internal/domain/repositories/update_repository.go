package repositories

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// UpdateRepository rewrites the files of one project so that a dependency
// moves to a new version. An empty result means the project was already
// satisfied.
type UpdateRepository interface {
	Update(ctx context.Context, request entities.UpdateRequest) (entities.UpdateOperationResult, error)
}
