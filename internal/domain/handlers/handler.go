package handlers

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// Handler implements the decision policy of one job mode.
type Handler interface {
	// Name returns the operation tag reported with the started metric.
	Name() string

	// IncludesTransitive reports whether transitive dependencies are candidates
	// and part of the dependency-list report.
	IncludesTransitive() bool

	// Handle decides, unit by unit and in discovery order, which PR mutation
	// to emit. Worker failures are isolated into NoAction decisions.
	Handle(ctx context.Context, hc *Context) []entities.Decision
}

// Select returns the handler for the job's mode.
func Select(job *entities.Job) Handler {
	switch {
	case job.SecurityUpdatesOnly && job.UpdatingAPullRequest:
		return NewRefreshSecurityUpdateHandler()
	case job.UpdatingAPullRequest && job.DependencyGroupToRefresh != "":
		return NewRefreshGroupUpdateHandler()
	case job.UpdatingAPullRequest:
		return NewRefreshVersionUpdateHandler()
	case job.SecurityUpdatesOnly:
		return NewCreateSecurityUpdateHandler()
	case len(job.DependencyGroups) > 0:
		return NewGroupUpdateHandler()
	default:
		return NewUpdateAllVersionsHandler()
	}
}
