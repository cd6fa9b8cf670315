package handlers

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const operationUpdateAllVersions = "update_all_versions"

// UpdateAllVersionsHandler opens one PR per direct dependency that has a
// newer version.
type UpdateAllVersionsHandler struct{}

// NewUpdateAllVersionsHandler creates the full unconditional update handler.
func NewUpdateAllVersionsHandler() *UpdateAllVersionsHandler {
	return &UpdateAllVersionsHandler{}
}

func (it *UpdateAllVersionsHandler) Name() string             { return operationUpdateAllVersions }
func (it *UpdateAllVersionsHandler) IncludesTransitive() bool { return false }

func (it *UpdateAllVersionsHandler) Handle(ctx context.Context, hc *Context) []entities.Decision {
	names := hc.Discovery.DirectDependencyNames()
	decisions := make([]entities.Decision, 0, len(names))
	for _, name := range names {
		decisions = append(decisions, createUnit(ctx, hc, it.Name(), []string{name}, "", directCandidates(hc)))
	}
	return decisions
}
