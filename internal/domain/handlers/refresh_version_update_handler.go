package handlers

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const operationUpdateVersionPR = "update_version_pr"

// RefreshVersionUpdateHandler refreshes the open PR of a version update.
type RefreshVersionUpdateHandler struct{}

// NewRefreshVersionUpdateHandler creates the version-update refresh handler.
func NewRefreshVersionUpdateHandler() *RefreshVersionUpdateHandler {
	return &RefreshVersionUpdateHandler{}
}

func (it *RefreshVersionUpdateHandler) Name() string             { return operationUpdateVersionPR }
func (it *RefreshVersionUpdateHandler) IncludesTransitive() bool { return false }

func (it *RefreshVersionUpdateHandler) Handle(ctx context.Context, hc *Context) []entities.Decision {
	return []entities.Decision{refreshTracked(ctx, hc, it.Name(), false, belowPinned)}
}

// belowPinned keeps the instances that have not reached the pinned version yet.
func belowPinned(_ *Context, pinned string, instances []entities.DependencyInstance) []entities.DependencyInstance {
	if pinned == "" {
		return instances
	}
	var behind []entities.DependencyInstance
	for _, instance := range instances {
		if compareVersions(instance.Dependency.Version, pinned) < 0 {
			behind = append(behind, instance)
		}
	}
	return behind
}
