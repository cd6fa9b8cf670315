package handlers

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const operationUpdateSecurityPR = "update_security_pr"

// RefreshSecurityUpdateHandler refreshes the open PR of a security update.
// Only vulnerable instances reach the workers.
type RefreshSecurityUpdateHandler struct{}

// NewRefreshSecurityUpdateHandler creates the security-update refresh handler.
func NewRefreshSecurityUpdateHandler() *RefreshSecurityUpdateHandler {
	return &RefreshSecurityUpdateHandler{}
}

func (it *RefreshSecurityUpdateHandler) Name() string             { return operationUpdateSecurityPR }
func (it *RefreshSecurityUpdateHandler) IncludesTransitive() bool { return true }

func (it *RefreshSecurityUpdateHandler) Handle(ctx context.Context, hc *Context) []entities.Decision {
	return []entities.Decision{refreshTracked(ctx, hc, it.Name(), true, stillVulnerable)}
}

func stillVulnerable(hc *Context, _ string, instances []entities.DependencyInstance) []entities.DependencyInstance {
	return hc.Security.VulnerableInstances(instances)
}
