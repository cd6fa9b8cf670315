package handlers

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const operationCreateSecurityPR = "create_security_pr"

// CreateSecurityUpdateHandler opens one PR per tracked dependency that is
// still vulnerable.
type CreateSecurityUpdateHandler struct{}

// NewCreateSecurityUpdateHandler creates the security-only create handler.
func NewCreateSecurityUpdateHandler() *CreateSecurityUpdateHandler {
	return &CreateSecurityUpdateHandler{}
}

func (it *CreateSecurityUpdateHandler) Name() string             { return operationCreateSecurityPR }
func (it *CreateSecurityUpdateHandler) IncludesTransitive() bool { return true }

func (it *CreateSecurityUpdateHandler) Handle(ctx context.Context, hc *Context) []entities.Decision {
	names := hc.Discovery.InDiscoveryOrder(hc.Job.TrackedDependencyNames())
	decisions := make([]entities.Decision, 0, len(names))
	for _, name := range names {
		if !hc.Discovery.HasDependency(name) {
			logger.Infof("[%s] %s is no longer used", it.Name(), name)
			decisions = append(decisions, entities.NoAction([]string{name}, nil))
			continue
		}

		decisions = append(decisions, createUnit(ctx, hc, it.Name(), []string{name}, "",
			func(candidate string) []entities.DependencyInstance {
				return hc.Security.VulnerableInstances(candidateInstances(hc, candidate, true))
			},
		))
	}
	return decisions
}
