package handlers

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// createUnit plans, applies and captures one new PR for names. The
// workspace is restored once the change set is captured so the next unit
// starts from the original files.
func createUnit(
	ctx context.Context,
	hc *Context,
	tag string,
	names []string,
	group string,
	candidates func(name string) []entities.DependencyInstance,
) entities.Decision {
	plans, _, err := planDependencies(ctx, hc, tag, names, candidates)
	if len(plans) == 0 {
		if err == nil {
			logger.Infof("[%s] No update available for %s", tag, strings.Join(names, ", "))
		}
		return entities.NoAction(names, err)
	}
	if err != nil {
		logger.Warnf("[%s] Continuing without the dependencies that failed to analyze: %v", tag, err)
	}

	changes := changesOf(hc.Discovery, plans)
	if alreadyPinned(hc, group, changes) {
		logger.Infof("[%s] An open PR already updates %s", tag, strings.Join(planNames(plans), ", "))
		return entities.NoAction(names, nil)
	}

	unit, err := applyPlans(ctx, hc, tag, plans)
	if err != nil {
		return unitFailure(tag, names, err)
	}

	if restoreErr := hc.Workspace.Restore(unit.snapshot); restoreErr != nil {
		logger.Errorf("[%s] Failed to restore the workspace after %s: %v", tag, strings.Join(names, ", "), restoreErr)
	}
	return created(planNames(plans), group, changes, unit.files)
}

// alreadyPinned reports whether an open PR already carries the same target
// versions, in which case no duplicate is opened.
func alreadyPinned(hc *Context, group string, changes []entities.DependencyChange) bool {
	if group == "" {
		return hc.PullRequests.PinsSameVersions(changes)
	}
	pr, ok := hc.Job.FindGroupPullRequest(group)
	return ok && pinsVersions(pr.Dependencies, changes)
}

// directCandidates resolves the directly declared instances of a name.
func directCandidates(hc *Context) func(name string) []entities.DependencyInstance {
	return func(name string) []entities.DependencyInstance {
		return candidateInstances(hc, name, false)
	}
}
