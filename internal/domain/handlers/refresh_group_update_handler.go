package handlers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const operationUpdateVersionGroupPR = "update_version_group_pr"

// RefreshGroupUpdateHandler rebuilds the group named by the job and compares
// the result to the group's open PR.
type RefreshGroupUpdateHandler struct{}

// NewRefreshGroupUpdateHandler creates the grouped refresh handler.
func NewRefreshGroupUpdateHandler() *RefreshGroupUpdateHandler {
	return &RefreshGroupUpdateHandler{}
}

func (it *RefreshGroupUpdateHandler) Name() string             { return operationUpdateVersionGroupPR }
func (it *RefreshGroupUpdateHandler) IncludesTransitive() bool { return false }

func (it *RefreshGroupUpdateHandler) Handle(ctx context.Context, hc *Context) []entities.Decision {
	return []entities.Decision{it.refresh(ctx, hc)}
}

func (it *RefreshGroupUpdateHandler) refresh(ctx context.Context, hc *Context) entities.Decision {
	groupName := hc.Job.DependencyGroupToRefresh
	group, ok := hc.Job.FindGroup(groupName)
	if !ok {
		return entities.NoAction(nil, fmt.Errorf("dependency group %q is not defined", groupName))
	}

	pr, hasPR := hc.Job.FindGroupPullRequest(groupName)
	var prNames []string
	if hasPR {
		prNames = sortedCopy(namesOf(pr.Dependencies))
	}

	closeOrSkip := func(reason entities.CloseReason) entities.Decision {
		if !hasPR {
			logger.Infof("[%s] Nothing to do for group %q (%s)", it.Name(), groupName, reason)
			return entities.NoAction(nil, nil)
		}
		logger.Infof("[%s] Closing PR of group %q: %s", it.Name(), groupName, reason)
		decision := entities.ClosePullRequestDecision(prNames, reason)
		decision.Group = groupName
		return decision
	}

	members := groupMembers(newGroupRule(group), hc.Discovery.DirectDependencyNames(), nil)
	if len(members) == 0 {
		return closeOrSkip(entities.CloseReasonDependenciesRemoved)
	}

	plans, _, err := planDependencies(ctx, hc, it.Name(), members, directCandidates(hc))
	if len(plans) == 0 {
		if err != nil {
			return entities.NoAction(members, err)
		}
		return closeOrSkip(entities.CloseReasonUpdateNoLongerPossible)
	}
	if err != nil {
		logger.Warnf("[%s] Continuing without the dependencies that failed to analyze: %v", it.Name(), err)
	}

	unit, err := applyPlans(ctx, hc, it.Name(), plans)
	if err != nil {
		return unitFailure(it.Name(), members, err)
	}

	changes := changesOf(hc.Discovery, plans)
	names := planNames(plans)
	if !hasPR {
		return created(names, groupName, changes, unit.files)
	}

	decision := refreshed(sortedCopy(names), prNames, groupName, pr.Dependencies, changes, unit.files)
	if decision.Kind == entities.DecisionUpdate && len(pr.Dependencies) != len(changes) {
		decision.Kind = entities.DecisionRecreate
		decision.Reason = entities.CloseReasonDependenciesChanged
		decision.ClosedNames = prNames
	}
	return decision
}

func namesOf(deps []entities.PullRequestDependency) []string {
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.Name)
	}
	return names
}
