package handlers

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// instanceFilter keeps the instances of a tracked name that still need the
// PR. pinned is empty when no open PR tracks the name.
type instanceFilter func(hc *Context, pinned string, instances []entities.DependencyInstance) []entities.DependencyInstance

// refreshTracked runs the refresh state machine over the job's tracked names:
// removal, up to date, update no longer possible, then update or recreate.
// Closes are emitted for the sorted tracked names whether or not an open PR
// tracks exactly that set; the sink locates the PR.
func refreshTracked(
	ctx context.Context,
	hc *Context,
	tag string,
	includeTransitive bool,
	filter instanceFilter,
) entities.Decision {
	names := hc.Job.TrackedDependencyNames()
	pr, hasPR := hc.PullRequests.Find(names)

	closePR := func(reason entities.CloseReason) entities.Decision {
		logger.Infof("[%s] Closing PR for %v: %s", tag, names, reason)
		return entities.ClosePullRequestDecision(names, reason)
	}

	if missing := missingNames(hc.Discovery, names); len(missing) > 0 {
		return closePR(removalReason(names, missing))
	}

	ordered := hc.Discovery.InDiscoveryOrder(names)
	plans, anyCandidate, err := planDependencies(ctx, hc, tag, ordered, func(name string) []entities.DependencyInstance {
		pinned, _ := pr.PinnedVersion(name)
		return filter(hc, pinned, candidateInstances(hc, name, includeTransitive))
	})
	if !anyCandidate {
		return closePR(entities.CloseReasonUpToDate)
	}
	if err != nil {
		return entities.NoAction(names, err)
	}
	if len(plans) == 0 {
		return closePR(entities.CloseReasonUpdateNoLongerPossible)
	}

	unit, err := applyPlans(ctx, hc, tag, plans)
	if err != nil {
		return unitFailure(tag, names, err)
	}

	changes := changesOf(hc.Discovery, plans)
	if !hasPR {
		logger.Infof("[%s] No open PR tracks %v, creating one", tag, names)
		return created(names, "", changes, unit.files)
	}
	return refreshed(names, pr.DependencyNames(), "", pr.Dependencies, changes, unit.files)
}
