package handlers

import (
	"sort"
	"strings"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// PullRequestIndex maps the dependency-name set of every open PR to the PR.
type PullRequestIndex struct {
	byNames map[string]entities.ExistingPullRequest
}

// NewPullRequestIndex indexes the open PRs of a job. When two PRs track the
// same name set, the first one wins.
func NewPullRequestIndex(pullRequests []entities.ExistingPullRequest) *PullRequestIndex {
	index := &PullRequestIndex{byNames: make(map[string]entities.ExistingPullRequest)}
	for _, pr := range pullRequests {
		key := nameSetKey(pr.DependencyNames())
		if _, exists := index.byNames[key]; !exists {
			index.byNames[key] = pr
		}
	}
	return index
}

// Find returns the open PR tracking exactly the given names.
func (i *PullRequestIndex) Find(names []string) (entities.ExistingPullRequest, bool) {
	pr, ok := i.byNames[nameSetKey(names)]
	return pr, ok
}

// PinsSameVersions reports whether an open PR already pins every change at
// its target version.
func (i *PullRequestIndex) PinsSameVersions(changes []entities.DependencyChange) bool {
	names := make([]string, 0, len(changes))
	for _, change := range changes {
		names = append(names, change.Name)
	}
	pr, ok := i.Find(names)
	if !ok {
		return false
	}
	return pinsVersions(pr.Dependencies, changes)
}

// pinsVersions reports whether pinned holds exactly the (name, version) set of changes.
func pinsVersions(pinned []entities.PullRequestDependency, changes []entities.DependencyChange) bool {
	if len(pinned) != len(changes) {
		return false
	}
	for _, change := range changes {
		version, ok := pinnedVersion(pinned, change.Name)
		if !ok || !sameVersion(version, change.Version) {
			return false
		}
	}
	return true
}

func pinnedVersion(pinned []entities.PullRequestDependency, name string) (string, bool) {
	for _, dep := range pinned {
		if dep.Name == name {
			return dep.Version, true
		}
	}
	return "", false
}

// missingNames returns the tracked names that no project declares anymore.
func missingNames(discovery *entities.WorkspaceDiscovery, names []string) []string {
	var missing []string
	for _, name := range names {
		if !discovery.HasDependency(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// removalReason picks the close reason for the missing subset of tracked names.
func removalReason(tracked, missing []string) entities.CloseReason {
	if len(missing) == len(tracked) {
		return entities.CloseReasonDependenciesRemoved
	}
	return entities.CloseReasonDependencyRemoved
}

func nameSetKey(names []string) string {
	sorted := sortedCopy(names)
	return strings.Join(sorted, ",")
}

func sortedCopy(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return sorted
}
