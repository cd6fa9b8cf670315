package branching

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const (
	branchRoot     = "updatebot"
	shortShaLength = 8
)

var unsafeBranchChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`) //nolint:gochecknoglobals // compiled once

// Namer derives PR branch names from a job, so that later jobs can find the
// branch of a PR from its dependency names or group alone.
type Namer struct {
	scope string
}

// NewNamer scopes branch names by package manager and job directory.
func NewNamer(job *entities.Job) Namer {
	scope := path.Join(branchRoot, Sanitize(job.PackageManager))
	if dir := strings.Trim(job.Source.Directory, "/"); dir != "" {
		scope = path.Join(scope, Sanitize(dir))
	}
	return Namer{scope: scope}
}

// Prefix is shared by every branch opened for the same names or group.
func (n Namer) Prefix(names []string, group *entities.MessageDependencyGroup) string {
	if group != nil {
		return n.scope + "/group-" + Sanitize(group.Name) + "/"
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return n.scope + "/" + Sanitize(strings.Join(sorted, "-and-")) + "/"
}

// ForCreate names the branch of a new PR.
func (n Namer) ForCreate(message entities.CreatePullRequest) string {
	names := make([]string, 0, len(message.Dependencies))
	for _, dep := range message.Dependencies {
		names = append(names, dep.Name)
	}
	prefix := n.Prefix(names, message.DependencyGroup)
	if message.DependencyGroup == nil && len(message.Dependencies) == 1 {
		return prefix + Sanitize(message.Dependencies[0].Version)
	}
	return prefix + ShortSha(message.BaseCommitSha)
}

// ShortSha abbreviates a commit sha.
func ShortSha(sha string) string {
	if len(sha) > shortShaLength {
		return sha[:shortShaLength]
	}
	return sha
}

// Sanitize replaces every run of characters git refs reject with a dash.
func Sanitize(value string) string {
	return strings.Trim(unsafeBranchChars.ReplaceAllString(value, "-"), "-")
}

// CloseComment is the note left on a PR before it is closed.
func CloseComment(reason entities.CloseReason) string {
	switch reason {
	case entities.CloseReasonDependenciesRemoved, entities.CloseReasonDependencyRemoved:
		return "Looks like these dependencies are no longer used, so this PR is no longer needed."
	case entities.CloseReasonUpToDate:
		return "Looks like these dependencies are up-to-date now, so this PR is no longer needed."
	case entities.CloseReasonUpdateNoLongerPossible:
		return "Looks like these dependencies can no longer be updated, so this PR is being closed."
	case entities.CloseReasonDependenciesChanged:
		return "Superseded by a newer pull request with updated versions."
	default:
		return "Closing this PR."
	}
}
