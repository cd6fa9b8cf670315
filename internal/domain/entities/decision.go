package entities

// DecisionKind is the terminal action taken for one tracked PR or group.
type DecisionKind string

const (
	DecisionCreate   DecisionKind = "create"
	DecisionUpdate   DecisionKind = "update"
	DecisionClose    DecisionKind = "close"
	DecisionRecreate DecisionKind = "recreate"
	DecisionNone     DecisionKind = "none"
)

// CloseReason is the reason attached to a ClosePullRequest message.
type CloseReason string

const (
	CloseReasonDependenciesRemoved    CloseReason = "dependencies_removed"
	CloseReasonDependencyRemoved      CloseReason = "dependency_removed"
	CloseReasonUpToDate               CloseReason = "up_to_date"
	CloseReasonUpdateNoLongerPossible CloseReason = "update_no_longer_possible"
	CloseReasonDependenciesChanged    CloseReason = "dependencies_changed"
)

// DependencyOccurrence is one project file that declares a changed dependency.
type DependencyOccurrence struct {
	File            string
	PreviousVersion string
}

// DependencyChange describes one dependency moved by a unit of work.
type DependencyChange struct {
	Name            string
	Version         string
	PreviousVersion string
	IsTransitive    bool
	Occurrences     []DependencyOccurrence
}

// Decision is what a handler concluded for one unit (a tracked name set or a
// group). ClosedNames carries the names of the PR being torn down when it
// differs from DependencyNames.
type Decision struct {
	Kind            DecisionKind
	Reason          CloseReason
	DependencyNames []string
	ClosedNames     []string
	Group           string
	Changes         []DependencyChange
	UpdatedFiles    []DependencyFile
	Err             error
}

// NoAction builds a decision that emits no PR mutation.
func NoAction(names []string, err error) Decision {
	return Decision{Kind: DecisionNone, DependencyNames: names, Err: err}
}

// ClosePullRequestDecision builds a close decision for the given names.
func ClosePullRequestDecision(names []string, reason CloseReason) Decision {
	return Decision{Kind: DecisionClose, Reason: reason, DependencyNames: names}
}

// IsMutation reports whether the decision leads to a PR mutation message.
func (d Decision) IsMutation() bool {
	return d.Kind != DecisionNone
}

// ChangedNames returns the names of the dependencies that moved, in order.
func (d Decision) ChangedNames() []string {
	names := make([]string, 0, len(d.Changes))
	for _, change := range d.Changes {
		names = append(names, change.Name)
	}
	return names
}
