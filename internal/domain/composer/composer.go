package composer

import (
	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const startedMetric = "updater.started"

// Input is everything the composer needs to render a job's messages.
type Input struct {
	Job               *entities.Job
	Discovery         *entities.WorkspaceDiscovery
	Operation         string
	IncludeTransitive bool
	Decisions         []entities.Decision
	BaseCommitSha     string
}

// Compose renders the ordered messages of a job: the dependency-list
// report, the started metric, the PR mutations in decision order and the
// processed marker. It has no side effects.
func Compose(input Input) []entities.OutputMessage {
	messages := []entities.OutputMessage{
		Report(input.Discovery, input.IncludeTransitive),
		entities.IncrementMetric{
			Metric: startedMetric,
			Tags:   map[string]string{"operation": input.Operation},
		},
	}

	for _, decision := range input.Decisions {
		messages = append(messages, decisionMessages(input, decision)...)
	}

	return append(messages, entities.MarkAsProcessed{BaseCommitSha: input.BaseCommitSha})
}

func decisionMessages(input Input, decision entities.Decision) []entities.OutputMessage {
	switch decision.Kind {
	case entities.DecisionClose:
		return []entities.OutputMessage{closePullRequest(decision.DependencyNames, decision.Group, decision.Reason)}
	case entities.DecisionUpdate:
		return []entities.OutputMessage{updatePullRequest(input, decision)}
	case entities.DecisionCreate:
		return []entities.OutputMessage{createPullRequest(input, decision)}
	case entities.DecisionRecreate:
		return []entities.OutputMessage{
			closePullRequest(decision.ClosedNames, decision.Group, entities.CloseReasonDependenciesChanged),
			createPullRequest(input, decision),
		}
	default:
		if decision.Err == nil {
			return nil
		}
		return []entities.OutputMessage{recordError(decision)}
	}
}

func closePullRequest(names []string, group string, reason entities.CloseReason) entities.ClosePullRequest {
	return entities.ClosePullRequest{
		DependencyNames: names,
		Reason:          reason,
		DependencyGroup: dependencyGroup(group),
	}
}

func updatePullRequest(input Input, decision entities.Decision) entities.UpdatePullRequest {
	text := newPullRequestText(input.Job, decision.Group, decision.Changes)
	return entities.UpdatePullRequest{
		DependencyNames:        decision.DependencyNames,
		DependencyGroup:        dependencyGroup(decision.Group),
		UpdatedDependencyFiles: decision.UpdatedFiles,
		BaseCommitSha:          input.BaseCommitSha,
		CommitMessage:          text.CommitMessage,
		PrTitle:                text.Title,
		PrBody:                 text.Body,
	}
}

func createPullRequest(input Input, decision entities.Decision) entities.CreatePullRequest {
	text := newPullRequestText(input.Job, decision.Group, decision.Changes)
	dependencies := make([]entities.ChangedDependency, 0, len(decision.Changes))
	for _, change := range decision.Changes {
		dependencies = append(dependencies, changedDependency(change))
	}

	return entities.CreatePullRequest{
		Dependencies:           dependencies,
		UpdatedDependencyFiles: decision.UpdatedFiles,
		BaseCommitSha:          input.BaseCommitSha,
		CommitMessage:          text.CommitMessage,
		PrTitle:                text.Title,
		PrBody:                 text.Body,
		DependencyGroup:        dependencyGroup(decision.Group),
	}
}

func changedDependency(change entities.DependencyChange) entities.ChangedDependency {
	dependency := entities.ChangedDependency{
		Name:                 change.Name,
		Version:              change.Version,
		PreviousVersion:      change.PreviousVersion,
		Requirements:         []entities.ReportedRequirement{},
		PreviousRequirements: []entities.ReportedRequirement{},
	}
	if change.IsTransitive {
		return dependency
	}

	for _, occurrence := range change.Occurrences {
		dependency.Requirements = append(dependency.Requirements, entities.ReportedRequirement{
			Requirement: change.Version,
			File:        occurrence.File,
			Groups:      []string{dependenciesGroup},
			Source:      &entities.RequirementSource{},
		})
		dependency.PreviousRequirements = append(dependency.PreviousRequirements, entities.ReportedRequirement{
			Requirement: occurrence.PreviousVersion,
			File:        occurrence.File,
			Groups:      []string{dependenciesGroup},
		})
	}
	return dependency
}

func recordError(decision entities.Decision) entities.RecordUpdateJobError {
	details := map[string]any{
		"error-message": decision.Err.Error(),
	}
	if len(decision.DependencyNames) > 0 {
		details["dependency-names"] = decision.DependencyNames
	}
	if decision.Group != "" {
		details["dependency-group"] = decision.Group
	}
	return entities.RecordUpdateJobError{
		ErrorType:    entities.ErrorType(decision.Err),
		ErrorDetails: details,
	}
}

func dependencyGroup(group string) *entities.MessageDependencyGroup {
	if group == "" {
		return nil
	}
	return &entities.MessageDependencyGroup{Name: group}
}
