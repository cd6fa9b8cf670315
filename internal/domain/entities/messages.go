package entities

import (
	"encoding/json"
	"fmt"
)

// Message type names as understood by the hosting layer.
const (
	MessageTypeUpdateDependencyList = "update_dependency_list"
	MessageTypeIncrementMetric      = "increment_metric"
	MessageTypeCreatePullRequest    = "create_pull_request"
	MessageTypeUpdatePullRequest    = "update_pull_request"
	MessageTypeClosePullRequest     = "close_pull_request"
	MessageTypeMarkAsProcessed      = "mark_as_processed"
	MessageTypeRecordUpdateJobError = "record_update_job_error"
)

// OutputMessage is an immutable value emitted by the engine.
type OutputMessage interface {
	Type() string
}

// RequirementSource is attached to the requirements of changed dependencies.
type RequirementSource struct {
	SourceURL *string `json:"source_url"`
}

// ReportedRequirement is one declaration of a dependency in one file.
type ReportedRequirement struct {
	Requirement string             `json:"requirement"`
	File        string             `json:"file"`
	Groups      []string           `json:"groups"`
	Source      *RequirementSource `json:"source,omitempty"`
}

// ReportedDependency is one dependency occurrence in the dependency-list report.
type ReportedDependency struct {
	Name         string                `json:"name"`
	Version      string                `json:"version,omitempty"`
	Requirements []ReportedRequirement `json:"requirements"`
}

// ChangedDependency is a dependency carried by a create message.
type ChangedDependency struct {
	Name                 string                `json:"name"`
	Version              string                `json:"version"`
	Requirements         []ReportedRequirement `json:"requirements"`
	PreviousVersion      string                `json:"previous-version"`
	PreviousRequirements []ReportedRequirement `json:"previous-requirements"`
}

// MessageDependencyGroup names the group a PR belongs to.
type MessageDependencyGroup struct {
	Name string `json:"name"`
}

// UpdatedDependencyList is always the first message of a job.
type UpdatedDependencyList struct {
	Dependencies    []ReportedDependency `json:"dependencies"`
	DependencyFiles []string             `json:"dependency_files"`
}

// IncrementMetric bumps a counter on the hosting side.
type IncrementMetric struct {
	Metric string            `json:"metric"`
	Tags   map[string]string `json:"tags"`
}

// CreatePullRequest opens a new pull request.
type CreatePullRequest struct {
	Dependencies           []ChangedDependency     `json:"dependencies"`
	UpdatedDependencyFiles []DependencyFile        `json:"updated-dependency-files"`
	BaseCommitSha          string                  `json:"base-commit-sha"`
	CommitMessage          string                  `json:"commit-message"`
	PrTitle                string                  `json:"pr-title"`
	PrBody                 string                  `json:"pr-body"`
	DependencyGroup        *MessageDependencyGroup `json:"dependency-group"`
}

// UpdatePullRequest refreshes an existing pull request in place.
type UpdatePullRequest struct {
	DependencyNames        []string                `json:"dependency-names"`
	DependencyGroup        *MessageDependencyGroup `json:"dependency-group"`
	UpdatedDependencyFiles []DependencyFile        `json:"updated-dependency-files"`
	BaseCommitSha          string                  `json:"base-commit-sha"`
	CommitMessage          string                  `json:"commit-message"`
	PrTitle                string                  `json:"pr-title"`
	PrBody                 string                  `json:"pr-body"`
}

// ClosePullRequest closes an existing pull request.
type ClosePullRequest struct {
	DependencyNames []string                `json:"dependency-names"`
	Reason          CloseReason             `json:"reason"`
	DependencyGroup *MessageDependencyGroup `json:"dependency-group,omitempty"`
}

// MarkAsProcessed is always the last message of a job.
type MarkAsProcessed struct {
	BaseCommitSha string `json:"base-commit-sha"`
}

// RecordUpdateJobError reports a unit that failed or behaved inconsistently.
type RecordUpdateJobError struct {
	ErrorType    string         `json:"error-type"`
	ErrorDetails map[string]any `json:"error-details"`
}

func (UpdatedDependencyList) Type() string { return MessageTypeUpdateDependencyList }
func (IncrementMetric) Type() string       { return MessageTypeIncrementMetric }
func (CreatePullRequest) Type() string     { return MessageTypeCreatePullRequest }
func (UpdatePullRequest) Type() string     { return MessageTypeUpdatePullRequest }
func (ClosePullRequest) Type() string      { return MessageTypeClosePullRequest }
func (MarkAsProcessed) Type() string       { return MessageTypeMarkAsProcessed }
func (RecordUpdateJobError) Type() string  { return MessageTypeRecordUpdateJobError }

type messageEnvelope struct {
	Type string        `json:"type"`
	Data OutputMessage `json:"data"`
}

// MarshalMessage serialises a message as {"type": ..., "data": ...}.
func MarshalMessage(message OutputMessage) ([]byte, error) {
	data, err := json.Marshal(messageEnvelope{Type: message.Type(), Data: message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", message.Type(), err)
	}
	return data, nil
}
