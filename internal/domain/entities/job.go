package entities

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PullRequestDependency is one (name, pinned version) pair of an open PR.
type PullRequestDependency struct {
	Name    string `json:"dependency-name"    yaml:"dependency-name"`
	Version string `json:"dependency-version" yaml:"dependency-version"`
}

// ExistingPullRequest is a previously opened, still open PR tracked by name.
type ExistingPullRequest struct {
	Dependencies []PullRequestDependency `json:"dependencies" yaml:"dependencies"`
}

// ExistingGroupPullRequest is an open PR that was opened for a dependency group.
type ExistingGroupPullRequest struct {
	GroupName    string                  `json:"dependency-group-name" yaml:"dependency-group-name"`
	Dependencies []PullRequestDependency `json:"dependencies"          yaml:"dependencies"`
}

// DependencyNames returns the sorted names pinned by the PR.
func (p ExistingPullRequest) DependencyNames() []string {
	return sortedNames(p.Dependencies)
}

// PinnedVersion returns the version the PR pins for name.
func (p ExistingPullRequest) PinnedVersion(name string) (string, bool) {
	return pinnedVersion(p.Dependencies, name)
}

// PinnedVersion returns the version the group PR pins for name.
func (p ExistingGroupPullRequest) PinnedVersion(name string) (string, bool) {
	return pinnedVersion(p.Dependencies, name)
}

// DependencyGroupRules selects group members by glob pattern.
type DependencyGroupRules struct {
	Patterns        []string `json:"patterns"         yaml:"patterns"`
	ExcludePatterns []string `json:"exclude-patterns" yaml:"exclude-patterns"`
}

// DependencyGroup is a named set of dependencies updated under one PR.
type DependencyGroup struct {
	Name  string               `json:"name"  yaml:"name"`
	Rules DependencyGroupRules `json:"rules" yaml:"rules"`
}

// IgnoreCondition excludes target versions of matching dependencies.
type IgnoreCondition struct {
	DependencyName     string      `json:"dependency-name"     yaml:"dependency-name"`
	VersionRequirement Requirement `json:"version-requirement" yaml:"version-requirement"`
	Source             string      `json:"source,omitempty"    yaml:"source,omitempty"`
}

// JobSource locates the workspace the job runs against.
type JobSource struct {
	Provider  string `json:"provider"  yaml:"provider"`
	Repo      string `json:"repo"      yaml:"repo"`
	Directory string `json:"directory" yaml:"directory"`
	Branch    string `json:"branch"    yaml:"branch"`
	Commit    string `json:"commit"    yaml:"commit"`
}

// Job is the immutable task description for one invocation.
type Job struct {
	ID                        string                     `json:"id"                           yaml:"id"`
	PackageManager            string                     `json:"package-manager"              yaml:"package-manager"`
	Dependencies              []string                   `json:"dependencies"                 yaml:"dependencies"`
	ExistingPullRequests      []ExistingPullRequest      `json:"existing-pull-requests"       yaml:"existing-pull-requests"`
	ExistingGroupPullRequests []ExistingGroupPullRequest `json:"existing-group-pull-requests" yaml:"existing-group-pull-requests"`
	SecurityAdvisories        []SecurityAdvisory         `json:"security-advisories"          yaml:"security-advisories"`
	SecurityUpdatesOnly       bool                       `json:"security-updates-only"        yaml:"security-updates-only"`
	UpdatingAPullRequest      bool                       `json:"updating-a-pull-request"      yaml:"updating-a-pull-request"`
	DependencyGroups          []DependencyGroup          `json:"dependency-groups"            yaml:"dependency-groups"`
	DependencyGroupToRefresh  string                     `json:"dependency-group-to-refresh"  yaml:"dependency-group-to-refresh"`
	IgnoreConditions          []IgnoreCondition          `json:"ignore-conditions"            yaml:"ignore-conditions"`
	Source                    JobSource                  `json:"source"                       yaml:"source"`
}

// jobFile is the on-disk envelope; the job may also be stored unwrapped.
type jobFile struct {
	Job *Job `yaml:"job"`
}

// NewJob reads a job definition from a YAML or JSON file.
func NewJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %q: %w", path, err)
	}
	return ParseJob(data)
}

// ParseJob decodes a job from YAML or JSON content.
func ParseJob(data []byte) (*Job, error) {
	var envelope jobFile
	if err := yaml.Unmarshal(data, &envelope); err == nil && envelope.Job != nil {
		return envelope.Job.normalized(), nil
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	return job.normalized(), nil
}

func (j Job) normalized() *Job {
	if j.Source.Directory == "" {
		j.Source.Directory = "/"
	}
	if !strings.HasPrefix(j.Source.Directory, "/") {
		j.Source.Directory = "/" + j.Source.Directory
	}
	return &j
}

// TrackedDependencyNames returns the job's explicitly tracked names, sorted.
func (j *Job) TrackedDependencyNames() []string {
	names := append([]string(nil), j.Dependencies...)
	sort.Strings(names)
	return names
}

// FindGroup returns the dependency group with the given name.
func (j *Job) FindGroup(name string) (DependencyGroup, bool) {
	for _, group := range j.DependencyGroups {
		if group.Name == name {
			return group, true
		}
	}
	return DependencyGroup{}, false
}

// FindGroupPullRequest returns the open PR for the given group.
func (j *Job) FindGroupPullRequest(name string) (ExistingGroupPullRequest, bool) {
	for _, pr := range j.ExistingGroupPullRequests {
		if pr.GroupName == name {
			return pr, true
		}
	}
	return ExistingGroupPullRequest{}, false
}

func sortedNames(deps []PullRequestDependency) []string {
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.Name)
	}
	sort.Strings(names)
	return names
}

func pinnedVersion(deps []PullRequestDependency, name string) (string, bool) {
	for _, dep := range deps {
		if dep.Name == name {
			return dep.Version, true
		}
	}
	return "", false
}
