//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// JobBuilder helps create update jobs with a fluent interface.
type JobBuilder struct {
	*testkit.BaseBuilder
	job entities.Job
}

// NewJobBuilder creates a version-update job over the root directory.
func NewJobBuilder() *JobBuilder {
	return &JobBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		job:         defaultJob(),
	}
}

func defaultJob() entities.Job {
	return entities.Job{
		ID:             "job-1",
		PackageManager: "nuget",
		Source: entities.JobSource{
			Provider:  "github",
			Repo:      "acme/widgets",
			Directory: "/",
			Branch:    "main",
			Commit:    "0123456789abcdef0123456789abcdef01234567",
		},
	}
}

// WithPackageManager sets the package manager.
func (b *JobBuilder) WithPackageManager(packageManager string) *JobBuilder {
	b.job.PackageManager = packageManager
	return b
}

// WithDirectory sets the workspace directory.
func (b *JobBuilder) WithDirectory(directory string) *JobBuilder {
	b.job.Source.Directory = directory
	return b
}

// WithCommit sets the base commit; empty means "read HEAD".
func (b *JobBuilder) WithCommit(commit string) *JobBuilder {
	b.job.Source.Commit = commit
	return b
}

// WithDependencies sets the tracked dependency names.
func (b *JobBuilder) WithDependencies(names ...string) *JobBuilder {
	b.job.Dependencies = names
	return b
}

// WithExistingPullRequest adds an open PR pinning name/version pairs.
func (b *JobBuilder) WithExistingPullRequest(pairs ...string) *JobBuilder {
	b.job.ExistingPullRequests = append(b.job.ExistingPullRequests,
		entities.ExistingPullRequest{Dependencies: pullRequestDependencies(pairs)})
	return b
}

// WithExistingGroupPullRequest adds an open group PR pinning name/version pairs.
func (b *JobBuilder) WithExistingGroupPullRequest(group string, pairs ...string) *JobBuilder {
	b.job.ExistingGroupPullRequests = append(b.job.ExistingGroupPullRequests,
		entities.ExistingGroupPullRequest{GroupName: group, Dependencies: pullRequestDependencies(pairs)})
	return b
}

// WithSecurityAdvisory adds an advisory for name.
func (b *JobBuilder) WithSecurityAdvisory(name string, affected, patched []entities.Requirement) *JobBuilder {
	b.job.SecurityAdvisories = append(b.job.SecurityAdvisories, entities.SecurityAdvisory{
		DependencyName:   name,
		AffectedVersions: affected,
		PatchedVersions:  patched,
	})
	return b
}

// WithDependencyGroup adds a dependency group.
func (b *JobBuilder) WithDependencyGroup(name string, patterns, excludes []string) *JobBuilder {
	b.job.DependencyGroups = append(b.job.DependencyGroups, entities.DependencyGroup{
		Name:  name,
		Rules: entities.DependencyGroupRules{Patterns: patterns, ExcludePatterns: excludes},
	})
	return b
}

// WithIgnoreCondition adds an ignore condition.
func (b *JobBuilder) WithIgnoreCondition(name string, requirement entities.Requirement) *JobBuilder {
	b.job.IgnoreConditions = append(b.job.IgnoreConditions, entities.IgnoreCondition{
		DependencyName:     name,
		VersionRequirement: requirement,
	})
	return b
}

// SecurityUpdatesOnly restricts the job to vulnerable dependencies.
func (b *JobBuilder) SecurityUpdatesOnly() *JobBuilder {
	b.job.SecurityUpdatesOnly = true
	return b
}

// UpdatingAPullRequest turns the job into a refresh of an open PR.
func (b *JobBuilder) UpdatingAPullRequest() *JobBuilder {
	b.job.UpdatingAPullRequest = true
	return b
}

// RefreshingGroup turns the job into a refresh of the group's PR.
func (b *JobBuilder) RefreshingGroup(group string) *JobBuilder {
	b.job.UpdatingAPullRequest = true
	b.job.DependencyGroupToRefresh = group
	return b
}

// Build creates the job (satisfies testkit.Builder interface).
func (b *JobBuilder) Build() interface{} {
	return b.BuildJob()
}

// BuildJob creates the job with a concrete return type.
func (b *JobBuilder) BuildJob() *entities.Job {
	job := b.job
	return &job
}

// Reset clears the builder state, allowing it to be reused.
func (b *JobBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.job = defaultJob()
	return b
}

// Clone creates a copy of the JobBuilder.
func (b *JobBuilder) Clone() testkit.Builder {
	return &JobBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		job:         b.job,
	}
}

// pullRequestDependencies turns "name", "version", ... into PR dependencies.
func pullRequestDependencies(pairs []string) []entities.PullRequestDependency {
	deps := make([]entities.PullRequestDependency, 0, len(pairs)/2) //nolint:mnd // name/version pairs
	for i := 0; i+1 < len(pairs); i += 2 {
		deps = append(deps, entities.PullRequestDependency{Name: pairs[i], Version: pairs[i+1]})
	}
	return deps
}
