package handlers

import (
	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// Context carries everything a handler needs for one job. It is built per
// job and discarded afterwards.
type Context struct {
	Job          *entities.Job
	Discovery    *entities.WorkspaceDiscovery
	RepoRoot     string
	Analyzer     repositories.AnalyzeRepository
	Updater      repositories.UpdateRepository
	Workspace    *WorkspaceFiles
	PullRequests *PullRequestIndex
	Security     *SecurityFilter
	Matcher      *RequirementMatcher
	ignored      []ignoreRule
}

// ContextInput groups the arguments of NewContext.
type ContextInput struct {
	Job                  *entities.Job
	Discovery            *entities.WorkspaceDiscovery
	RepoRoot             string
	Analyzer             repositories.AnalyzeRepository
	Updater              repositories.UpdateRepository
	Fs                   afero.Fs
	RequirementCacheSize int
}

// NewContext builds the per-job handler context.
func NewContext(input ContextInput) (*Context, error) {
	matcher, err := NewRequirementMatcher(input.RequirementCacheSize)
	if err != nil {
		return nil, err
	}

	return &Context{
		Job:          input.Job,
		Discovery:    input.Discovery,
		RepoRoot:     input.RepoRoot,
		Analyzer:     input.Analyzer,
		Updater:      input.Updater,
		Workspace:    NewWorkspaceFiles(input.Fs, input.Discovery.DependencyFiles()...),
		PullRequests: NewPullRequestIndex(input.Job.ExistingPullRequests),
		Security:     NewSecurityFilter(input.Job.SecurityAdvisories, matcher),
		Matcher:      matcher,
		ignored:      newIgnoreRules(input.Job.IgnoreConditions),
	}, nil
}
