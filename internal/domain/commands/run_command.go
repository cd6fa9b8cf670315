package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/composer"
	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/handlers"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/updatebot/internal/infrastructure/repositories"
)

// Run is the interface for the run command.
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, job *entities.Job, opts entities.RunOptions) error
}

// FilesystemFactory opens the workspace filesystem rooted at a repository root.
type FilesystemFactory func(repoRoot string) afero.Fs

// NewRepositoryFilesystem roots the host filesystem at repoRoot.
func NewRepositoryFilesystem(repoRoot string) afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), repoRoot)
}

// RunCommand drives one job: discovery once, the handler selected by the
// job's mode, the composer, and finally the sink. It makes no decision itself.
type RunCommand struct {
	ecosystems *infraRepos.EcosystemRegistry
	sinks      *infraRepos.SinkRegistry
	commits    repositories.CommitRepository
	newFs      FilesystemFactory
}

// NewRunCommand creates a new RunCommand with the given registries.
func NewRunCommand(
	ecosystems *infraRepos.EcosystemRegistry,
	sinks *infraRepos.SinkRegistry,
	commits repositories.CommitRepository,
	newFs FilesystemFactory,
) *RunCommand {
	return &RunCommand{
		ecosystems: ecosystems,
		sinks:      sinks,
		commits:    commits,
		newFs:      newFs,
	}
}

// Execute runs the job and delivers the composed messages to the configured sink.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	job *entities.Job,
	opts entities.RunOptions,
) error {
	log := logger.WithFields(logger.Fields{
		"run_id":          uuid.NewString(),
		"job_id":          job.ID,
		"package_manager": job.PackageManager,
	})

	ecosystem, err := it.ecosystems.Get(settings, job.PackageManager)
	if err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}

	messages, err := it.Decide(ctx, ecosystem, settings, job, opts)
	if err != nil {
		return err
	}

	if opts.DryRun {
		for _, message := range messages {
			log.Infof("[dry-run] Would send %s", message.Type())
		}
		return nil
	}

	sink, err := it.sinks.Get(settings.Sink, job)
	if err != nil {
		return fmt.Errorf("failed to initialize sink: %w", err)
	}
	if sendErr := sink.Send(ctx, messages); sendErr != nil {
		return fmt.Errorf("failed to send messages: %w", sendErr)
	}

	log.Infof("Job complete: %d messages sent", len(messages))
	return nil
}

// Decide runs discovery, the selected handler and the composer, and returns
// the ordered messages of the job. A discovery failure aborts the job before
// any message is produced.
func (it *RunCommand) Decide(
	ctx context.Context,
	ecosystem repositories.EcosystemRepository,
	settings *entities.Settings,
	job *entities.Job,
	opts entities.RunOptions,
) ([]entities.OutputMessage, error) {
	baseCommit, err := it.baseCommit(ctx, job, opts.RepoRoot)
	if err != nil {
		return nil, err
	}

	logger.Infof("[%s] Discovering %s", ecosystem.Name(), job.Source.Directory)
	discovery, err := ecosystem.Discover(ctx, opts.RepoRoot, job.Source.Directory)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrDiscoveryFailed, err)
	}
	logger.Infof("[%s] Discovered %d project(s)", ecosystem.Name(), len(discovery.Projects))

	hc, err := handlers.NewContext(handlers.ContextInput{
		Job:                  job,
		Discovery:            discovery,
		RepoRoot:             opts.RepoRoot,
		Analyzer:             ecosystem,
		Updater:              ecosystem,
		Fs:                   it.newFs(opts.RepoRoot),
		RequirementCacheSize: settings.RequirementCacheSize,
	})
	if err != nil {
		return nil, err
	}

	handler := handlers.Select(job)
	logger.Infof("[%s] Handling job with %s", ecosystem.Name(), handler.Name())
	decisions := handler.Handle(ctx, hc)

	return composer.Compose(composer.Input{
		Job:               job,
		Discovery:         discovery,
		Operation:         handler.Name(),
		IncludeTransitive: handler.IncludesTransitive(),
		Decisions:         decisions,
		BaseCommitSha:     baseCommit,
	}), nil
}

func (it *RunCommand) baseCommit(ctx context.Context, job *entities.Job, repoRoot string) (string, error) {
	if job.Source.Commit != "" {
		return job.Source.Commit, nil
	}
	sha, err := it.commits.HeadCommit(ctx, repoRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base commit: %w", err)
	}
	return sha, nil
}
