package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/updatebot/internal/domain/composer"
	"github.com/rios0rios0/updatebot/internal/domain/entities"
	infraRepos "github.com/rios0rios0/updatebot/internal/infrastructure/repositories"
)

// Discover is the interface for the discover command.
type Discover interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		job *entities.Job,
		opts entities.RunOptions,
	) (entities.UpdatedDependencyList, error)
}

// DiscoverCommand runs discovery only and renders the dependency-list report.
type DiscoverCommand struct {
	ecosystems *infraRepos.EcosystemRegistry
}

// NewDiscoverCommand creates a new DiscoverCommand.
func NewDiscoverCommand(ecosystems *infraRepos.EcosystemRegistry) *DiscoverCommand {
	return &DiscoverCommand{ecosystems: ecosystems}
}

// Execute discovers the job's workspace and returns its report.
func (it *DiscoverCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	job *entities.Job,
	opts entities.RunOptions,
) (entities.UpdatedDependencyList, error) {
	ecosystem, err := it.ecosystems.Get(settings, job.PackageManager)
	if err != nil {
		return entities.UpdatedDependencyList{}, fmt.Errorf("failed to initialize workers: %w", err)
	}

	discovery, err := ecosystem.Discover(ctx, opts.RepoRoot, job.Source.Directory)
	if err != nil {
		return entities.UpdatedDependencyList{}, fmt.Errorf("%w: %w", entities.ErrDiscoveryFailed, err)
	}
	return composer.Report(discovery, job.SecurityUpdatesOnly), nil
}
