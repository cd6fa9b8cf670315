package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// EcosystemFactory builds the workers of one package manager from its settings.
type EcosystemFactory func(name string, settings entities.WorkerSettings) (domainRepos.EcosystemRepository, error)

// EcosystemRegistry maps worker types (e.g. "exec", "terraform") to factories.
type EcosystemRegistry struct {
	factories map[string]EcosystemFactory
}

// NewEcosystemRegistry creates an empty ecosystem registry.
func NewEcosystemRegistry() *EcosystemRegistry {
	return &EcosystemRegistry{
		factories: make(map[string]EcosystemFactory),
	}
}

// Register adds a factory under the given worker type.
func (r *EcosystemRegistry) Register(workerType string, factory EcosystemFactory) {
	r.factories[workerType] = factory
}

// Get returns the workers configured for a package manager.
func (r *EcosystemRegistry) Get(
	settings *entities.Settings,
	packageManager string,
) (domainRepos.EcosystemRepository, error) {
	workerSettings, err := settings.FindWorker(packageManager)
	if err != nil {
		return nil, err
	}

	factory, ok := r.factories[workerSettings.Type]
	if !ok {
		return nil, fmt.Errorf("%w: worker type %q", entities.ErrUnknownEcosystem, workerSettings.Type)
	}
	return factory(packageManager, workerSettings)
}

// Names returns the sorted list of registered worker types.
func (r *EcosystemRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
