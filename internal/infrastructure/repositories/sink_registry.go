package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// SinkFactory is a constructor function that creates a message sink for a job.
type SinkFactory func(settings entities.SinkSettings, job *entities.Job) (domainRepos.MessageSinkRepository, error)

// SinkRegistry manages all registered message sink implementations.
type SinkRegistry struct {
	sinks map[string]SinkFactory
}

// NewSinkRegistry creates an empty sink registry.
func NewSinkRegistry() *SinkRegistry {
	return &SinkRegistry{
		sinks: make(map[string]SinkFactory),
	}
}

// Register adds a sink factory under the given name (e.g. "jsonl").
func (r *SinkRegistry) Register(name string, factory SinkFactory) {
	r.sinks[name] = factory
}

// Get returns a configured sink for the given settings and job.
func (r *SinkRegistry) Get(
	settings entities.SinkSettings,
	job *entities.Job,
) (domainRepos.MessageSinkRepository, error) {
	factory, ok := r.sinks[settings.Type]
	if !ok {
		return nil, fmt.Errorf("unknown sink type: %q", settings.Type)
	}
	return factory(settings, job)
}

// Names returns the sorted list of registered sink names.
func (r *SinkRegistry) Names() []string {
	names := make([]string, 0, len(r.sinks))
	for name := range r.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
