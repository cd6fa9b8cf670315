//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// SpyAnalyzeRepository implements repositories.AnalyzeRepository as a
// configurable spy. Results and Errs are looked up by "name@version" first,
// then by name; anything else cannot update.
type SpyAnalyzeRepository struct {
	Results map[string]entities.AnalysisResult
	Errs    map[string]error
	// spy: dependencies that were analyzed
	Calls []entities.Dependency
}

var _ repositories.AnalyzeRepository = (*SpyAnalyzeRepository)(nil)

// NewSpyAnalyzeRepository creates an analyzer that can move each name to the
// given version.
func NewSpyAnalyzeRepository(targets map[string]string) *SpyAnalyzeRepository {
	spy := &SpyAnalyzeRepository{
		Results: make(map[string]entities.AnalysisResult),
		Errs:    make(map[string]error),
	}
	for name, version := range targets {
		spy.Results[name] = entities.AnalysisResult{CanUpdate: true, UpdatedVersion: version}
	}
	return spy
}

func (s *SpyAnalyzeRepository) Analyze(
	_ context.Context,
	_ string,
	_ *entities.WorkspaceDiscovery,
	dependency entities.Dependency,
) (entities.AnalysisResult, error) {
	s.Calls = append(s.Calls, dependency)
	for _, key := range []string{dependency.String(), dependency.Name} {
		if err, ok := s.Errs[key]; ok {
			return entities.AnalysisResult{}, err
		}
		if result, ok := s.Results[key]; ok {
			return result, nil
		}
	}
	return entities.AnalysisResult{}, nil
}

// AnalyzedNames returns the names passed to Analyze, in call order.
func (s *SpyAnalyzeRepository) AnalyzedNames() []string {
	names := make([]string, 0, len(s.Calls))
	for _, call := range s.Calls {
		names = append(names, call.Name)
	}
	return names
}
