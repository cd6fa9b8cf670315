//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"

	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// SpyUpdateRepository implements repositories.UpdateRepository over simple
// manifests holding one "name=version" line per dependency. A declared
// dependency is rewritten in place and a transitive one gets a new pin line.
type SpyUpdateRepository struct {
	Fs afero.Fs
	// Errs fails the update of the given names.
	Errs map[string]error
	// Silent names are reported as updated without touching any file.
	Silent map[string]bool
	// spy: requests received
	Calls []entities.UpdateRequest
}

var _ repositories.UpdateRepository = (*SpyUpdateRepository)(nil)

// NewSpyUpdateRepository creates an updater writing through fs.
func NewSpyUpdateRepository(fs afero.Fs) *SpyUpdateRepository {
	return &SpyUpdateRepository{Fs: fs, Errs: make(map[string]error), Silent: make(map[string]bool)}
}

func (s *SpyUpdateRepository) Update(
	_ context.Context,
	request entities.UpdateRequest,
) (entities.UpdateOperationResult, error) {
	s.Calls = append(s.Calls, request)
	if err, ok := s.Errs[request.DependencyName]; ok {
		return entities.UpdateOperationResult{}, err
	}
	files := []string{request.ProjectPath}
	if s.Silent[request.DependencyName] {
		return entities.UpdateOperationResult{UpdateOperations: []entities.UpdateOperation{
			entities.NewDirectUpdate(request.DependencyName, request.NewVersion, files),
		}}, nil
	}

	content, err := afero.ReadFile(s.Fs, request.ProjectPath)
	if err != nil {
		return entities.UpdateOperationResult{}, err
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	target := request.DependencyName + "=" + request.NewVersion
	found := false
	for i, line := range lines {
		name, version, _ := strings.Cut(line, "=")
		if name != request.DependencyName {
			continue
		}
		found = true
		if version == request.NewVersion {
			return entities.UpdateOperationResult{}, nil
		}
		lines[i] = target
	}

	var operation entities.UpdateOperation = entities.NewDirectUpdate(request.DependencyName, request.NewVersion, files)
	if !found {
		lines = append(lines, target)
		operation = entities.NewPinnedUpdate(request.DependencyName, request.NewVersion, files)
	}

	if writeErr := afero.WriteFile(s.Fs, request.ProjectPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); writeErr != nil {
		return entities.UpdateOperationResult{}, writeErr
	}
	return entities.UpdateOperationResult{UpdateOperations: []entities.UpdateOperation{operation}}, nil
}

// UpdatedNames returns the names passed to Update, in call order.
func (s *SpyUpdateRepository) UpdatedNames() []string {
	names := make([]string, 0, len(s.Calls))
	for _, call := range s.Calls {
		names = append(names, call.DependencyName)
	}
	return names
}
