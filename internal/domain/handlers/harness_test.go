//go:build unit

package handlers_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/handlers"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
	doubles "github.com/rios0rios0/updatebot/test/infrastructure/repositorydoubles"
)

// harness is a workspace on an in-memory filesystem whose project files hold
// one "name=version" line per declared dependency.
type harness struct {
	fs        afero.Fs
	discovery *entities.WorkspaceDiscovery
	analyzer  *doubles.SpyAnalyzeRepository
	updater   *doubles.SpyUpdateRepository
}

func newHarness(t *testing.T, targets map[string]string, projects ...entities.Project) *harness {
	t.Helper()

	fs := afero.NewMemMapFs()
	discovery := &entities.WorkspaceDiscovery{Path: "/", Projects: projects}
	for _, project := range projects {
		var manifest strings.Builder
		for _, dep := range project.Dependencies {
			if dep.IsReportable() {
				fmt.Fprintf(&manifest, "%s=%s\n", dep.Name, dep.Version)
			}
		}
		require.NoError(t, afero.WriteFile(fs, discovery.ProjectPath(project), []byte(manifest.String()), 0o644))
	}

	return &harness{
		fs:        fs,
		discovery: discovery,
		analyzer:  doubles.NewSpyAnalyzeRepository(targets),
		updater:   doubles.NewSpyUpdateRepository(fs),
	}
}

func (h *harness) context(t *testing.T, job *entities.Job) *handlers.Context {
	t.Helper()
	return h.contextWith(t, job, h.updater)
}

func (h *harness) contextWith(t *testing.T, job *entities.Job, updater repositories.UpdateRepository) *handlers.Context {
	t.Helper()

	hc, err := handlers.NewContext(handlers.ContextInput{
		Job:                  job,
		Discovery:            h.discovery,
		RepoRoot:             "/repo",
		Analyzer:             h.analyzer,
		Updater:              updater,
		Fs:                   h.fs,
		RequirementCacheSize: 16,
	})
	require.NoError(t, err)
	return hc
}

func (h *harness) read(t *testing.T, path string) string {
	t.Helper()

	content, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)
	return string(content)
}
