//go:build unit

package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/handlers"
	builders "github.com/rios0rios0/updatebot/test/domain/entitybuilders"
)

func TestUpdateAllVersionsHandler(t *testing.T) {
	t.Parallel()

	t.Run("should create one PR per direct dependency from the original files", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Alpha": "1.1.0", "Beta": "2.0.0"},
			builders.NewProjectBuilder().
				WithDependency("Alpha", "1.0.0").
				WithDependency("Beta", "1.0.0").
				WithTransitiveDependency("Gamma", "1.0.0").
				BuildProject())
		job := builders.NewJobBuilder().BuildJob()

		// when
		decisions := handlers.NewUpdateAllVersionsHandler().Handle(context.Background(), h.context(t, job))

		// then
		require.Len(t, decisions, 2)
		assert.Equal(t, entities.DecisionCreate, decisions[0].Kind)
		assert.Equal(t, []string{"Alpha"}, decisions[0].DependencyNames)
		assert.Equal(t, "Alpha=1.1.0\nBeta=1.0.0\n", decisions[0].UpdatedFiles[0].Content)
		assert.Equal(t, entities.DecisionCreate, decisions[1].Kind)
		assert.Equal(t, []string{"Beta"}, decisions[1].DependencyNames)
		assert.Equal(t, "Alpha=1.0.0\nBeta=2.0.0\n", decisions[1].UpdatedFiles[0].Content)
		assert.Equal(t, "Alpha=1.0.0\nBeta=1.0.0\n", h.read(t, "/project.csproj"))
		assert.Equal(t, []string{"Alpha", "Beta"}, h.analyzer.AnalyzedNames())
	})

	t.Run("should take no action when an open PR already pins the same version", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Alpha": "1.1.0"},
			builders.NewProjectBuilder().WithDependency("Alpha", "1.0.0").BuildProject())
		job := builders.NewJobBuilder().WithExistingPullRequest("Alpha", "1.1.0").BuildJob()

		// when
		decisions := handlers.NewUpdateAllVersionsHandler().Handle(context.Background(), h.context(t, job))

		// then
		require.Len(t, decisions, 1)
		assert.False(t, decisions[0].IsMutation())
		assert.Empty(t, h.updater.Calls)
	})

	t.Run("should keep processing the other dependencies after an analyze failure", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Beta": "2.0.0"},
			builders.NewProjectBuilder().
				WithDependency("Alpha", "1.0.0").
				WithDependency("Beta", "1.0.0").
				BuildProject())
		h.analyzer.Errs["Alpha"] = errors.New("feed unreachable")
		job := builders.NewJobBuilder().BuildJob()

		// when
		decisions := handlers.NewUpdateAllVersionsHandler().Handle(context.Background(), h.context(t, job))

		// then
		require.Len(t, decisions, 2)
		assert.Equal(t, entities.DecisionNone, decisions[0].Kind)
		assert.ErrorIs(t, decisions[0].Err, entities.ErrAnalyzeFailed)
		assert.Equal(t, entities.DecisionCreate, decisions[1].Kind)
	})

	t.Run("should update every declaring project to the highest target", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithFilePath("b/b.csproj").WithDependency("Alpha", "1.0.0").BuildProject(),
			builders.NewProjectBuilder().WithFilePath("a/a.csproj").WithDependency("Alpha", "1.2.0").BuildProject(),
		)
		h.analyzer.Results["Alpha@1.0.0"] = entities.AnalysisResult{CanUpdate: true, UpdatedVersion: "1.3.0"}
		h.analyzer.Results["Alpha@1.2.0"] = entities.AnalysisResult{CanUpdate: true, UpdatedVersion: "1.4.0"}
		job := builders.NewJobBuilder().BuildJob()

		// when
		decisions := handlers.NewUpdateAllVersionsHandler().Handle(context.Background(), h.context(t, job))

		// then
		require.Len(t, decisions, 1)
		decision := decisions[0]
		assert.Equal(t, "1.4.0", decision.Changes[0].Version)
		assert.Equal(t, "1.0.0", decision.Changes[0].PreviousVersion)
		assert.Len(t, decision.Changes[0].Occurrences, 2)
		require.Len(t, decision.UpdatedFiles, 2)
		assert.Equal(t, "/a/a.csproj", decision.UpdatedFiles[0].Path())
		assert.Equal(t, "/b/b.csproj", decision.UpdatedFiles[1].Path())
		assert.Equal(t, []string{"/b/b.csproj", "/a/a.csproj"}, []string{
			h.updater.Calls[0].ProjectPath, h.updater.Calls[1].ProjectPath,
		})
	})

	t.Run("should take no action when nothing can be updated", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithDependency("Alpha", "1.0.0").BuildProject())
		job := builders.NewJobBuilder().BuildJob()

		// when
		decisions := handlers.NewUpdateAllVersionsHandler().Handle(context.Background(), h.context(t, job))

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionNone, decisions[0].Kind)
		assert.NoError(t, decisions[0].Err)
	})
}
