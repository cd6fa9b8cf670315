//go:build unit

package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/handlers"
	builders "github.com/rios0rios0/updatebot/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/updatebot/test/infrastructure/repositorydoubles"
)

func securityRefreshJob() *builders.JobBuilder {
	return builders.NewJobBuilder().
		SecurityUpdatesOnly().
		UpdatingAPullRequest().
		WithDependencies("Some.Dependency").
		WithExistingPullRequest("Some.Dependency", "2.0.0").
		WithSecurityAdvisory("Some.Dependency", []entities.Requirement{"= 1.0.0"}, nil)
}

func TestRefreshSecurityUpdateHandler(t *testing.T) {
	t.Parallel()

	t.Run("should update the PR when the analyzed version equals the pinned one", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Some.Dependency": "2.0.0"},
			builders.NewProjectBuilder().WithFilePath("src/app/app.csproj").WithDependency("Some.Dependency", "1.0.0").BuildProject())
		hc := h.context(t, securityRefreshJob().BuildJob())

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionUpdate, decisions[0].Kind)
		assert.Equal(t, []string{"Some.Dependency"}, decisions[0].DependencyNames)
		require.Len(t, decisions[0].UpdatedFiles, 1)
		assert.Equal(t, "/src/app/app.csproj", decisions[0].UpdatedFiles[0].Path())
		assert.Equal(t, "Some.Dependency=2.0.0\n", decisions[0].UpdatedFiles[0].Content)
		require.Len(t, decisions[0].Changes, 1)
		assert.Equal(t, "1.0.0", decisions[0].Changes[0].PreviousVersion)
		assert.Equal(t, "2.0.0", decisions[0].Changes[0].Version)
		assert.Len(t, h.updater.Calls, 1)
	})

	t.Run("should close as removed without calling any worker when the dependency is gone", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Some.Dependency": "2.0.0"},
			builders.NewProjectBuilder().WithDependency("Other.Dependency", "1.0.0").BuildProject())
		hc := h.context(t, securityRefreshJob().BuildJob())

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonDependenciesRemoved, decisions[0].Reason)
		assert.Empty(t, h.analyzer.Calls)
		assert.Empty(t, h.updater.Calls)
	})

	t.Run("should close as dependency removed when only some tracked names are gone", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithDependency("Some.Dependency", "1.0.0").BuildProject())
		job := builders.NewJobBuilder().
			SecurityUpdatesOnly().
			UpdatingAPullRequest().
			WithDependencies("Some.Dependency", "Gone.Dependency").
			WithExistingPullRequest("Some.Dependency", "2.0.0", "Gone.Dependency", "3.0.0").
			BuildJob()
		hc := h.context(t, job)

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonDependencyRemoved, decisions[0].Reason)
		assert.Equal(t, []string{"Gone.Dependency", "Some.Dependency"}, decisions[0].DependencyNames)
		assert.Empty(t, h.analyzer.Calls)
	})

	t.Run("should close as up to date without calling any worker when no longer vulnerable", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Some.Dependency": "2.0.0"},
			builders.NewProjectBuilder().WithDependency("Some.Dependency", "2.0.0").BuildProject())
		job := builders.NewJobBuilder().
			SecurityUpdatesOnly().
			UpdatingAPullRequest().
			WithDependencies("Some.Dependency").
			WithExistingPullRequest("Some.Dependency", "2.0.0").
			WithSecurityAdvisory("Some.Dependency", []entities.Requirement{"= 1.0.0"}, []entities.Requirement{">= 2.0.0"}).
			BuildJob()
		hc := h.context(t, job)

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonUpToDate, decisions[0].Reason)
		assert.Empty(t, h.analyzer.Calls)
		assert.Empty(t, h.updater.Calls)
	})

	t.Run("should close as no longer possible without updating when analysis cannot update", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithDependency("Some.Dependency", "1.0.0").BuildProject())
		hc := h.context(t, securityRefreshJob().BuildJob())

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonUpdateNoLongerPossible, decisions[0].Reason)
		assert.Len(t, h.analyzer.Calls, 1)
		assert.Empty(t, h.updater.Calls)
	})

	t.Run("should recreate the PR when the analyzed version differs from the pinned one", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Some.Dependency": "2.1.0"},
			builders.NewProjectBuilder().WithDependency("Some.Dependency", "1.0.0").BuildProject())
		hc := h.context(t, securityRefreshJob().BuildJob())

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionRecreate, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonDependenciesChanged, decisions[0].Reason)
		assert.Equal(t, []string{"Some.Dependency"}, decisions[0].ClosedNames)
		assert.Equal(t, "2.1.0", decisions[0].Changes[0].Version)
	})

	t.Run("should isolate an analyze failure as no action with the error attached", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithDependency("Some.Dependency", "1.0.0").BuildProject())
		h.analyzer.Errs["Some.Dependency"] = errors.New("restore failed")
		hc := h.context(t, securityRefreshJob().BuildJob())

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionNone, decisions[0].Kind)
		require.Error(t, decisions[0].Err)
		assert.ErrorIs(t, decisions[0].Err, entities.ErrAnalyzeFailed)
		assert.Empty(t, h.updater.Calls)
	})

	t.Run("should pin a vulnerable transitive dependency", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Some.Dependency": "2.0.0"},
			builders.NewProjectBuilder().
				WithDependency("Parent.Dependency", "1.0.0").
				WithTransitiveDependency("Some.Dependency", "1.0.0").
				BuildProject())
		hc := h.context(t, securityRefreshJob().BuildJob())

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionUpdate, decisions[0].Kind)
		assert.True(t, decisions[0].Changes[0].IsTransitive)
		require.Len(t, h.updater.Calls, 1)
		assert.True(t, h.updater.Calls[0].IsTransitive)
		assert.Equal(t, "Parent.Dependency=1.0.0\nSome.Dependency=2.0.0\n", h.read(t, "/project.csproj"))
	})

	t.Run("should treat a project satisfied by a shared file as already updated", func(t *testing.T) {
		// given
		h := newHarness(t, map[string]string{"Some.Dependency": "2.0.0"},
			builders.NewProjectBuilder().WithFilePath("src/a/a.csproj").
				WithDependency("Some.Dependency", "1.0.0").
				WithImportedFile("../../Directory.Packages.props").BuildProject(),
			builders.NewProjectBuilder().WithFilePath("src/b/b.csproj").
				WithDependency("Some.Dependency", "1.0.0").
				WithImportedFile("../../Directory.Packages.props").BuildProject(),
		)
		const shared = "/Directory.Packages.props"
		require.NoError(t, afero.WriteFile(h.fs, shared, []byte("Some.Dependency=1.0.0\n"), 0o644))

		var projects []string
		updater := doubles.UpdateRepositoryFunc(
			func(_ context.Context, request entities.UpdateRequest) (entities.UpdateOperationResult, error) {
				projects = append(projects, request.ProjectPath)
				content, err := afero.ReadFile(h.fs, shared)
				if err != nil {
					return entities.UpdateOperationResult{}, err
				}
				pinned := "Some.Dependency=" + request.NewVersion + "\n"
				if string(content) == pinned {
					return entities.UpdateOperationResult{}, nil
				}
				if writeErr := afero.WriteFile(h.fs, shared, []byte(pinned), 0o644); writeErr != nil {
					return entities.UpdateOperationResult{}, writeErr
				}
				return entities.UpdateOperationResult{UpdateOperations: []entities.UpdateOperation{
					entities.NewDirectUpdate(request.DependencyName, request.NewVersion, []string{shared}),
				}}, nil
			},
		)
		hc := h.contextWith(t, securityRefreshJob().BuildJob(), updater)

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionUpdate, decisions[0].Kind)
		require.NoError(t, decisions[0].Err)
		assert.Equal(t, []string{"/src/a/a.csproj", "/src/b/b.csproj"}, projects)
		require.Len(t, decisions[0].UpdatedFiles, 1)
		assert.Equal(t, shared, decisions[0].UpdatedFiles[0].Path())
		assert.Len(t, decisions[0].Changes[0].Occurrences, 2)
	})

	t.Run("should close as dependency removed when each tracked name has its own PR", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithDependency("Some.Dependency", "1.0.0").BuildProject())
		job := builders.NewJobBuilder().
			SecurityUpdatesOnly().
			UpdatingAPullRequest().
			WithDependencies("Some.Dependency", "Other.Dependency").
			WithExistingPullRequest("Some.Dependency", "1.1.0").
			WithExistingPullRequest("Other.Dependency", "1.1.0").
			WithSecurityAdvisory("Some.Dependency", []entities.Requirement{"= 1.0.0"}, nil).
			WithSecurityAdvisory("Other.Dependency", []entities.Requirement{"= 1.0.0"}, nil).
			BuildJob()
		hc := h.context(t, job)

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonDependencyRemoved, decisions[0].Reason)
		assert.Equal(t, []string{"Other.Dependency", "Some.Dependency"}, decisions[0].DependencyNames)
		assert.Empty(t, h.analyzer.Calls)
		assert.Empty(t, h.updater.Calls)
	})

	t.Run("should close as removed even when no PR is known for the tracked names", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().WithDependency("Other.Dependency", "1.0.0").BuildProject())
		job := builders.NewJobBuilder().
			SecurityUpdatesOnly().
			UpdatingAPullRequest().
			WithDependencies("Some.Dependency").
			BuildJob()
		hc := h.context(t, job)

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonDependenciesRemoved, decisions[0].Reason)
		assert.Equal(t, []string{"Some.Dependency"}, decisions[0].DependencyNames)
	})

	t.Run("should close as up to date when no PR tracks exactly the names", func(t *testing.T) {
		// given
		h := newHarness(t, nil,
			builders.NewProjectBuilder().
				WithDependency("Some.Dependency", "2.0.0").
				WithDependency("Other.Dependency", "2.0.0").
				BuildProject())
		job := builders.NewJobBuilder().
			SecurityUpdatesOnly().
			UpdatingAPullRequest().
			WithDependencies("Some.Dependency", "Other.Dependency").
			WithExistingPullRequest("Some.Dependency", "2.0.0").
			WithSecurityAdvisory("Some.Dependency", []entities.Requirement{"= 1.0.0"}, nil).
			WithSecurityAdvisory("Other.Dependency", []entities.Requirement{"= 1.0.0"}, nil).
			BuildJob()
		hc := h.context(t, job)

		// when
		decisions := handlers.NewRefreshSecurityUpdateHandler().Handle(context.Background(), hc)

		// then
		require.Len(t, decisions, 1)
		assert.Equal(t, entities.DecisionClose, decisions[0].Kind)
		assert.Equal(t, entities.CloseReasonUpToDate, decisions[0].Reason)
		assert.Equal(t, []string{"Other.Dependency", "Some.Dependency"}, decisions[0].DependencyNames)
	})
}
