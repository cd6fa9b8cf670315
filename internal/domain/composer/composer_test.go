//go:build unit

package composer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/composer"
	"github.com/rios0rios0/updatebot/internal/domain/entities"
	builders "github.com/rios0rios0/updatebot/test/domain/entitybuilders"
)

func newInput(decisions ...entities.Decision) composer.Input {
	project := builders.NewProjectBuilder().
		WithFilePath("src/app.csproj").
		WithDependency("Some.Package", "1.0.0").
		WithTransitiveDependency("Deep.Package", "0.1.0").
		BuildProject()
	return composer.Input{
		Job:           builders.NewJobBuilder().BuildJob(),
		Discovery:     &entities.WorkspaceDiscovery{Path: "/", Projects: []entities.Project{project}},
		Operation:     "update_all_versions",
		Decisions:     decisions,
		BaseCommitSha: "0123456789abcdef",
	}
}

func someChange() entities.DependencyChange {
	return entities.DependencyChange{
		Name:            "Some.Package",
		Version:         "1.1.0",
		PreviousVersion: "1.0.0",
		Occurrences:     []entities.DependencyOccurrence{{File: "/src/app.csproj", PreviousVersion: "1.0.0"}},
	}
}

func messageTypes(messages []entities.OutputMessage) []string {
	types := make([]string, 0, len(messages))
	for _, message := range messages {
		types = append(types, message.Type())
	}
	return types
}

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("should frame the mutations with the report, the metric and the processed marker", func(t *testing.T) {
		// given
		input := newInput(
			entities.ClosePullRequestDecision([]string{"Old.Package"}, entities.CloseReasonDependenciesRemoved),
			entities.NoAction([]string{"Quiet.Package"}, nil),
		)

		// when
		messages := composer.Compose(input)

		// then
		assert.Equal(t, []string{
			entities.MessageTypeUpdateDependencyList,
			entities.MessageTypeIncrementMetric,
			entities.MessageTypeClosePullRequest,
			entities.MessageTypeMarkAsProcessed,
		}, messageTypes(messages))
		metric, ok := messages[1].(entities.IncrementMetric)
		require.True(t, ok)
		assert.Equal(t, "updater.started", metric.Metric)
		assert.Equal(t, map[string]string{"operation": "update_all_versions"}, metric.Tags)
		marker, ok := messages[3].(entities.MarkAsProcessed)
		require.True(t, ok)
		assert.Equal(t, "0123456789abcdef", marker.BaseCommitSha)
	})

	t.Run("should emit a close before the create of a recreated PR", func(t *testing.T) {
		// given
		input := newInput(entities.Decision{
			Kind:            entities.DecisionRecreate,
			Reason:          entities.CloseReasonDependenciesChanged,
			DependencyNames: []string{"Some.Package"},
			ClosedNames:     []string{"Some.Package"},
			Changes:         []entities.DependencyChange{someChange()},
		})

		// when
		messages := composer.Compose(input)

		// then
		require.Len(t, messages, 5)
		closing, ok := messages[2].(entities.ClosePullRequest)
		require.True(t, ok)
		assert.Equal(t, entities.CloseReasonDependenciesChanged, closing.Reason)
		assert.Nil(t, closing.DependencyGroup)
		created, ok := messages[3].(entities.CreatePullRequest)
		require.True(t, ok)
		assert.Equal(t, "Bump Some.Package from 1.0.0 to 1.1.0", created.PrTitle)
	})

	t.Run("should describe the requirements of a direct change", func(t *testing.T) {
		// given
		input := newInput(entities.Decision{
			Kind:            entities.DecisionCreate,
			DependencyNames: []string{"Some.Package"},
			Changes:         []entities.DependencyChange{someChange()},
			UpdatedFiles:    []entities.DependencyFile{{Directory: "/src", Name: "app.csproj", Content: "new"}},
		})

		// when
		messages := composer.Compose(input)

		// then
		created, ok := messages[2].(entities.CreatePullRequest)
		require.True(t, ok)
		require.Len(t, created.Dependencies, 1)
		dependency := created.Dependencies[0]
		assert.Equal(t, "1.1.0", dependency.Requirements[0].Requirement)
		assert.Equal(t, "/src/app.csproj", dependency.Requirements[0].File)
		assert.NotNil(t, dependency.Requirements[0].Source)
		assert.Equal(t, "1.0.0", dependency.PreviousRequirements[0].Requirement)
		assert.Nil(t, dependency.PreviousRequirements[0].Source)
		assert.Equal(t, "0123456789abcdef", created.BaseCommitSha)
		assert.Contains(t, created.CommitMessage, "Bumps Some.Package from 1.0.0 to 1.1.0.")
	})

	t.Run("should leave the requirements of a transitive change empty", func(t *testing.T) {
		// given
		change := someChange()
		change.IsTransitive = true
		input := newInput(entities.Decision{Kind: entities.DecisionCreate, Changes: []entities.DependencyChange{change}})

		// when
		messages := composer.Compose(input)

		// then
		created, ok := messages[2].(entities.CreatePullRequest)
		require.True(t, ok)
		assert.Empty(t, created.Dependencies[0].Requirements)
		assert.NotNil(t, created.Dependencies[0].Requirements)
		assert.Empty(t, created.Dependencies[0].PreviousRequirements)
	})

	t.Run("should carry the group on group PR messages", func(t *testing.T) {
		// given
		input := newInput(entities.Decision{
			Kind:            entities.DecisionUpdate,
			DependencyNames: []string{"Some.Package"},
			Group:           "core",
			Changes:         []entities.DependencyChange{someChange()},
		})

		// when
		messages := composer.Compose(input)

		// then
		updated, ok := messages[2].(entities.UpdatePullRequest)
		require.True(t, ok)
		require.NotNil(t, updated.DependencyGroup)
		assert.Equal(t, "core", updated.DependencyGroup.Name)
		assert.Equal(t, "Bump the core group with 1 update", updated.PrTitle)
		assert.Contains(t, updated.PrBody, "| `Some.Package` | `1.0.0` | `1.1.0` |")
	})

	t.Run("should record an error for a failed unit", func(t *testing.T) {
		// given
		err := fmt.Errorf("%w: Some.Package", entities.ErrUpdateFailed)
		input := newInput(entities.NoAction([]string{"Some.Package"}, errors.Join(err)))

		// when
		messages := composer.Compose(input)

		// then
		require.Len(t, messages, 4)
		record, ok := messages[2].(entities.RecordUpdateJobError)
		require.True(t, ok)
		assert.Equal(t, "update_failed", record.ErrorType)
		assert.Equal(t, []string{"Some.Package"}, record.ErrorDetails["dependency-names"])
	})

	t.Run("should render the same messages twice", func(t *testing.T) {
		// given
		input := newInput(entities.Decision{
			Kind:    entities.DecisionCreate,
			Changes: []entities.DependencyChange{someChange()},
		})

		// when
		first := composer.Compose(input)
		second := composer.Compose(input)

		// then
		assert.Equal(t, first, second)
	})
}

func TestPullRequestTitles(t *testing.T) {
	t.Parallel()

	t.Run("should join several names and name the directory", func(t *testing.T) {
		// given
		other := someChange()
		other.Name = "Other.Package"
		third := someChange()
		third.Name = "Third.Package"
		input := newInput(entities.Decision{
			Kind:    entities.DecisionCreate,
			Changes: []entities.DependencyChange{someChange(), other, third},
		})
		input.Job = builders.NewJobBuilder().WithDirectory("/src").BuildJob()

		// when
		messages := composer.Compose(input)

		// then
		created, ok := messages[2].(entities.CreatePullRequest)
		require.True(t, ok)
		assert.Equal(t, "Bump Some.Package, Other.Package and Third.Package in /src", created.PrTitle)
		assert.Equal(t, 1, strings.Count(created.PrBody, "- `/src/app.csproj`"))
	})
}
