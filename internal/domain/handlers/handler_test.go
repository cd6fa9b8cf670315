//go:build unit

package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/updatebot/internal/domain/handlers"
	builders "github.com/rios0rios0/updatebot/test/domain/entitybuilders"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	t.Run("should pick the security refresh handler when refreshing a security PR", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().SecurityUpdatesOnly().UpdatingAPullRequest().BuildJob()

		// when
		handler := handlers.Select(job)

		// then
		assert.Equal(t, "update_security_pr", handler.Name())
		assert.True(t, handler.IncludesTransitive())
	})

	t.Run("should pick the group refresh handler when a group is named", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().RefreshingGroup("microsoft").BuildJob()

		// when
		handler := handlers.Select(job)

		// then
		assert.Equal(t, "update_version_group_pr", handler.Name())
	})

	t.Run("should pick the version refresh handler when refreshing without a group", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().UpdatingAPullRequest().BuildJob()

		// when
		handler := handlers.Select(job)

		// then
		assert.Equal(t, "update_version_pr", handler.Name())
		assert.False(t, handler.IncludesTransitive())
	})

	t.Run("should pick the security create handler for security-only jobs", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().SecurityUpdatesOnly().BuildJob()

		// when
		handler := handlers.Select(job)

		// then
		assert.Equal(t, "create_security_pr", handler.Name())
	})

	t.Run("should pick the group handler when the job defines groups", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().WithDependencyGroup("all", nil, nil).BuildJob()

		// when
		handler := handlers.Select(job)

		// then
		assert.Equal(t, "group_update_all_versions", handler.Name())
	})

	t.Run("should fall back to updating every version", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().BuildJob()

		// when
		handler := handlers.Select(job)

		// then
		assert.Equal(t, "update_all_versions", handler.Name())
	})
}
