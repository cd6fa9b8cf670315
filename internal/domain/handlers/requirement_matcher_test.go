//go:build unit

package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/handlers"
)

func TestRequirementMatcher(t *testing.T) {
	t.Parallel()

	t.Run("should match constraint and interval syntax alike", func(t *testing.T) {
		// given
		matcher, err := handlers.NewRequirementMatcher(4)
		require.NoError(t, err)

		// when
		constraint, constraintErr := matcher.Matches(">= 1.0.0, < 2.0.0", "1.5.0")
		interval, intervalErr := matcher.Matches("[1.0.0, 2.0.0)", "2.0.0")

		// then
		require.NoError(t, constraintErr)
		require.NoError(t, intervalErr)
		assert.True(t, constraint)
		assert.False(t, interval)
	})

	t.Run("should return the same answer from the cache", func(t *testing.T) {
		// given
		matcher, err := handlers.NewRequirementMatcher(1)
		require.NoError(t, err)
		_, _ = matcher.Matches("< 3.0.0", "1.0.0")

		// when
		ok, matchErr := matcher.Matches("< 3.0.0", "4.0.0")

		// then
		require.NoError(t, matchErr)
		assert.False(t, ok)
	})

	t.Run("should keep evaluating after an invalid requirement", func(t *testing.T) {
		// given
		matcher, err := handlers.NewRequirementMatcher(4)
		require.NoError(t, err)
		requirements := []entities.Requirement{"[1.0.0", "= 1.2.3"}

		// when
		ok, matchErr := matcher.MatchesAny(requirements, "1.2.3")

		// then
		require.NoError(t, matchErr)
		assert.True(t, ok)
	})

	t.Run("should report an invalid requirement when nothing matched", func(t *testing.T) {
		// given
		matcher, err := handlers.NewRequirementMatcher(4)
		require.NoError(t, err)

		// when
		ok, matchErr := matcher.MatchesAny([]entities.Requirement{"not a range"}, "1.0.0")

		// then
		require.Error(t, matchErr)
		assert.False(t, ok)
	})

	t.Run("should refuse a zero sized cache", func(t *testing.T) {
		// given
		size := 0

		// when
		_, err := handlers.NewRequirementMatcher(size)

		// then
		assert.Error(t, err)
	})
}
