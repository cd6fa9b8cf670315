//go:build unit

package entities_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"
)

func mustVersion(t *testing.T, raw string) *semver.Version {
	t.Helper()

	version, err := semver.NewVersion(raw)
	require.NoError(t, err)
	return version
}
