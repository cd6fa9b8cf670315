//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// StubCommitRepository returns a fixed head commit.
type StubCommitRepository struct {
	Sha   string
	Err   error
	Calls int
}

var _ repositories.CommitRepository = (*StubCommitRepository)(nil)

func (s *StubCommitRepository) HeadCommit(_ context.Context, _ string) (string, error) {
	s.Calls++
	return s.Sha, s.Err
}
