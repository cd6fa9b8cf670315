package repositories

import "context"

// CommitRepository resolves the commit the workspace is checked out at.
type CommitRepository interface {
	HeadCommit(ctx context.Context, repoRoot string) (string, error)
}
