package gitrepo

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

// CommitRepository reads commits from a local git checkout.
type CommitRepository struct{}

// NewCommitRepository creates a CommitRepository.
func NewCommitRepository() repositories.CommitRepository {
	return &CommitRepository{}
}

// HeadCommit returns the sha HEAD points at in the checkout holding repoRoot.
func (r *CommitRepository) HeadCommit(_ context.Context, repoRoot string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %q: %w", repoRoot, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
