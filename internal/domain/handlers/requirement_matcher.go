package handlers

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// RequirementMatcher checks versions against requirements, memoising the
// parsed constraints. One matcher lives for the duration of a job.
type RequirementMatcher struct {
	cache *lru.Cache[entities.Requirement, *semver.Constraints]
}

// NewRequirementMatcher creates a matcher that keeps up to size parsed requirements.
func NewRequirementMatcher(size int) (*RequirementMatcher, error) {
	cache, err := lru.New[entities.Requirement, *semver.Constraints](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create requirement cache: %w", err)
	}
	return &RequirementMatcher{cache: cache}, nil
}

// Matches reports whether version satisfies requirement.
func (m *RequirementMatcher) Matches(requirement entities.Requirement, version string) (bool, error) {
	constraints, err := m.constraints(requirement)
	if err != nil {
		return false, err
	}
	parsed, err := entities.ParseVersion(version)
	if err != nil {
		return false, err
	}
	return constraints.Check(parsed), nil
}

// MatchesAny reports whether version satisfies at least one requirement.
// Requirements that cannot be parsed are returned as an error alongside
// the result of the remaining ones.
func (m *RequirementMatcher) MatchesAny(requirements []entities.Requirement, version string) (bool, error) {
	var firstErr error
	for _, requirement := range requirements {
		ok, err := m.Matches(requirement, version)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, firstErr
}

func (m *RequirementMatcher) constraints(requirement entities.Requirement) (*semver.Constraints, error) {
	if cached, ok := m.cache.Get(requirement); ok {
		return cached, nil
	}
	constraints, err := requirement.Parse()
	if err != nil {
		return nil, err
	}
	m.cache.Add(requirement, constraints)
	return constraints, nil
}
