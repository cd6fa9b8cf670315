package handlers

import (
	"github.com/gobwas/glob"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// namePatterns is a compiled list of dependency-name globs.
type namePatterns []glob.Glob

func compileNamePatterns(patterns []string) namePatterns {
	compiled := make(namePatterns, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			logger.Warnf("Ignoring invalid dependency pattern %q: %v", pattern, err)
			continue
		}
		compiled = append(compiled, g)
	}
	return compiled
}

func (p namePatterns) matchAny(name string) bool {
	for _, g := range p {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// groupRule decides membership of a dependency group.
type groupRule struct {
	group    entities.DependencyGroup
	include  namePatterns
	excludes namePatterns
}

func newGroupRule(group entities.DependencyGroup) groupRule {
	return groupRule{
		group:    group,
		include:  compileNamePatterns(group.Rules.Patterns),
		excludes: compileNamePatterns(group.Rules.ExcludePatterns),
	}
}

// matches reports whether name belongs to the group. A group without
// patterns takes every dependency.
func (r groupRule) matches(name string) bool {
	if r.excludes.matchAny(name) {
		return false
	}
	if len(r.include) == 0 {
		return true
	}
	return r.include.matchAny(name)
}
