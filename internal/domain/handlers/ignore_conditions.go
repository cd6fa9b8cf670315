package handlers

import (
	"github.com/gobwas/glob"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

type ignoreRule struct {
	name      glob.Glob
	condition entities.IgnoreCondition
}

func newIgnoreRules(conditions []entities.IgnoreCondition) []ignoreRule {
	rules := make([]ignoreRule, 0, len(conditions))
	for _, condition := range conditions {
		g, err := glob.Compile(condition.DependencyName)
		if err != nil {
			logger.Warnf("Ignoring invalid ignore condition %q: %v", condition.DependencyName, err)
			continue
		}
		rules = append(rules, ignoreRule{name: g, condition: condition})
	}
	return rules
}

// IsIgnored reports whether moving name to version is excluded by an ignore
// condition. A condition without a version requirement ignores every version.
func (c *Context) IsIgnored(name, version string) bool {
	for _, rule := range c.ignored {
		if !rule.name.Match(name) {
			continue
		}
		if rule.condition.VersionRequirement == "" {
			return true
		}
		matches, err := c.Matcher.Matches(rule.condition.VersionRequirement, version)
		if err != nil {
			logger.Warnf("Cannot evaluate ignore condition for %s: %v", name, err)
			continue
		}
		if matches {
			return true
		}
	}
	return false
}
