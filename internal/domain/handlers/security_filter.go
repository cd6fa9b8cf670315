package handlers

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// SecurityFilter decides whether a dependency version is still vulnerable.
// It runs before any worker is called.
type SecurityFilter struct {
	advisories []entities.SecurityAdvisory
	matcher    *RequirementMatcher
}

// NewSecurityFilter creates a filter over the job's advisories.
func NewSecurityFilter(advisories []entities.SecurityAdvisory, matcher *RequirementMatcher) *SecurityFilter {
	return &SecurityFilter{advisories: advisories, matcher: matcher}
}

// IsVulnerable reports whether version of name is affected by an advisory.
// A version covered by a patched or unaffected range is never vulnerable.
// Without affected ranges, any version outside the patched ranges is.
func (f *SecurityFilter) IsVulnerable(name, version string) bool {
	if _, err := entities.ParseVersion(version); err != nil {
		// unknown versions are left to the analyze worker
		logger.Debugf("[security] Cannot parse version %q of %s: %v", version, name, err)
		return true
	}

	for _, advisory := range entities.AdvisoriesFor(f.advisories, name) {
		if f.isAffectedBy(advisory, version) {
			return true
		}
	}
	return false
}

func (f *SecurityFilter) isAffectedBy(advisory entities.SecurityAdvisory, version string) bool {
	safe, err := f.matcher.MatchesAny(advisory.PatchedVersions, version)
	if err != nil {
		logger.Warnf("[security] Invalid patched range for %s: %v", advisory.DependencyName, err)
	}
	if safe {
		return false
	}

	unaffected, err := f.matcher.MatchesAny(advisory.UnaffectedVersions, version)
	if err != nil {
		logger.Warnf("[security] Invalid unaffected range for %s: %v", advisory.DependencyName, err)
	}
	if unaffected {
		return false
	}

	if len(advisory.AffectedVersions) > 0 {
		affected, affectedErr := f.matcher.MatchesAny(advisory.AffectedVersions, version)
		if affectedErr != nil {
			logger.Warnf("[security] Invalid affected range for %s: %v", advisory.DependencyName, affectedErr)
		}
		return affected
	}
	return len(advisory.PatchedVersions) > 0
}

// VulnerableInstances keeps the instances whose current version is vulnerable.
func (f *SecurityFilter) VulnerableInstances(instances []entities.DependencyInstance) []entities.DependencyInstance {
	var vulnerable []entities.DependencyInstance
	for _, instance := range instances {
		if f.IsVulnerable(instance.Dependency.Name, instance.Dependency.Version) {
			vulnerable = append(vulnerable, instance)
			continue
		}
		logger.Infof(
			"[security] %s is not vulnerable in %s",
			instance.Dependency, instance.Project.FilePath,
		)
	}
	return vulnerable
}
