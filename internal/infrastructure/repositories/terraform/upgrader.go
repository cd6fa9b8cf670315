package terraform

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// isNewerVersion compares two version strings and returns true if newVersion is newer.
func isNewerVersion(currentVersion, newVersion string) bool {
	current := normalizeVersion(currentVersion)
	candidate := normalizeVersion(newVersion)

	if semver.IsValid(current) && semver.IsValid(candidate) {
		return semver.Compare(candidate, current) > 0
	}
	return newVersion > currentVersion
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility.
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// latestVersion picks the newest stable tag above current. Tags keep their
// original spelling. Pre-releases are only considered when current is one.
func latestVersion(current string, tags []string) (string, bool) {
	allowPrerelease := semver.Prerelease(normalizeVersion(current)) != ""

	var candidates []string
	for _, tag := range tags {
		normalized := normalizeVersion(tag)
		if !semver.IsValid(normalized) {
			continue
		}
		if semver.Prerelease(normalized) != "" && !allowPrerelease {
			continue
		}
		if isNewerVersion(current, tag) {
			candidates = append(candidates, tag)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return semver.Compare(normalizeVersion(candidates[i]), normalizeVersion(candidates[j])) > 0
	})
	return candidates[0], true
}

// applyUpgrade rewrites every ?ref= pin of the given module source from
// oldVersion to newVersion.
func applyUpgrade(content, source, oldVersion, newVersion string) string {
	pattern := regexp.MustCompile(
		`(source\s*=\s*"` + sourcePattern(source) + `\?(?:[^"]*&)?ref=)` +
			regexp.QuoteMeta(oldVersion) + `([&"])`,
	)
	return pattern.ReplaceAllString(content, "${1}"+newVersion+"${2}")
}

// sourcePattern matches the source as written, with or without the query
// part that held the ref.
func sourcePattern(source string) string {
	base, _, _ := strings.Cut(source, "?")
	return regexp.QuoteMeta(base)
}
