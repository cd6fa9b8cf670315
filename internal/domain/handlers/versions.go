package handlers

import (
	"strings"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// compareVersions orders two versions semantically, falling back to a plain
// string comparison when either side is not a version.
func compareVersions(a, b string) int {
	left, leftErr := entities.ParseVersion(a)
	right, rightErr := entities.ParseVersion(b)
	if leftErr != nil || rightErr != nil {
		return strings.Compare(a, b)
	}
	return left.Compare(right)
}

// sameVersion reports whether both strings denote the same version.
func sameVersion(a, b string) bool {
	return a == b || compareVersions(a, b) == 0
}

// highestVersion returns the greatest of the given versions.
func highestVersion(versions []string) string {
	var highest string
	for _, version := range versions {
		if highest == "" || compareVersions(version, highest) > 0 {
			highest = version
		}
	}
	return highest
}
