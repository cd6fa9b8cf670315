package entities

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Requirement is a version range as written in advisories and ignore
// conditions. Both constraint syntax ("= 1.0.0", ">= 1.0.0, < 2.0.0",
// "^1.2", "a || b") and interval notation ("[1.0.0, 2.0.0)") are accepted.
type Requirement string

// Parse compiles the requirement into semver constraints.
func (r Requirement) Parse() (*semver.Constraints, error) {
	raw := strings.TrimSpace(string(r))
	if raw == "" {
		return nil, fmt.Errorf("empty requirement")
	}

	alternatives := strings.Split(raw, "||")
	translated := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		expr, err := translateInterval(strings.TrimSpace(alt))
		if err != nil {
			return nil, fmt.Errorf("invalid requirement %q: %w", raw, err)
		}
		translated = append(translated, expr)
	}

	constraints, err := semver.NewConstraint(strings.Join(translated, " || "))
	if err != nil {
		return nil, fmt.Errorf("invalid requirement %q: %w", raw, err)
	}
	return constraints, nil
}

// translateInterval rewrites interval notation into constraint syntax and
// leaves any other expression untouched.
func translateInterval(expr string) (string, error) {
	if expr == "" {
		return "", fmt.Errorf("empty range")
	}
	opening := expr[0]
	if opening != '[' && opening != '(' {
		return expr, nil
	}

	closing := expr[len(expr)-1]
	if closing != ']' && closing != ')' {
		return "", fmt.Errorf("unterminated interval %q", expr)
	}

	body := expr[1 : len(expr)-1]
	lower, upper, hasComma := strings.Cut(body, ",")
	lower = strings.TrimSpace(lower)
	upper = strings.TrimSpace(upper)

	if !hasComma {
		// "[1.0.0]" pins a single version
		if opening != '[' || closing != ']' || lower == "" {
			return "", fmt.Errorf("invalid exact interval %q", expr)
		}
		return "= " + lower, nil
	}

	var parts []string
	if lower != "" {
		op := ">"
		if opening == '[' {
			op = ">="
		}
		parts = append(parts, op+" "+lower)
	}
	if upper != "" {
		op := "<"
		if closing == ']' {
			op = "<="
		}
		parts = append(parts, op+" "+upper)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("interval %q has no bounds", expr)
	}
	return strings.Join(parts, ", "), nil
}

// ParseVersion parses a version string leniently. Four-part versions with a
// zero revision ("1.2.3.0") are reduced to three parts.
func ParseVersion(version string) (*semver.Version, error) {
	trimmed := strings.TrimSpace(version)
	parsed, err := semver.NewVersion(trimmed)
	if err == nil {
		return parsed, nil
	}

	if segments := strings.Split(trimmed, "."); len(segments) == 4 && segments[3] == "0" { //nolint:mnd // major.minor.patch.revision
		if reduced, reducedErr := semver.NewVersion(strings.Join(segments[:3], ".")); reducedErr == nil {
			return reduced, nil
		}
	}
	return nil, fmt.Errorf("invalid version %q: %w", version, err)
}
