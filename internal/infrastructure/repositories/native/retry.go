package native

import (
	"context"
	"fmt"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

//nolint:gochecknoglobals // compiled once
var (
	missingEnvVarPattern = regexp.MustCompile(`Environment variable not found \(([^)]*)\) in (\S+)`)
	envPlaceholder       = regexp.MustCompile(`\$\{[^}-]+\}`)
)

// runWithEnvRetry runs the helper and, only when it fails because a config
// file references an unset environment variable, strips the ${...}
// placeholders from that file and retries exactly once.
func runWithEnvRetry(
	ctx context.Context,
	fs afero.Fs,
	run func(ctx context.Context) ([]byte, error),
) ([]byte, error) {
	output, err := run(ctx)
	if err == nil {
		return output, nil
	}

	match := missingEnvVarPattern.FindSubmatch(output)
	if match == nil {
		return output, err
	}

	configFile := string(match[2])
	logger.Warnf("Environment variable %s is not set, removing placeholders from %s and retrying", match[1], configFile)
	if stripErr := stripEnvPlaceholders(fs, configFile); stripErr != nil {
		return output, fmt.Errorf("%w (and %w)", err, stripErr)
	}
	return run(ctx)
}

func stripEnvPlaceholders(fs afero.Fs, filePath string) error {
	info, err := fs.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", filePath, err)
	}
	content, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", filePath, err)
	}
	stripped := envPlaceholder.ReplaceAll(content, nil)
	if writeErr := afero.WriteFile(fs, filePath, stripped, info.Mode()); writeErr != nil {
		return fmt.Errorf("failed to write %q: %w", filePath, writeErr)
	}
	return nil
}
