package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	WorkerTypeExec      = "exec"
	WorkerTypeTerraform = "terraform"

	SinkTypeJSONLines = "jsonl"
	SinkTypeGitHub    = "github"
	SinkTypeGitLab    = "gitlab"

	defaultRequirementCacheSize = 256
	defaultWorkerTimeout        = 10 * time.Minute
)

// Settings is the top-level configuration of updatebot.
type Settings struct {
	Workers              map[string]WorkerSettings `yaml:"workers"`
	Sink                 SinkSettings              `yaml:"sink"`
	RequirementCacheSize int                       `yaml:"requirement_cache_size"`
}

// WorkerSettings configures the discover/analyze/update workers of one
// package manager. Experiments are handed to the worker as-is.
type WorkerSettings struct {
	Type        string          `yaml:"type"`    // "exec", "terraform"
	Command     []string        `yaml:"command"` // exec only
	Token       string          `yaml:"token"`   // Inline, ${ENV_VAR}, or file path
	Timeout     time.Duration   `yaml:"timeout"`
	Experiments map[string]bool `yaml:"experiments"`
}

// SinkSettings selects where emitted messages are delivered.
type SinkSettings struct {
	Type    string `yaml:"type"`   // "jsonl", "github", "gitlab"
	Output  string `yaml:"output"` // jsonl only, "-" or empty for stdout
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and validates the settings file at path.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes, resolves and validates settings content.
func ParseSettings(data []byte) (*Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for name, worker := range settings.Workers {
		worker.Token = ResolveToken(worker.Token)
		if worker.Timeout == 0 {
			worker.Timeout = defaultWorkerTimeout
		}
		settings.Workers[name] = worker
	}
	settings.Sink.Token = ResolveToken(settings.Sink.Token)
	if settings.RequirementCacheSize <= 0 {
		settings.RequirementCacheSize = defaultRequirementCacheSize
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// DefaultSettings emits messages as JSON lines on stdout and only knows the
// built-in terraform workers.
func DefaultSettings() *Settings {
	return &Settings{
		Workers: map[string]WorkerSettings{
			WorkerTypeTerraform: {Type: WorkerTypeTerraform, Timeout: defaultWorkerTimeout},
		},
		Sink:                 SinkSettings{Type: SinkTypeJSONLines, Output: "-"},
		RequirementCacheSize: defaultRequirementCacheSize,
	}
}

// FindWorker returns the worker settings for a package manager.
func (s *Settings) FindWorker(packageManager string) (WorkerSettings, error) {
	worker, ok := s.Workers[packageManager]
	if !ok {
		return WorkerSettings{}, fmt.Errorf("%w: %q", ErrUnknownEcosystem, packageManager)
	}
	return worker, nil
}

func (s *Settings) validate() error {
	for name, worker := range s.Workers {
		switch worker.Type {
		case WorkerTypeExec:
			if len(worker.Command) == 0 {
				return fmt.Errorf("workers.%s.command is required for exec workers", name)
			}
		case WorkerTypeTerraform:
		case "":
			return fmt.Errorf("workers.%s.type is required", name)
		default:
			return fmt.Errorf("workers.%s.type %q is not supported", name, worker.Type)
		}
	}

	switch s.Sink.Type {
	case SinkTypeJSONLines:
	case SinkTypeGitHub, SinkTypeGitLab:
		if s.Sink.Token == "" {
			return errors.New("sink.token is required (set inline, via ${ENV_VAR}, or as file path)")
		}
	default:
		return fmt.Errorf("sink.type %q is not supported", s.Sink.Type)
	}
	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".updatebot.yaml",
		".updatebot.yml",
		"updatebot.yaml",
		"updatebot.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
