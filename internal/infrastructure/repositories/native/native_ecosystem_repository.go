package native

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

const (
	operationDiscover = "discover"
	operationAnalyze  = "analyze"
	operationUpdate   = "update"
)

// EcosystemRepository delegates discovery, analysis and updates to a native
// helper speaking a JSON file protocol:
//
//	<command...> <operation> <request.json> <response.json>
//
// Experiments from the settings are forwarded in every request.
type EcosystemRepository struct {
	name        string
	command     []string
	experiments map[string]bool
	timeout     time.Duration
	fs          afero.Fs
	run         CommandRunner
}

// NewEcosystemRepository creates the native workers from their settings.
func NewEcosystemRepository(name string, settings entities.WorkerSettings) (repositories.EcosystemRepository, error) {
	return NewEcosystemRepositoryWith(name, settings, afero.NewOsFs(), RunCommand)
}

// NewEcosystemRepositoryWith creates the native workers over the given
// filesystem and runner.
func NewEcosystemRepositoryWith(
	name string,
	settings entities.WorkerSettings,
	fs afero.Fs,
	run CommandRunner,
) (*EcosystemRepository, error) {
	if len(settings.Command) == 0 {
		return nil, errors.New("native helper command is required")
	}
	return &EcosystemRepository{
		name:        name,
		command:     settings.Command,
		experiments: settings.Experiments,
		timeout:     settings.Timeout,
		fs:          fs,
		run:         run,
	}, nil
}

func (r *EcosystemRepository) Name() string { return r.name }

func (r *EcosystemRepository) Discover(
	ctx context.Context,
	repoRoot, workspacePath string,
) (*entities.WorkspaceDiscovery, error) {
	discovery, err := call[entities.WorkspaceDiscovery](ctx, r, operationDiscover, repoRoot, discoverRequest{
		RepoRoot:      repoRoot,
		WorkspacePath: workspacePath,
		Experiments:   r.experiments,
	})
	if err != nil {
		return nil, err
	}
	if discovery.Path == "" {
		discovery.Path = workspacePath
	}
	return &discovery, nil
}

func (r *EcosystemRepository) Analyze(
	ctx context.Context,
	repoRoot string,
	discovery *entities.WorkspaceDiscovery,
	dependency entities.Dependency,
) (entities.AnalysisResult, error) {
	return call[entities.AnalysisResult](ctx, r, operationAnalyze, repoRoot, analyzeRequest{
		RepoRoot:    repoRoot,
		Discovery:   discovery,
		Dependency:  dependency,
		Experiments: r.experiments,
	})
}

func (r *EcosystemRepository) Update(
	ctx context.Context,
	request entities.UpdateRequest,
) (entities.UpdateOperationResult, error) {
	result, err := call[updateResult](ctx, r, operationUpdate, request.RepoRoot, updateRequest{
		UpdateRequest: request,
		Experiments:   r.experiments,
	})
	if err != nil {
		return entities.UpdateOperationResult{}, err
	}
	return result.toEntity()
}

// call runs one helper operation and decodes its response file.
func call[T any](ctx context.Context, r *EcosystemRepository, operation, repoRoot string, request any) (T, error) {
	var zero T
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	requestFile, err := r.writeRequest(request)
	if err != nil {
		return zero, err
	}
	defer r.remove(requestFile)

	responseFile, err := r.createTemp("updatebot-response-*.json")
	if err != nil {
		return zero, err
	}
	defer r.remove(responseFile)

	args := make([]string, 0, len(r.command)+2) //nolint:mnd // operation and two files
	args = append(args, r.command[1:]...)
	args = append(args, operation, requestFile, responseFile)

	logger.Debugf("[%s] Running %s %v", r.name, r.command[0], args)
	output, err := runWithEnvRetry(ctx, r.fs, func(ctx context.Context) ([]byte, error) {
		return r.run(ctx, repoRoot, os.Environ(), r.command[0], args...)
	})
	if err != nil {
		return zero, fmt.Errorf("[%s] %s failed: %w\n%s", r.name, operation, err, output)
	}

	data, err := afero.ReadFile(r.fs, responseFile)
	if err != nil {
		return zero, fmt.Errorf("[%s] failed to read %s response: %w", r.name, operation, err)
	}

	var decoded response[T]
	if unmarshalErr := json.Unmarshal(data, &decoded); unmarshalErr != nil {
		return zero, fmt.Errorf("[%s] failed to parse %s response: %w", r.name, operation, unmarshalErr)
	}
	if decoded.Error != "" {
		return zero, fmt.Errorf("[%s] %s: %s", r.name, operation, decoded.Error)
	}
	return decoded.Data, nil
}

func (r *EcosystemRepository) writeRequest(request any) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	name, err := r.createTemp("updatebot-request-*.json")
	if err != nil {
		return "", err
	}
	if writeErr := afero.WriteFile(r.fs, name, data, 0o600); writeErr != nil { //nolint:mnd // owner-only
		return "", fmt.Errorf("failed to write request: %w", writeErr)
	}
	return name, nil
}

func (r *EcosystemRepository) createTemp(pattern string) (string, error) {
	file, err := afero.TempFile(r.fs, "", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := file.Name()
	if closeErr := file.Close(); closeErr != nil {
		return "", fmt.Errorf("failed to close %q: %w", name, closeErr)
	}
	return name, nil
}

func (r *EcosystemRepository) remove(name string) {
	if err := r.fs.Remove(name); err != nil {
		logger.Debugf("[%s] Failed to remove %s: %v", r.name, name, err)
	}
}
