package terraform

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
)

const (
	ecosystemName   = "terraform"
	terraformSuffix = ".tf"
	filePermissions = 0o644
)

// EcosystemRepository discovers git-pinned Terraform modules, finds newer
// tags on their remotes and rewrites the ?ref= pins.
type EcosystemRepository struct {
	name     string
	listTags TagLister
	newFs    func(repoRoot string) afero.Fs
}

// NewEcosystemRepository creates the Terraform workers from their settings.
func NewEcosystemRepository(name string, settings entities.WorkerSettings) (repositories.EcosystemRepository, error) {
	return NewEcosystemRepositoryWith(name, NewRemoteTagLister(settings.Token), func(repoRoot string) afero.Fs {
		return afero.NewBasePathFs(afero.NewOsFs(), repoRoot)
	}), nil
}

// NewEcosystemRepositoryWith creates the Terraform workers over the given
// tag lister and filesystem.
func NewEcosystemRepositoryWith(
	name string,
	listTags TagLister,
	newFs func(repoRoot string) afero.Fs,
) *EcosystemRepository {
	if name == "" {
		name = ecosystemName
	}
	return &EcosystemRepository{name: name, listTags: listTags, newFs: newFs}
}

func (r *EcosystemRepository) Name() string { return r.name }

// Discover treats every .tf file holding a pinned git module as a project.
func (r *EcosystemRepository) Discover(
	ctx context.Context,
	repoRoot, workspacePath string,
) (*entities.WorkspaceDiscovery, error) {
	fs := r.newFs(repoRoot)
	root := entities.RepoPath("/", workspacePath)
	discovery := &entities.WorkspaceDiscovery{Path: root}

	err := afero.Walk(fs, root, func(filePath string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if info.Name() == ".terraform" || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(filePath, terraformSuffix) {
			return nil
		}

		content, readErr := afero.ReadFile(fs, filePath)
		if readErr != nil {
			return fmt.Errorf("failed to read %q: %w", filePath, readErr)
		}

		project := newProject(relativeTo(root, filePath), scanModules(content, filePath))
		if len(project.Dependencies) > 0 {
			discovery.Projects = append(discovery.Projects, project)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover terraform modules in %q: %w", root, err)
	}

	logger.Debugf("[%s] Found %d project(s) in %s", r.name, len(discovery.Projects), root)
	return discovery, nil
}

// Analyze looks for a newer tag on the module's remote.
func (r *EcosystemRepository) Analyze(
	ctx context.Context,
	_ string,
	_ *entities.WorkspaceDiscovery,
	dependency entities.Dependency,
) (entities.AnalysisResult, error) {
	tags, err := r.listTags(ctx, remoteURL(dependency.Name))
	if err != nil {
		return entities.AnalysisResult{}, err
	}

	latest, ok := latestVersion(dependency.Version, tags)
	if !ok {
		logger.Debugf("[%s] %s is up to date", r.name, dependency)
		return entities.AnalysisResult{CanUpdate: false}, nil
	}

	updated := dependency
	updated.Version = latest
	return entities.AnalysisResult{
		CanUpdate:           true,
		UpdatedVersion:      latest,
		UpdatedDependencies: []entities.Dependency{updated},
	}, nil
}

// Update rewrites the module pins of one .tf file.
func (r *EcosystemRepository) Update(
	_ context.Context,
	request entities.UpdateRequest,
) (entities.UpdateOperationResult, error) {
	fs := r.newFs(request.RepoRoot)
	content, err := afero.ReadFile(fs, request.ProjectPath)
	if err != nil {
		return entities.UpdateOperationResult{}, fmt.Errorf("failed to read %q: %w", request.ProjectPath, err)
	}

	updated := applyUpgrade(string(content), request.DependencyName, request.PreviousVersion, request.NewVersion)
	if updated == string(content) {
		return entities.UpdateOperationResult{}, nil
	}

	if writeErr := afero.WriteFile(fs, request.ProjectPath, []byte(updated), filePermissions); writeErr != nil {
		return entities.UpdateOperationResult{}, fmt.Errorf("failed to write %q: %w", request.ProjectPath, writeErr)
	}

	return entities.UpdateOperationResult{
		UpdateOperations: []entities.UpdateOperation{
			entities.NewDirectUpdate(request.DependencyName, request.NewVersion, []string{request.ProjectPath}),
		},
	}, nil
}

// newProject keeps the first pin of every module source.
func newProject(filePath string, modules []moduleReference) entities.Project {
	project := entities.Project{FilePath: filePath}
	seen := make(map[string]struct{}, len(modules))
	for _, module := range modules {
		if _, ok := seen[module.Source]; ok {
			continue
		}
		seen[module.Source] = struct{}{}
		project.Dependencies = append(project.Dependencies, entities.Dependency{
			Name:     module.Source,
			Version:  module.Version,
			Type:     entities.DependencyTypePackageReference,
			IsDirect: true,
		})
	}
	return project
}

func relativeTo(root, filePath string) string {
	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(filePath)), root)
	return strings.TrimPrefix(rel, "/")
}
