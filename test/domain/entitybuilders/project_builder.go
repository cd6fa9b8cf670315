//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// ProjectBuilder helps create discovered projects.
type ProjectBuilder struct {
	*testkit.BaseBuilder
	filePath        string
	dependencies    []entities.Dependency
	importedFiles   []string
	additionalFiles []string
}

// NewProjectBuilder creates a project builder for a project without dependencies.
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		filePath:    "project.csproj",
	}
}

// WithFilePath sets the project file path, relative to the workspace.
func (b *ProjectBuilder) WithFilePath(filePath string) *ProjectBuilder {
	b.filePath = filePath
	return b
}

// WithDependency adds a directly declared dependency.
func (b *ProjectBuilder) WithDependency(name, version string) *ProjectBuilder {
	b.dependencies = append(b.dependencies,
		NewDependencyBuilder().WithName(name).WithVersion(version).BuildDependency())
	return b
}

// WithTransitiveDependency adds a dependency resolved through another one.
func (b *ProjectBuilder) WithTransitiveDependency(name, version string) *ProjectBuilder {
	b.dependencies = append(b.dependencies,
		NewDependencyBuilder().WithName(name).WithVersion(version).AsTransitive().BuildDependency())
	return b
}

// WithImportedFile adds an imported file, relative to the project directory.
func (b *ProjectBuilder) WithImportedFile(file string) *ProjectBuilder {
	b.importedFiles = append(b.importedFiles, file)
	return b
}

// WithAdditionalFile adds an additional file, relative to the project directory.
func (b *ProjectBuilder) WithAdditionalFile(file string) *ProjectBuilder {
	b.additionalFiles = append(b.additionalFiles, file)
	return b
}

// Build creates the project (satisfies testkit.Builder interface).
func (b *ProjectBuilder) Build() interface{} {
	return b.BuildProject()
}

// BuildProject creates the project with a concrete return type.
func (b *ProjectBuilder) BuildProject() entities.Project {
	return entities.Project{
		FilePath:        b.filePath,
		Dependencies:    append([]entities.Dependency(nil), b.dependencies...),
		ImportedFiles:   append([]string(nil), b.importedFiles...),
		AdditionalFiles: append([]string(nil), b.additionalFiles...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ProjectBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.filePath = "project.csproj"
	b.dependencies = nil
	b.importedFiles = nil
	b.additionalFiles = nil
	return b
}

// Clone creates a deep copy of the ProjectBuilder.
func (b *ProjectBuilder) Clone() testkit.Builder {
	return &ProjectBuilder{
		BaseBuilder:     b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		filePath:        b.filePath,
		dependencies:    append([]entities.Dependency(nil), b.dependencies...),
		importedFiles:   append([]string(nil), b.importedFiles...),
		additionalFiles: append([]string(nil), b.additionalFiles...),
	}
}
