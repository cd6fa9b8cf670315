package entities

import (
	"path"
	"sort"
)

// Project is one discovered project file together with its dependencies.
// ImportedFiles, ReferencedProjectPaths and AdditionalFiles are relative to
// the project directory and are only used to report provenance.
type Project struct {
	FilePath               string       `json:"file_path"                yaml:"file_path"`
	Dependencies           []Dependency `json:"dependencies"             yaml:"dependencies"`
	ImportedFiles          []string     `json:"imported_files"           yaml:"imported_files"`
	ReferencedProjectPaths []string     `json:"referenced_project_paths" yaml:"referenced_project_paths"`
	AdditionalFiles        []string     `json:"additional_files"         yaml:"additional_files"`
}

// WorkspaceDiscovery is the result of running discovery over one workspace
// directory. Project file paths are unique and relative to Path.
type WorkspaceDiscovery struct {
	Path     string    `json:"path"     yaml:"path"`
	Projects []Project `json:"projects" yaml:"projects"`
}

// DependencyInstance pairs a dependency with the project that declares it.
type DependencyInstance struct {
	Project    Project
	Dependency Dependency
}

// ProjectPath returns the repo-absolute path of a project file.
func (w WorkspaceDiscovery) ProjectPath(project Project) string {
	return RepoPath(w.Path, project.FilePath)
}

// ProjectDirectory returns the repo-absolute directory containing a project file.
func (w WorkspaceDiscovery) ProjectDirectory(project Project) string {
	return path.Dir(w.ProjectPath(project))
}

// ProjectFiles returns every repo-absolute file that belongs to a project:
// the project file itself, its imports and its additional files.
func (w WorkspaceDiscovery) ProjectFiles(project Project) []string {
	dir := w.ProjectDirectory(project)
	files := []string{w.ProjectPath(project)}
	for _, imported := range project.ImportedFiles {
		files = append(files, RepoPath(dir, imported))
	}
	for _, additional := range project.AdditionalFiles {
		files = append(files, RepoPath(dir, additional))
	}
	return files
}

// DependencyFiles returns the sorted, de-duplicated set of every file that
// contributed to the discovery.
func (w WorkspaceDiscovery) DependencyFiles() []string {
	seen := make(map[string]struct{})
	var files []string
	for _, project := range w.Projects {
		for _, file := range w.ProjectFiles(project) {
			if _, ok := seen[file]; ok {
				continue
			}
			seen[file] = struct{}{}
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files
}

// FindInstances returns every occurrence of the named dependency, in
// discovery order.
func (w WorkspaceDiscovery) FindInstances(name string) []DependencyInstance {
	var instances []DependencyInstance
	for _, project := range w.Projects {
		for _, dep := range project.Dependencies {
			if dep.Name == name {
				instances = append(instances, DependencyInstance{Project: project, Dependency: dep})
			}
		}
	}
	return instances
}

// HasDependency reports whether any project declares the named dependency.
func (w WorkspaceDiscovery) HasDependency(name string) bool {
	for _, project := range w.Projects {
		for _, dep := range project.Dependencies {
			if dep.Name == name {
				return true
			}
		}
	}
	return false
}

// DirectDependencyNames returns the unique names of every reportable
// dependency, in first-seen discovery order.
func (w WorkspaceDiscovery) DirectDependencyNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, project := range w.Projects {
		for _, dep := range project.Dependencies {
			if !dep.IsReportable() {
				continue
			}
			if _, ok := seen[dep.Name]; ok {
				continue
			}
			seen[dep.Name] = struct{}{}
			names = append(names, dep.Name)
		}
	}
	return names
}

// InDiscoveryOrder orders names by the position of their first occurrence.
// Names no project declares keep their relative order at the end.
func (w WorkspaceDiscovery) InDiscoveryOrder(names []string) []string {
	position := make(map[string]int)
	index := 0
	for _, project := range w.Projects {
		for _, dep := range project.Dependencies {
			if _, ok := position[dep.Name]; !ok {
				position[dep.Name] = index
			}
			index++
		}
	}

	ordered := append([]string(nil), names...)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, iok := position[ordered[i]]
		pj, jok := position[ordered[j]]
		if iok != jok {
			return iok
		}
		return iok && pi < pj
	})
	return ordered
}

// RepoPath resolves rel against base and returns a clean, slash-separated,
// repo-absolute path.
func RepoPath(base, rel string) string {
	joined := path.Join("/", base, rel)
	if path.IsAbs(rel) {
		joined = path.Clean(rel)
	}
	return joined
}
