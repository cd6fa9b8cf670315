package entities

// DependencyType describes how a dependency entered a project.
type DependencyType string

const (
	DependencyTypePackageReference DependencyType = "package_reference"
	DependencyTypeTransitive       DependencyType = "transitive"
	DependencyTypeUnknown          DependencyType = "unknown"
)

// Dependency represents one dependency as declared (or resolved) by a single project.
// Identity is the name within a project; the same name may appear with
// different versions across projects.
type Dependency struct {
	Name             string         `json:"name"              yaml:"name"`
	Version          string         `json:"version"           yaml:"version"`
	Type             DependencyType `json:"type"              yaml:"type"`
	TargetFrameworks []string       `json:"target_frameworks" yaml:"target_frameworks"`
	IsDirect         bool           `json:"is_direct"         yaml:"is_direct"`
	IsTransitive     bool           `json:"is_transitive"     yaml:"is_transitive"`
}

// String returns a human-readable representation.
func (d Dependency) String() string {
	return d.Name + "@" + d.Version
}

// IsReportable reports whether the dependency is declared by the project itself.
func (d Dependency) IsReportable() bool {
	return !d.IsTransitive && d.Type != DependencyTypeTransitive
}

// DependencyFile is a file produced by an update, addressed the way the
// hosting layer expects it: repo-absolute directory plus base name.
type DependencyFile struct {
	Directory string `json:"directory"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// Path joins the directory and the name into a repo-absolute path.
func (f DependencyFile) Path() string {
	if f.Directory == "/" || f.Directory == "" {
		return "/" + f.Name
	}
	return f.Directory + "/" + f.Name
}
