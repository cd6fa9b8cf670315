package entities

// AnalysisResult is the Analyze Worker's verdict for one dependency instance.
// UpdatedDependencies lists every dependency whose version moves, including
// parents that must be bumped to lift a transitive one.
type AnalysisResult struct {
	CanUpdate           bool         `json:"can_update"`
	UpdatedVersion      string       `json:"updated_version"`
	UpdatedDependencies []Dependency `json:"updated_dependencies"`
}

// UpdateRequest is the input of a single Update Worker call.
type UpdateRequest struct {
	RepoRoot        string `json:"repo_root"`
	ProjectPath     string `json:"project_path"`
	DependencyName  string `json:"dependency_name"`
	PreviousVersion string `json:"previous_version"`
	NewVersion      string `json:"new_version"`
	IsTransitive    bool   `json:"is_transitive"`
}

// UpdateOperation is one change applied by the Update Worker. The set of
// implementations is closed: DirectUpdate, PinnedUpdate and ParentUpdate.
type UpdateOperation interface {
	GetDependencyName() string
	GetNewVersion() string
	GetUpdatedFiles() []string
	isUpdateOperation()
}

// updateOperationBase holds the fields every operation shares.
type updateOperationBase struct {
	DependencyName string   `json:"dependency_name"`
	NewVersion     string   `json:"new_version"`
	UpdatedFiles   []string `json:"updated_files"`
}

func (o updateOperationBase) GetDependencyName() string { return o.DependencyName }
func (o updateOperationBase) GetNewVersion() string     { return o.NewVersion }
func (o updateOperationBase) GetUpdatedFiles() []string { return o.UpdatedFiles }
func (o updateOperationBase) isUpdateOperation()        {}

// DirectUpdate changes the version of a directly declared dependency.
type DirectUpdate struct {
	updateOperationBase
}

// PinnedUpdate adds an explicit pin for a transitive dependency.
type PinnedUpdate struct {
	updateOperationBase
}

// ParentUpdate bumps a direct dependency so that a transitive one moves.
type ParentUpdate struct {
	updateOperationBase
	ParentDependencyName string `json:"parent_dependency_name"`
}

// NewDirectUpdate builds a DirectUpdate operation.
func NewDirectUpdate(name, version string, files []string) DirectUpdate {
	return DirectUpdate{updateOperationBase{DependencyName: name, NewVersion: version, UpdatedFiles: files}}
}

// NewPinnedUpdate builds a PinnedUpdate operation.
func NewPinnedUpdate(name, version string, files []string) PinnedUpdate {
	return PinnedUpdate{updateOperationBase{DependencyName: name, NewVersion: version, UpdatedFiles: files}}
}

// NewParentUpdate builds a ParentUpdate operation.
func NewParentUpdate(name, version, parent string, files []string) ParentUpdate {
	return ParentUpdate{
		updateOperationBase:  updateOperationBase{DependencyName: name, NewVersion: version, UpdatedFiles: files},
		ParentDependencyName: parent,
	}
}

// UpdateOperationResult is what one Update Worker call returns.
// An empty operation list means the project already satisfied the request.
type UpdateOperationResult struct {
	UpdateOperations []UpdateOperation
}

// IsNoOp reports whether the worker changed nothing.
func (r UpdateOperationResult) IsNoOp() bool {
	return len(r.UpdateOperations) == 0
}
