package native

import (
	"fmt"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// Operation type names used by helpers in update results.
const (
	operationDirect = "direct"
	operationPinned = "pinned"
	operationParent = "parent"
)

type discoverRequest struct {
	RepoRoot      string          `json:"repo_root"`
	WorkspacePath string          `json:"workspace_path"`
	Experiments   map[string]bool `json:"experiments"`
}

type analyzeRequest struct {
	RepoRoot    string                       `json:"repo_root"`
	Discovery   *entities.WorkspaceDiscovery `json:"discovery"`
	Dependency  entities.Dependency          `json:"dependency"`
	Experiments map[string]bool              `json:"experiments"`
}

type updateRequest struct {
	entities.UpdateRequest
	Experiments map[string]bool `json:"experiments"`
}

// response is the envelope every helper writes to its output file.
type response[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

type updateOperation struct {
	Type                 string   `json:"type"`
	DependencyName       string   `json:"dependency_name"`
	NewVersion           string   `json:"new_version"`
	UpdatedFiles         []string `json:"updated_files"`
	ParentDependencyName string   `json:"parent_dependency_name,omitempty"`
}

type updateResult struct {
	UpdateOperations []updateOperation `json:"update_operations"`
}

func (r updateResult) toEntity() (entities.UpdateOperationResult, error) {
	result := entities.UpdateOperationResult{}
	for _, op := range r.UpdateOperations {
		switch op.Type {
		case operationDirect, "":
			result.UpdateOperations = append(result.UpdateOperations,
				entities.NewDirectUpdate(op.DependencyName, op.NewVersion, op.UpdatedFiles))
		case operationPinned:
			result.UpdateOperations = append(result.UpdateOperations,
				entities.NewPinnedUpdate(op.DependencyName, op.NewVersion, op.UpdatedFiles))
		case operationParent:
			result.UpdateOperations = append(result.UpdateOperations,
				entities.NewParentUpdate(op.DependencyName, op.NewVersion, op.ParentDependencyName, op.UpdatedFiles))
		default:
			return entities.UpdateOperationResult{}, fmt.Errorf("unknown update operation type %q", op.Type)
		}
	}
	return result, nil
}
