package repositories

import (
	"context"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// AnalyzeRepository decides the best target version for one dependency.
// Implementations must not mutate files.
type AnalyzeRepository interface {
	Analyze(
		ctx context.Context,
		repoRoot string,
		discovery *entities.WorkspaceDiscovery,
		dependency entities.Dependency,
	) (entities.AnalysisResult, error)
}
