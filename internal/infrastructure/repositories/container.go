package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/updatebot/internal/domain/repositories"
	ghRepo "github.com/rios0rios0/updatebot/internal/infrastructure/repositories/github"
	gitRepo "github.com/rios0rios0/updatebot/internal/infrastructure/repositories/gitrepo"
	glRepo "github.com/rios0rios0/updatebot/internal/infrastructure/repositories/gitlab"
	jsonlRepo "github.com/rios0rios0/updatebot/internal/infrastructure/repositories/jsonl"
	nativeRepo "github.com/rios0rios0/updatebot/internal/infrastructure/repositories/native"
	tfRepo "github.com/rios0rios0/updatebot/internal/infrastructure/repositories/terraform"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register ecosystem registry with every worker type
	if err := container.Provide(func() *EcosystemRegistry {
		reg := NewEcosystemRegistry()
		reg.Register(entities.WorkerTypeExec, nativeRepo.NewEcosystemRepository)
		reg.Register(entities.WorkerTypeTerraform, tfRepo.NewEcosystemRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register sink registry with every message sink
	if err := container.Provide(func() *SinkRegistry {
		reg := NewSinkRegistry()
		reg.Register(entities.SinkTypeJSONLines, jsonlRepo.NewMessageSinkRepository)
		reg.Register(entities.SinkTypeGitHub, ghRepo.NewMessageSinkRepository)
		reg.Register(entities.SinkTypeGitLab, glRepo.NewMessageSinkRepository)
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.CommitRepository {
		return gitRepo.NewCommitRepository()
	}); err != nil {
		return err
	}

	return nil
}
