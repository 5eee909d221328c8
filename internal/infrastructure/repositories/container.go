package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/forgepreview/internal/domain/repositories"
	forgeRepo "github.com/rios0rios0/forgepreview/internal/infrastructure/repositories/forge"
	gitRepo "github.com/rios0rios0/forgepreview/internal/infrastructure/repositories/git"
	outputRepo "github.com/rios0rios0/forgepreview/internal/infrastructure/repositories/output"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(forgeRepo.NewForgeFactory); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.GitRepository {
		return gitRepo.NewGitRepository()
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.OutputRepository {
		return outputRepo.NewOutputRepository()
	}); err != nil {
		return err
	}

	return nil
}
