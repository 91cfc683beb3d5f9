package repositories

import (
	"context"
	"os"
	"time"

	"go.uber.org/dig"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/manifestwatch/internal/domain/repositories"
	consoleRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/console"
	fileRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/file"
	fsRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/filesystem"
	ghaRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/githubactions"
	httpRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/http"
	minioRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/minio"
	s3Repo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/s3"
	sqliteRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/sqlite"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register cache registry with all backend factories
	if err := container.Provide(func() *CacheRegistry {
		reg := NewCacheRegistry()
		reg.Register(entities.BackendFilesystem, func(
			_ context.Context, settings entities.CacheSettings,
		) (domainRepos.CacheRepository, error) {
			return fsRepo.NewFilesystemCacheRepository(settings.Directory), nil
		})
		reg.Register(entities.BackendSQLite, func(
			_ context.Context, settings entities.CacheSettings,
		) (domainRepos.CacheRepository, error) {
			return sqliteRepo.Open(settings.SQLitePath, time.Now)
		})
		reg.Register(entities.BackendS3, func(
			ctx context.Context, settings entities.CacheSettings,
		) (domainRepos.CacheRepository, error) {
			return s3Repo.New(ctx, settings)
		})
		reg.Register(entities.BackendMinio, func(
			_ context.Context, settings entities.CacheSettings,
		) (domainRepos.CacheRepository, error) {
			return minioRepo.New(settings)
		})
		return reg
	}); err != nil {
		return err
	}

	// Register manifest registry keyed by location scheme
	if err := container.Provide(func() *ManifestRegistry {
		reg := NewManifestRegistry()
		reg.Register("http", httpRepo.NewHTTPManifestRepository)
		reg.Register("https", httpRepo.NewHTTPManifestRepository)
		reg.Register("file", func(_ time.Duration) domainRepos.ManifestRepository {
			return fileRepo.NewFileManifestRepository()
		})
		return reg
	}); err != nil {
		return err
	}

	// Register output registry bound to the process environment
	if err := container.Provide(func() *OutputRegistry {
		reg := NewOutputRegistry(os.Getenv)
		reg.Register(entities.OutputGitHub, ghaRepo.NewGitHubOutputRepository)
		reg.Register(entities.OutputConsole, func(_ func(string) string) domainRepos.OutputRepository {
			return consoleRepo.NewConsoleOutputRepository()
		})
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(fsRepo.NewWorkspaceRepository); err != nil {
		return err
	}

	return nil
}
