package repositories

import (
	"fmt"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

const githubActionsEnv = "GITHUB_ACTIONS"

// OutputFactory is a constructor function that creates an OutputRepository for an environment.
type OutputFactory func(getenv func(key string) string) domainRepos.OutputRepository

// OutputRegistry manages the output publishers and resolves the "auto" selection.
type OutputRegistry struct {
	factories map[string]OutputFactory
	getenv    func(key string) string
}

// NewOutputRegistry creates an empty output registry reading the environment through getenv.
func NewOutputRegistry(getenv func(key string) string) *OutputRegistry {
	return &OutputRegistry{
		factories: make(map[string]OutputFactory),
		getenv:    getenv,
	}
}

// Register adds an output factory under the given name.
func (r *OutputRegistry) Register(name string, factory OutputFactory) {
	r.factories[name] = factory
}

// Get returns the output publisher for name. "auto" selects GitHub Actions outputs when
// running inside a GitHub Actions job and the console otherwise.
func (r *OutputRegistry) Get(name string) (domainRepos.OutputRepository, error) {
	if name == entities.OutputAuto {
		name = entities.OutputConsole
		if r.getenv(githubActionsEnv) == "true" {
			name = entities.OutputGitHub
		}
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output type: %q", name)
	}
	return factory(r.getenv), nil
}
