package githubactions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sethvargo/go-githubactions"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

const (
	outputName     = entities.OutputGitHub
	stepSummaryEnv = "GITHUB_STEP_SUMMARY"
)

// GitHubOutputRepository implements repositories.OutputRepository as GitHub Actions step
// outputs, plus a job summary when the runner provides one.
type GitHubOutputRepository struct {
	action *githubactions.Action
	getenv func(key string) string
}

// NewGitHubOutputRepository creates an output bound to the current runner environment.
func NewGitHubOutputRepository(getenv func(key string) string) repositories.OutputRepository {
	action := githubactions.New(githubactions.WithGetenv(getenv))
	return NewGitHubOutputRepositoryWithAction(action, getenv)
}

// NewGitHubOutputRepositoryWithAction creates an output on a preconfigured action.
func NewGitHubOutputRepositoryWithAction(
	action *githubactions.Action,
	getenv func(key string) string,
) *GitHubOutputRepository {
	return &GitHubOutputRepository{action: action, getenv: getenv}
}

func (it *GitHubOutputRepository) Name() string { return outputName }

func (it *GitHubOutputRepository) Publish(result entities.ChangeResult) error {
	output := result.Output()

	it.action.SetOutput("id", output.ID)
	it.action.SetOutput("type", output.Kind)
	it.action.SetOutput("url", output.Locator)
	it.action.SetOutput("classification", output.Classification.String())
	it.action.SetOutput("added-count", strconv.Itoa(output.AddedCount))
	it.action.SetOutput("removed-count", strconv.Itoa(output.RemovedCount))

	if it.getenv(stepSummaryEnv) != "" {
		it.action.AddStepSummary(stepSummary(result))
	}
	return nil
}

func stepSummary(result entities.ChangeResult) string {
	var builder strings.Builder
	builder.WriteString("### Version manifest\n\n")
	fmt.Fprintf(&builder, "Result: `%s`\n\n", result.Classification)

	if len(result.Added) == 0 && len(result.Removed) == 0 {
		return builder.String()
	}

	builder.WriteString("| Change | Id | Type | URL |\n|---|---|---|---|\n")
	for _, record := range result.Added {
		fmt.Fprintf(&builder, "| added | %s | %s | %s |\n", record.ID, record.Kind, record.Locator)
	}
	for _, record := range result.Removed {
		fmt.Fprintf(&builder, "| removed | %s | %s | %s |\n", record.ID, record.Kind, record.Locator)
	}
	return builder.String()
}
