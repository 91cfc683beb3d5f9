package controllers

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/manifestwatch/internal/domain/commands"
	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

// DiffController handles the "diff" subcommand.
type DiffController struct {
	command commands.Diff
	getenv  func(key string) string
}

// NewDiffController creates a new DiffController reading the process environment.
func NewDiffController(command commands.Diff) *DiffController {
	return NewDiffControllerWithEnv(command, os.Getenv)
}

// NewDiffControllerWithEnv creates a new DiffController with a custom environment lookup.
func NewDiffControllerWithEnv(command commands.Diff, getenv func(key string) string) *DiffController {
	return &DiffController{command: command, getenv: getenv}
}

// GetBind returns the Cobra command metadata for the diff controller.
func (it *DiffController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "diff <previous> <current>",
		Short: "Compare two manifests without using the cache",
		Long: `Compare two version manifests given as paths or URLs and publish
the result exactly like "check" would, without reading or writing the
snapshot cache.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // previous and current
	}
}

// AddFlags adds the diff-specific flags to the given Cobra command.
func (it *DiffController) AddFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
}

// Execute runs the comparison.
func (it *DiffController) Execute(cmd *cobra.Command, arguments []string) error {
	settings, err := loadSettings(cmd, it.getenv)
	if err != nil {
		return err
	}

	return it.command.Execute(commandContext(cmd), settings, commands.DiffOptions{
		PreviousLocation: arguments[0],
		CurrentLocation:  arguments[1],
	})
}
