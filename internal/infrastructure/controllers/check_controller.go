package controllers

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/manifestwatch/internal/domain/commands"
	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

// CheckController handles the "check" subcommand (one CI run).
type CheckController struct {
	command commands.Check
	getenv  func(key string) string
}

// NewCheckController creates a new CheckController reading the process environment.
func NewCheckController(command commands.Check) *CheckController {
	return NewCheckControllerWithEnv(command, os.Getenv)
}

// NewCheckControllerWithEnv creates a new CheckController with a custom environment lookup.
func NewCheckControllerWithEnv(command commands.Check, getenv func(key string) string) *CheckController {
	return &CheckController{command: command, getenv: getenv}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check",
		Short: "Detect a new version in the manifest since the previous run",
		Long: `Compare the version manifest with the one stored by the previous run,
publish the single new version (if exactly one appeared), and store the
current manifest for the next run.

Inside GitHub Actions the step inputs (version-manifest-url, cache-base-key,
disable-cache-write, ...) are read automatically and the result is published
as step outputs (id, type, url, classification).`,
		Args: cobra.NoArgs,
	}
}

// AddFlags adds the check-specific flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	addCacheFlags(cmd)
	addOutputFlags(cmd)
}

// Execute runs one check.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, it.getenv)
	if err != nil {
		return err
	}

	logger.Infof("Checking %s for new versions...", settings.ManifestURL)
	return it.command.Execute(commandContext(cmd), settings)
}
