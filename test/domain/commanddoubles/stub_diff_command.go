//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/manifestwatch/internal/domain/commands"
	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

// StubDiffCommand is a stub implementation of commands.Diff.
type StubDiffCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     entities.Settings
	LastOpts         commands.DiffOptions
}

var _ commands.Diff = (*StubDiffCommand)(nil)

func (s *StubDiffCommand) Execute(
	_ context.Context,
	settings entities.Settings,
	opts commands.DiffOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
