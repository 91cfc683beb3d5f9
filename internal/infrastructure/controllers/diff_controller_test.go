//go:build unit

package controllers_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/infrastructure/controllers"
	"github.com/rios0rios0/manifestwatch/test/domain/commanddoubles"
)

func TestDiffController(t *testing.T) {
	t.Parallel()

	t.Run("should require exactly two arguments", func(t *testing.T) {
		t.Parallel()

		// given
		ctrl := controllers.NewDiffControllerWithEnv(&commanddoubles.StubDiffCommand{}, env(nil))

		// when
		bind := ctrl.GetBind()

		// then
		assert.Equal(t, "diff <previous> <current>", bind.Use)
		require.NotNil(t, bind.Args)
		assert.Error(t, bind.Args(&cobra.Command{}, []string{"only-one.json"}))
		assert.NoError(t, bind.Args(&cobra.Command{}, []string{"a.json", "b.json"}))
	})

	t.Run("should pass both locations to the command", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubDiffCommand{}
		ctrl := controllers.NewDiffControllerWithEnv(stub, env(nil))
		cmd := newCobraCommand(ctrl)
		require.NoError(t, cmd.Flags().Set("output", "console"))

		// when
		err := ctrl.Execute(cmd, []string{"previous.json", "https://launchermeta.example/v2.json"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, "previous.json", stub.LastOpts.PreviousLocation)
		assert.Equal(t, "https://launchermeta.example/v2.json", stub.LastOpts.CurrentLocation)
		assert.Equal(t, entities.OutputConsole, stub.LastSettings.Output)
	})

	t.Run("should not expose cache flags", func(t *testing.T) {
		t.Parallel()

		// given
		ctrl := controllers.NewDiffControllerWithEnv(&commanddoubles.StubDiffCommand{}, env(nil))

		// when
		cmd := newCobraCommand(ctrl)

		// then
		assert.Nil(t, cmd.Flags().Lookup("cache-backend"))
		assert.NotNil(t, cmd.Flags().Lookup("output"))
	})
}
