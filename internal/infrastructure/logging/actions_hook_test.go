//go:build unit

package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sethvargo/go-githubactions"
	logger "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manifestwatch/internal/infrastructure/logging"
)

func newHook(buffer *bytes.Buffer) *logging.ActionsHook {
	action := githubactions.New(
		githubactions.WithWriter(buffer),
		githubactions.WithGetenv(func(string) string { return "" }),
	)
	return logging.NewActionsHook(action)
}

func TestActionsHook(t *testing.T) {
	t.Parallel()

	t.Run("should mirror warnings as workflow annotations", func(t *testing.T) {
		t.Parallel()

		// given
		var buffer bytes.Buffer
		hook := newHook(&buffer)
		entry := &logger.Entry{Level: logger.WarnLevel, Message: "Found more than one new version: 1.20.1@release, 23w31a@snapshot"}

		// when
		err := hook.Fire(entry)

		// then
		require.NoError(t, err)
		assert.Contains(t, buffer.String(), "::warning")
		assert.Contains(t, buffer.String(), "Found more than one new version")
	})

	t.Run("should mirror errors and debug entries", func(t *testing.T) {
		t.Parallel()

		// given
		var buffer bytes.Buffer
		hook := newHook(&buffer)

		// when
		require.NoError(t, hook.Fire(&logger.Entry{Level: logger.ErrorLevel, Message: "Failed to save version manifest to cache"}))
		require.NoError(t, hook.Fire(&logger.Entry{Level: logger.DebugLevel, Message: "Uploaded cache with key mc-1"}))

		// then
		assert.Contains(t, buffer.String(), "::error")
		assert.Contains(t, buffer.String(), "::debug")
		assert.Contains(t, buffer.String(), "Uploaded cache with key mc-1")
	})

	t.Run("should print info entries without an annotation", func(t *testing.T) {
		t.Parallel()

		// given
		var buffer bytes.Buffer
		hook := newHook(&buffer)

		// when
		err := hook.Fire(&logger.Entry{Level: logger.InfoLevel, Message: "No new versions found"})

		// then
		require.NoError(t, err)
		assert.Contains(t, hook.Levels(), logger.InfoLevel)
		assert.Contains(t, buffer.String(), "No new versions found")
		assert.NotContains(t, buffer.String(), "::")
	})
}

func TestUseActionsOutput(t *testing.T) {
	t.Parallel()

	t.Run("should print each warning once, as an annotation", func(t *testing.T) {
		t.Parallel()

		// given
		var buffer bytes.Buffer
		log := logger.New()
		log.SetOutput(&buffer)
		action := githubactions.New(
			githubactions.WithWriter(&buffer),
			githubactions.WithGetenv(func(string) string { return "" }),
		)

		// when
		logging.UseActionsOutput(log, action)
		log.Warn("Found removed versions: 1.20@release")

		// then
		assert.Equal(t, 1, strings.Count(buffer.String(), "Found removed versions"))
		assert.Contains(t, buffer.String(), "::warning")
		assert.NotContains(t, buffer.String(), "level=warning")
	})
}
