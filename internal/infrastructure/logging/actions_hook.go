package logging

import (
	"io"

	"github.com/sethvargo/go-githubactions"
	logger "github.com/sirupsen/logrus"
)

// ActionsHook renders log entries as GitHub Actions workflow commands, so warnings and
// errors show up as annotations on the run and debug entries in the step debug log.
type ActionsHook struct {
	action *githubactions.Action
}

// NewActionsHook creates a hook writing workflow commands through action.
func NewActionsHook(action *githubactions.Action) *ActionsHook {
	return &ActionsHook{action: action}
}

// UseActionsOutput makes the hook the only writer of log: the formatter output is
// discarded, otherwise each entry would be printed a second time next to its annotation.
func UseActionsOutput(log *logger.Logger, action *githubactions.Action) {
	log.SetOutput(io.Discard)
	log.AddHook(NewActionsHook(action))
}

func (h *ActionsHook) Levels() []logger.Level {
	return logger.AllLevels
}

func (h *ActionsHook) Fire(entry *logger.Entry) error {
	switch entry.Level {
	case logger.PanicLevel, logger.FatalLevel, logger.ErrorLevel:
		h.action.Errorf("%s", entry.Message)
	case logger.WarnLevel:
		h.action.Warningf("%s", entry.Message)
	case logger.DebugLevel, logger.TraceLevel:
		h.action.Debugf("%s", entry.Message)
	default:
		h.action.Infof("%s", entry.Message)
	}
	return nil
}
