package commands

import (
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

// SetClock replaces the clock used to generate snapshot keys.
func (it *CheckCommand) SetClock(now func() time.Time) {
	it.now = now
}

// ReportChanges logs result through log.
func ReportChanges(log logger.FieldLogger, result entities.ChangeResult) {
	reportChanges(log, result)
}
