package repositories

import "github.com/rios0rios0/manifestwatch/internal/domain/entities"

// OutputRepository publishes the structured result of a run to downstream pipeline steps.
type OutputRepository interface {
	// Name returns the output identifier (e.g. "github", "console").
	Name() string

	// Publish emits the values of result.Output(). It is called once per run.
	Publish(result entities.ChangeResult) error
}
