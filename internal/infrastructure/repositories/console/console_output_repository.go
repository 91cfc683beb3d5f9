package console

import (
	"fmt"
	"io"
	"os"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

const outputName = entities.OutputConsole

// ConsoleOutputRepository implements repositories.OutputRepository as key=value lines,
// convenient for local runs and for pipelines that source the output.
type ConsoleOutputRepository struct {
	writer io.Writer
}

// NewConsoleOutputRepository creates an output writing to stdout.
func NewConsoleOutputRepository() repositories.OutputRepository {
	return NewConsoleOutputRepositoryWithWriter(os.Stdout)
}

// NewConsoleOutputRepositoryWithWriter creates an output writing to writer.
func NewConsoleOutputRepositoryWithWriter(writer io.Writer) *ConsoleOutputRepository {
	return &ConsoleOutputRepository{writer: writer}
}

func (it *ConsoleOutputRepository) Name() string { return outputName }

func (it *ConsoleOutputRepository) Publish(result entities.ChangeResult) error {
	output := result.Output()
	lines := [][2]string{
		{"id", output.ID},
		{"type", output.Kind},
		{"url", output.Locator},
		{"classification", output.Classification.String()},
		{"added-count", fmt.Sprint(output.AddedCount)},
		{"removed-count", fmt.Sprint(output.RemovedCount)},
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(it.writer, "%s=%s\n", line[0], line[1]); err != nil {
			return fmt.Errorf("failed to write output %q: %w", line[0], err)
		}
	}
	return nil
}
