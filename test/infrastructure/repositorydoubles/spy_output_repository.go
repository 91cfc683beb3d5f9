//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// SpyOutputRepository implements repositories.OutputRepository and records publications.
type SpyOutputRepository struct {
	OutputName string
	PublishErr error
	// spy: results received
	Published []entities.ChangeResult
}

var _ repositories.OutputRepository = (*SpyOutputRepository)(nil)

func (o *SpyOutputRepository) Name() string { return o.OutputName }

func (o *SpyOutputRepository) Publish(result entities.ChangeResult) error {
	o.Published = append(o.Published, result)
	return o.PublishErr
}

// LastOutput returns the values of the last publication.
func (o *SpyOutputRepository) LastOutput() entities.ReleaseOutput {
	if len(o.Published) == 0 {
		return entities.ReleaseOutput{}
	}
	return o.Published[len(o.Published)-1].Output()
}
