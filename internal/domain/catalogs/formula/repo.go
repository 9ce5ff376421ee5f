package formula

import (
	"context"

	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// Repository defines the interface for Formula persistence.
// Catalog methods read and write the header row only.
type Repository interface {
	domain.CatalogRepository[*Formula]

	// SaveComposition replaces the composition lines of a formula.
	SaveComposition(ctx context.Context, formulaID id.ID, lines []Component) error

	// GetCompositions loads composition lines with material name and code.
	GetCompositions(ctx context.Context, formulaIDs []id.ID) (map[id.ID][]Component, error)
}
