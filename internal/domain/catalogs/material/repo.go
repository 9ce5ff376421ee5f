package material

import (
	"context"

	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// Repository defines the interface for Material persistence.
//
// The Apply* mutators run inside the caller's transaction as single atomic
// statements and return the row as it is after the change.
type Repository interface {
	domain.CatalogRepository[*Material]

	// GetMany loads materials by id. Missing ids are absent from the map.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Material, error)

	// ExistingCodes returns which of codes are already taken.
	ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error)

	// CreateMany inserts all materials in one round-trip.
	CreateMany(ctx context.Context, items []*Material) error

	// ApplyIntake adds a received batch: stockIn, currentStock and totalCost
	// grow, batchCount increments and averagePrice is recomputed.
	ApplyIntake(ctx context.Context, id id.ID, qty, cost decimal.Decimal) (*Material, error)

	// ApplyRemoval takes qty back out of stockIn and currentStock, floored at zero.
	ApplyRemoval(ctx context.Context, id id.ID, qty decimal.Decimal) (*Material, error)

	// ApplyConsumption moves qty from currentStock to stockOut. It fails with
	// InsufficientStock when currentStock < qty and changes nothing.
	ApplyConsumption(ctx context.Context, id id.ID, qty decimal.Decimal) (*Material, error)
}
