package history

import (
	"context"

	"blendery/internal/core/id"
)

// Repository persists history entries.
type Repository interface {
	// Append inserts an entry in the caller's transaction.
	Append(ctx context.Context, e *Entry) error

	// ListByMaterial returns entries newest first, optionally of one type.
	ListByMaterial(ctx context.Context, materialID id.ID, t *Type) ([]*Entry, error)
}
