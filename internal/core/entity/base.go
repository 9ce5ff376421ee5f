package entity

import (
	"context"
	"time"

	"blendery/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains the columns every table carries.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// GetVersion returns the optimistic lock version.
func (b *BaseEntity) GetVersion() int {
	return b.Version
}

// SetVersion stores the version the repository persisted.
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

// Touch updates the UpdatedAt timestamp.
// Version is bumped by the repository, never by callers.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// BaseDocument extends BaseEntity with the acting user.
type BaseDocument struct {
	BaseEntity

	// CreatedBy is the authenticated user that created the record
	CreatedBy string `db:"created_by" json:"createdBy"`
}

// NewBaseDocument creates a new BaseDocument stamped with the acting user.
func NewBaseDocument(createdBy string) BaseDocument {
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedBy:  createdBy,
	}
}
