// Package audit defines the change journal written by every mutating operation.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"blendery/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status_change"
)

// Entity types recorded in the journal.
const (
	EntityMaterial   = "material"
	EntityBatch      = "batch"
	EntityFormula    = "formula"
	EntityProduction = "production_run"
	EntityPackaging  = "packaging_batch"
	EntitySale       = "sale"
	EntityCustomer   = "customer"
	EntitySupplier   = "supplier"
	EntityUser       = "user"
)

// Entry is a single journal record.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	UserID     string          `db:"user_id" json:"userId"`
	Changes    json.RawMessage `db:"changes" json:"changes,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Recorder writes journal entries. Implementations join the caller's
// transaction so the entry commits or rolls back with the change itself.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes any) error
}

// Reader returns the journal of one entity, newest first.
type Reader interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Nop discards entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, string, id.ID, Action, any) error { return nil }

var _ Recorder = Nop{}
