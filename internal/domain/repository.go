// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"blendery/internal/core/entity"
	"blendery/internal/core/id"
)

// --- Filter & Pagination ---

// MaxListLimit caps page sizes requested by clients.
const MaxListLimit = 200

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches name or code (case-insensitive substring)
	Search string

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults: newest first, 20 per page.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   20,
		OrderBy: "-created_at",
	}
}

// Page converts 1-based page/limit query values into a filter.
func Page(page, limit int) ListFilter {
	f := DefaultListFilter()
	if limit > 0 {
		f.Limit = min(limit, MaxListLimit)
	}
	if page > 1 {
		f.Offset = (page - 1) * f.Limit
	}
	return f
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T entity.Cataloged] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByCode retrieves entity by its normalized code
	GetByCode(ctx context.Context, code string) (T, error)

	// Update modifies descriptive columns (with optimistic locking)
	Update(ctx context.Context, entity T) error

	// Delete physically removes the row. Rows still referenced by
	// other tables are refused with a Conflict.
	Delete(ctx context.Context, id id.ID) error

	// List retrieves entities with filtering and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// Exists checks if entity with given ID exists
	Exists(ctx context.Context, id id.ID) (bool, error)

	// ExistsByCode checks if entity with given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
// After-hooks run inside the write transaction; an error rolls it back.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
