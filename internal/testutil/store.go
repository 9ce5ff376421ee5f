// Package testutil provides in-memory repositories and a rollback-capable
// transaction manager for service tests.
package testutil

import (
	"context"
	"sync"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// ActorID is the user stamped by Ctx.
const ActorID = "00000000-0000-7000-8000-000000000001"

// Ctx returns a context carrying an authenticated operator.
func Ctx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: ActorID,
		Email:  "operator@blendery.test",
		Roles:  []string{},
	})
}

// AdminCtx returns a context carrying an authenticated admin.
func AdminCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:  ActorID,
		Email:   "admin@blendery.test",
		Roles:   []string{appctx.RoleAdmin},
		IsAdmin: true,
	})
}

// Snapshotter is a store whose state can be captured and restored.
type Snapshotter interface {
	Snapshot() (restore func())
}

// TxManager implements tx.Manager over in-memory stores. A failed
// transaction restores every registered store to its state at begin.
type TxManager struct {
	mu     sync.Mutex
	stores []Snapshotter

	Commits   int
	Rollbacks int
}

// NewTxManager creates a transaction manager over stores.
func NewTxManager(stores ...Snapshotter) *TxManager {
	return &TxManager{stores: stores}
}

// Register adds stores rolled back by failed transactions.
func (m *TxManager) Register(stores ...Snapshotter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = append(m.stores, stores...)
}

type txKey struct{}

// RunInTransaction implements tx.Manager. Nested calls join the outer one.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	restores := make([]func(), len(m.stores))
	for i, s := range m.stores {
		restores[i] = s.Snapshot()
	}
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		for _, restore := range restores {
			restore()
		}
		m.mu.Lock()
		m.Rollbacks++
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.Commits++
	m.mu.Unlock()
	return nil
}

// InTx reports whether ctx is inside a transaction of this manager.
func InTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// Table is an insertion-ordered map of rows. Values are cloned on the way
// in and out so callers never share memory with the store.
type Table[T any] struct {
	mu    sync.Mutex
	rows  map[id.ID]T
	order []id.ID
	clone func(T) T
}

// NewTable creates an empty table.
func NewTable[T any](clone func(T) T) *Table[T] {
	return &Table[T]{rows: make(map[id.ID]T), clone: clone}
}

// ClonePtr returns a shallow copy of *p.
func ClonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Put inserts or replaces a row.
func (t *Table[T]) Put(key id.ID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; !ok {
		t.order = append(t.order, key)
	}
	t.rows[key] = t.clone(v)
}

// Get returns a copy of the row.
func (t *Table[T]) Get(key id.ID) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(v), true
}

// Mutate applies fn to the stored row under the table lock. fn returns
// false to leave the row unchanged.
func (t *Table[T]) Mutate(key id.ID, fn func(T) (T, bool)) (T, bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	v, ok := t.rows[key]
	if !ok {
		return zero, false, false
	}
	next, applied := fn(t.clone(v))
	if !applied {
		return zero, true, false
	}
	t.rows[key] = t.clone(next)
	return t.clone(next), true, true
}

// Delete removes a row. It reports whether the row existed.
func (t *Table[T]) Delete(key id.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; !ok {
		return false
	}
	delete(t.rows, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns copies of every row in insertion order.
func (t *Table[T]) All() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.clone(t.rows[k]))
	}
	return out
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Snapshot implements Snapshotter.
func (t *Table[T]) Snapshot() func() {
	t.mu.Lock()
	rows := make(map[id.ID]T, len(t.rows))
	for k, v := range t.rows {
		rows[k] = t.clone(v)
	}
	order := append([]id.ID(nil), t.order...)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.rows = rows
		t.order = order
	}
}

// Paginate applies filter.Offset and filter.Limit to items.
func Paginate[T any](items []T, filter domain.ListFilter) domain.ListResult[T] {
	res := domain.ListResult[T]{
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		Items:      []T{},
	}
	if filter.Offset >= len(items) {
		return res
	}
	end := len(items)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	res.Items = append(res.Items, items[filter.Offset:end]...)
	return res
}

func notFound(entity string, key id.ID) error {
	return apperror.NewNotFound(entity, key.String())
}
