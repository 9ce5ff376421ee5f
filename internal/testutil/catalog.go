package testutil

import (
	"context"
	"strings"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/domain"
)

type versioned interface {
	SetVersion(v int)
}

type named interface {
	GetName() string
}

// CatalogRepo is an in-memory domain.CatalogRepository.
type CatalogRepo[T entity.Cataloged] struct {
	*Table[T]
	entityName string
}

// NewCatalogRepo creates an empty catalog store.
func NewCatalogRepo[T entity.Cataloged](entityName string, clone func(T) T) *CatalogRepo[T] {
	return &CatalogRepo[T]{Table: NewTable(clone), entityName: entityName}
}

func (r *CatalogRepo[T]) Create(_ context.Context, e T) error {
	for _, existing := range r.All() {
		if existing.GetCode() == e.GetCode() {
			return apperror.NewDuplicate(r.entityName, "code", e.GetCode())
		}
	}
	r.Put(e.GetID(), e)
	return nil
}

func (r *CatalogRepo[T]) CreateMany(ctx context.Context, items []T) error {
	for _, e := range items {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepo[T]) GetByID(_ context.Context, key id.ID) (T, error) {
	e, ok := r.Get(key)
	if !ok {
		return e, notFound(r.entityName, key)
	}
	return e, nil
}

func (r *CatalogRepo[T]) GetByCode(_ context.Context, code string) (T, error) {
	for _, e := range r.All() {
		if e.GetCode() == code {
			return e, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound(r.entityName, code)
}

// Update replaces the row when the stored version matches and bumps it.
func (r *CatalogRepo[T]) Update(_ context.Context, e T) error {
	_, found, applied := r.Mutate(e.GetID(), func(cur T) (T, bool) {
		if cur.GetVersion() != e.GetVersion() {
			return cur, false
		}
		next := r.clone(e)
		if v, ok := any(next).(versioned); ok {
			v.SetVersion(e.GetVersion() + 1)
		}
		return next, true
	})
	if !found || !applied {
		return apperror.NewConcurrentModification(r.entityName, e.GetID())
	}
	if v, ok := any(e).(versioned); ok {
		v.SetVersion(e.GetVersion() + 1)
	}
	return nil
}

func (r *CatalogRepo[T]) Delete(_ context.Context, key id.ID) error {
	if !r.Table.Delete(key) {
		return notFound(r.entityName, key)
	}
	return nil
}

func (r *CatalogRepo[T]) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var items []T
	for _, e := range r.All() {
		if search != "" {
			name := ""
			if n, ok := any(e).(named); ok {
				name = n.GetName()
			}
			if !strings.Contains(strings.ToLower(name), search) &&
				!strings.Contains(strings.ToLower(e.GetCode()), search) {
				continue
			}
		}
		items = append(items, e)
	}
	return Paginate(items, filter), nil
}

func (r *CatalogRepo[T]) Exists(_ context.Context, key id.ID) (bool, error) {
	_, ok := r.Get(key)
	return ok, nil
}

func (r *CatalogRepo[T]) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, e := range r.All() {
		if e.GetCode() == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *CatalogRepo[T]) ExistingCodes(_ context.Context, codes []string) (map[string]bool, error) {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make(map[string]bool)
	for _, e := range r.All() {
		if want[e.GetCode()] {
			out[e.GetCode()] = true
		}
	}
	return out, nil
}
