package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain/registers/history"
	"blendery/internal/domain/registers/readystock"
)

// HistoryRepo is an in-memory history.Repository.
type HistoryRepo struct {
	*Table[*history.Entry]
}

var _ history.Repository = (*HistoryRepo)(nil)

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{Table: NewTable(ClonePtr[history.Entry])}
}

func (r *HistoryRepo) Append(_ context.Context, e *history.Entry) error {
	r.Put(e.ID, e)
	return nil
}

func (r *HistoryRepo) ListByMaterial(_ context.Context, materialID id.ID, t *history.Type) ([]*history.Entry, error) {
	all := r.All()
	out := make([]*history.Entry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if e.MaterialID != materialID || (t != nil && e.Type != *t) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ReadyStockRepo is an in-memory readystock.Repository keyed by formula.
type ReadyStockRepo struct {
	*Table[*readystock.ReadyStock]
}

var _ readystock.Repository = (*ReadyStockRepo)(nil)

func NewReadyStockRepo() *ReadyStockRepo {
	return &ReadyStockRepo{Table: NewTable(ClonePtr[readystock.ReadyStock])}
}

func (r *ReadyStockRepo) Credit(_ context.Context, formulaID id.ID, qty decimal.Decimal) (*readystock.ReadyStock, error) {
	row, found, _ := r.Mutate(formulaID, func(rs *readystock.ReadyStock) (*readystock.ReadyStock, bool) {
		rs.TotalQuantity = rs.TotalQuantity.Add(qty)
		rs.UpdatedAt = time.Now().UTC()
		return rs, true
	})
	if found {
		return row, nil
	}
	row = &readystock.ReadyStock{
		ID:            id.New(),
		FormulaID:     formulaID,
		TotalQuantity: qty,
		UpdatedAt:     time.Now().UTC(),
	}
	r.Put(formulaID, row)
	return row, nil
}

func (r *ReadyStockRepo) List(context.Context) ([]*readystock.ReadyStock, error) {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].FormulaName < out[j].FormulaName })
	return out, nil
}

func (r *ReadyStockRepo) GetByFormula(_ context.Context, formulaID id.ID) (*readystock.ReadyStock, error) {
	row, ok := r.Get(formulaID)
	if !ok {
		return nil, apperror.NewNotFound("ready stock", formulaID.String())
	}
	return row, nil
}
