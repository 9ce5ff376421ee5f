package sale

import (
	"context"
	"fmt"
	"strings"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/core/numerator"
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/packaging"
	"blendery/pkg/logger"
)

// PartyLookup reports whether a customer or supplier exists.
type PartyLookup interface {
	Exists(ctx context.Context, partyID id.ID) (bool, error)
}

// Service provides sales.
type Service struct {
	repo      Repository
	packs     packaging.Repository
	customers PartyLookup
	suppliers PartyLookup
	numerator numerator.Generator
	txManager tx.Manager
	audit     audit.Recorder
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo      Repository
	Packs     packaging.Repository
	Customers PartyLookup
	Suppliers PartyLookup
	Numerator numerator.Generator
	TxManager tx.Manager
	Audit     audit.Recorder // optional
}

// NewService creates a new sale service.
func NewService(d Deps) *Service {
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	return &Service{
		repo:      d.Repo,
		packs:     d.Packs,
		customers: d.Customers,
		suppliers: d.Suppliers,
		numerator: d.Numerator,
		txManager: d.TxManager,
		audit:     d.Audit,
	}
}

// Create records a sale. Prices are taken from the packaging batches.
// A Completed sale takes its packs in the same transaction and is
// rejected outright if any batch is short.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Sale, error) {
	actor, err := appctx.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	status, err := ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	if err := s.checkParty(ctx, s.customers, "customer", in.CustomerID); err != nil {
		return nil, err
	}
	if in.SupplierID != nil {
		if err := s.checkParty(ctx, s.suppliers, "supplier", *in.SupplierID); err != nil {
			return nil, err
		}
	}

	ids := make([]id.ID, len(in.Items))
	for i, it := range in.Items {
		ids[i] = it.PackagingBatchID
	}
	batches, err := s.packs.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load packaging batches: %w", err)
	}

	sale := &Sale{
		BaseDocument: entity.NewBaseDocument(actor),
		CustomerID:   in.CustomerID,
		SupplierID:   in.SupplierID,
		Date:         in.Date,
		OrderTax:     in.OrderTax,
		Discount:     in.Discount,
		Shipping:     in.Shipping,
		Status:       status,
		Notes:        in.Notes,
		Items:        make([]Item, 0, len(in.Items)),
	}
	if sale.Date.IsZero() {
		sale.Date = sale.CreatedAt
	}

	for i, it := range in.Items {
		b, ok := batches[it.PackagingBatchID]
		if !ok {
			return nil, apperror.NewNotFound("packaging batch", it.PackagingBatchID.String())
		}
		sale.Items = append(sale.Items, NewItem(i+1, b.FormulaID, b.ID, it.Quantity, b.PricePerPack, it.Discount, it.Tax))
	}
	sale.Recalculate()
	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	if status == StatusCompleted {
		order, qty := sale.PackagesByBatch()
		if err := checkAvailability(order, qty, batches); err != nil {
			return nil, err
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, NumberConfig, numerator.DefaultOptions(), sale.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		sale.Number = number

		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveItems(ctx, sale.ID, sale.Items); err != nil {
			return fmt.Errorf("save sale items: %w", err)
		}

		if status == StatusCompleted {
			if err := s.takePackages(ctx, sale); err != nil {
				return err
			}
		}

		return s.audit.Record(ctx, audit.EntitySale, sale.ID, audit.ActionCreate, sale)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"sale_id", sale.ID,
		"number", sale.Number,
		"status", sale.Status,
		"grand_total", sale.GrandTotal)

	return sale, nil
}

// UpdateStatus moves a pending sale to Completed (taking its packs) or
// Cancelled. Completed and Cancelled are terminal.
func (s *Service) UpdateStatus(ctx context.Context, saleID id.ID, status string) (*Sale, error) {
	if _, err := appctx.ActorID(ctx); err != nil {
		return nil, err
	}
	to, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if to == StatusPending {
		return nil, apperror.NewValidation("status must be Completed or Cancelled")
	}

	var sale *Sale
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err = s.repo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.Status.IsTerminal() {
			return apperror.NewInvalidTransition("sale", string(sale.Status), string(to))
		}

		if to == StatusCompleted {
			if err := s.takePackages(ctx, sale); err != nil {
				return err
			}
		}

		ok, err := s.repo.ApplyStatus(ctx, saleID, sale.Status, to, sale.Version)
		if err != nil {
			return fmt.Errorf("update sale status: %w", err)
		}
		if !ok {
			return apperror.NewConflict("sale was changed by another request").WithDetail("id", saleID.String())
		}

		from := sale.Status
		sale.Status = to
		sale.Version++
		return s.audit.Record(ctx, audit.EntitySale, saleID, audit.ActionStatusChange,
			map[string]any{"from": from, "to": to})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// takePackages decrements every referenced batch with a guarded update.
// All short batches are reported; the caller's transaction rolls back.
func (s *Service) takePackages(ctx context.Context, sale *Sale) error {
	order, qty := sale.PackagesByBatch()

	var short []id.ID
	for _, batchID := range order {
		ok, err := s.packs.TakePackages(ctx, batchID, qty[batchID])
		if err != nil {
			return fmt.Errorf("take packages: %w", err)
		}
		if !ok {
			short = append(short, batchID)
		}
	}
	if len(short) == 0 {
		return nil
	}

	current, err := s.packs.GetMany(ctx, short)
	if err != nil {
		return fmt.Errorf("load packaging batches: %w", err)
	}
	if err := checkAvailability(short, qty, current); err != nil {
		return err
	}
	// The guarded update missed although the reload shows enough packs.
	return apperror.NewConflict("packaging batch was changed by another request").
		WithDetail("id", short[0].String())
}

// checkAvailability reports every batch in order with fewer packs than
// qty requests. A batch missing from batches is NotFound.
func checkAvailability(order []id.ID, qty map[id.ID]int, batches map[id.ID]*packaging.Batch) error {
	var short []apperror.Shortage
	for _, batchID := range order {
		b, ok := batches[batchID]
		if !ok {
			return apperror.NewNotFound("packaging batch", batchID.String())
		}
		if b.NumberOfPackages < qty[batchID] {
			short = append(short, apperror.Shortage{
				ID:        batchID.String(),
				Name:      b.RunBatchCode,
				Available: fmt.Sprint(b.NumberOfPackages),
				Required:  fmt.Sprint(qty[batchID]),
			})
		}
	}
	if len(short) == 0 {
		return nil
	}

	codes := make([]string, len(short))
	for i, sh := range short {
		codes[i] = sh.ID
		if sh.Name != "" {
			codes[i] = sh.Name
		}
	}
	return apperror.NewInsufficientStock("Insufficient packages for: "+strings.Join(codes, ", "), short)
}

func (s *Service) checkParty(ctx context.Context, lookup PartyLookup, kind string, partyID id.ID) error {
	ok, err := lookup.Exists(ctx, partyID)
	if err != nil {
		return fmt.Errorf("check %s: %w", kind, err)
	}
	if !ok {
		return apperror.NewNotFound(kind, partyID.String())
	}
	return nil
}

// GetByID returns one sale with items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// List returns a page of sales, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
