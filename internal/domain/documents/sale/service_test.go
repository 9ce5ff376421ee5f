package sale_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/core/numerator"
	"blendery/internal/core/types"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/domain/documents/sale"
	"blendery/internal/testutil"
)

type fixture struct {
	svc      *sale.Service
	st       *testutil.Stores
	customer *customer.Customer
	pack     *packaging.Batch
}

// setup stocks one packaging batch of 10 packs at 35.
func setup(t *testing.T) fixture {
	t.Helper()
	st := testutil.NewStores()

	c := customer.NewCustomer("C1", "Corner Shop")
	st.Customers.Put(c.ID, c)

	pack := &packaging.Batch{
		BaseEntity:       entity.NewBaseEntity(),
		ProductionRunID:  id.New(),
		PackageSizeGrams: types.MustDecimal("250"),
		NumberOfPackages: 10,
		TotalWeightKg:    types.MustDecimal("2.5"),
		PricePerPack:     types.MustDecimal("35"),
		PackagingDate:    time.Now().UTC(),
		PackagedBy:       testutil.ActorID,
		RunBatchCode:     "BATCH-20240502-AB12",
		FormulaID:        id.New(),
	}
	st.Packs.Put(pack.ID, pack)

	svc := sale.NewService(sale.Deps{
		Repo:      st.Sales,
		Packs:     st.Packs,
		Customers: st.Customers,
		Suppliers: st.Suppliers,
		Numerator: numerator.NewMemoryGenerator(),
		TxManager: st.Tx,
		Audit:     st.Audit,
	})
	return fixture{svc: svc, st: st, customer: c, pack: pack}
}

func (f fixture) input(status string, qty ...int) sale.CreateInput {
	in := sale.CreateInput{
		CustomerID: f.customer.ID,
		Date:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:     status,
	}
	for _, q := range qty {
		in.Items = append(in.Items, sale.ItemInput{PackagingBatchID: f.pack.ID, Quantity: q})
	}
	return in
}

func (f fixture) packsLeft(t *testing.T) int {
	t.Helper()
	b, ok := f.st.Packs.Get(f.pack.ID)
	require.True(t, ok)
	return b.NumberOfPackages
}

func TestCreate_CompletedTakesPackages(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	in := f.input("Completed", 3)
	in.Items[0].Discount = types.MustDecimal("5")
	in.Items[0].Tax = types.MustDecimal("2")
	in.Shipping = types.MustDecimal("10")
	in.OrderTax = types.MustDecimal("3")
	in.Discount = types.MustDecimal("1")

	s, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, sale.StatusCompleted, s.Status)
	assert.Equal(t, "SL-2024-00001", s.Number)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "35", s.Items[0].Price.String())
	assert.Equal(t, "102", s.Items[0].Subtotal.String())
	assert.Equal(t, f.pack.FormulaID, s.Items[0].FormulaID)
	assert.Equal(t, "114", s.GrandTotal.String())
	assert.Equal(t, 7, f.packsLeft(t))

	stored, err := f.svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestCreate_PendingKeepsPackages(t *testing.T) {
	f := setup(t)

	s, err := f.svc.Create(testutil.Ctx(), f.input("", 3))
	require.NoError(t, err)
	assert.Equal(t, sale.StatusPending, s.Status)
	assert.Equal(t, 10, f.packsLeft(t))
}

func TestCreate_ShortageRejectsOutright(t *testing.T) {
	f := setup(t)

	// 6 + 6 packs from the same batch of 10.
	_, err := f.svc.Create(testutil.Ctx(), f.input("Completed", 6, 6))
	require.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	appErr, _ := apperror.AsAppError(err)
	items := appErr.Details["items"].([]apperror.Shortage)
	require.Len(t, items, 1)
	assert.Equal(t, "10", items[0].Available)
	assert.Equal(t, "12", items[0].Required)

	assert.Equal(t, 10, f.packsLeft(t))
	assert.Equal(t, 0, f.st.Sales.Len())
	assert.Empty(t, f.st.Audit.Actions(audit.EntitySale))
}

func TestCreate_Rejects(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	in := f.input("Completed", 1)
	in.CustomerID = id.New()
	_, err := f.svc.Create(ctx, in)
	assert.True(t, apperror.IsNotFound(err))

	in = f.input("Completed", 1)
	in.Items[0].PackagingBatchID = id.New()
	_, err = f.svc.Create(ctx, in)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.Create(ctx, f.input("Shipped", 1))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.svc.Create(ctx, f.input("Completed"))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	in = f.input("Pending", 1)
	in.Discount = types.MustDecimal("100")
	_, err = f.svc.Create(ctx, in)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "negative grand total")
}

func TestCreate_NumbersAreSequential(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	for i := 1; i <= 3; i++ {
		s, err := f.svc.Create(ctx, f.input("Pending", 1))
		require.NoError(t, err)
		assert.Equal(t, "SL-2024-0000"+strconv.Itoa(i), s.Number)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	s, err := f.svc.Create(ctx, f.input("Pending", 4))
	require.NoError(t, err)

	done, err := f.svc.UpdateStatus(ctx, s.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, sale.StatusCompleted, done.Status)
	assert.Equal(t, 6, f.packsLeft(t))

	_, err = f.svc.UpdateStatus(ctx, s.ID, "cancelled")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
	assert.Equal(t, 6, f.packsLeft(t))
}

func TestUpdateStatus_ShortageKeepsPending(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	first, err := f.svc.Create(ctx, f.input("Pending", 8))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.input("Pending", 8))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, first.ID, "Completed")
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, second.ID, "Completed")
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	stored, err := f.svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusPending, stored.Status)
	assert.Equal(t, 2, f.packsLeft(t))
}

func TestUpdateStatus_MissingBatchIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	pending, err := f.svc.Create(ctx, f.input("Pending", 2))
	require.NoError(t, err)
	require.True(t, f.st.Packs.Delete(f.pack.ID))

	_, err = f.svc.UpdateStatus(ctx, pending.ID, "Completed")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	stored, err := f.svc.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusPending, stored.Status)
}

func TestUpdateStatus_PendingIsNotATarget(t *testing.T) {
	f := setup(t)

	_, err := f.svc.UpdateStatus(testutil.Ctx(), id.New(), "pending")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
