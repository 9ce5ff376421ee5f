package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/numerator"
	"blendery/internal/core/types"
	"blendery/internal/domain/auth"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/catalogs/supplier"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/domain/documents/production"
	"blendery/internal/domain/documents/sale"
	"blendery/internal/domain/registers/history"
	"blendery/internal/domain/registers/readystock"
	"blendery/internal/domain/reports"
	"blendery/internal/infrastructure/cache"
	v1 "blendery/internal/infrastructure/http/v1"
	"blendery/internal/testutil"
	"blendery/pkg/logger"
)

type emptyReports struct{}

func (emptyReports) StockValuation(context.Context, reports.StockValuationFilter) ([]reports.StockValuationItem, error) {
	return nil, nil
}

func (emptyReports) ReadyStockTotal(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (emptyReports) StockTurnover(context.Context, reports.StockTurnoverFilter) ([]reports.StockTurnoverItem, error) {
	return nil, nil
}

type api struct {
	t        *testing.T
	router   *gin.Engine
	st       *testutil.Stores
	formulas *formula.Service
	runs     *production.Service
}

func newAPI(t *testing.T) *api {
	t.Helper()
	st := testutil.NewStores()

	hist := history.NewService(st.History, st.Materials)
	ready := readystock.NewService(st.ReadyStock)
	formulas := formula.NewService(st.Formulas, st.Materials, st.Tx, st.Audit)
	runs := production.NewService(production.Deps{
		Repo:       st.Runs,
		Formulas:   formulas,
		Materials:  st.Materials,
		History:    hist,
		ReadyStock: ready,
		TxManager:  st.Tx,
		Audit:      st.Audit,
	})
	authSvc := auth.NewService(
		st.Users, st.Tx,
		auth.NewJWTService(auth.DefaultJWTConfig("router-test-secret")),
		st.Audit, auth.DefaultServiceConfig(),
	)

	ctx := testutil.AdminCtx()
	_, err := authSvc.CreateUser(ctx, auth.CreateUserRequest{
		Email: "admin@blendery.test", Password: "admin-pass", Name: "Admin", IsAdmin: true,
	})
	require.NoError(t, err)
	_, err = authSvc.CreateUser(ctx, auth.CreateUserRequest{
		Email: "clerk@blendery.test", Password: "clerk-pass", Name: "Clerk",
	})
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterConfig{
		AppName:        "blendery-test",
		Mode:           gin.TestMode,
		Logger:         logger.Nop(),
		TokenValidator: authSvc,
		Idempotency:    cache.NewMemoryIdempotencyStore(time.Hour),
		Services: v1.Services{
			Auth:       authSvc,
			Materials:  material.NewService(st.Materials, st.Tx, st.Audit),
			Formulas:   formulas,
			Customers:  customer.NewService(st.Customers, st.Tx, st.Audit),
			Suppliers:  supplier.NewService(st.Suppliers, st.Tx, st.Audit),
			Batches:    batch.NewService(st.Batches, st.Materials, hist, st.Tx, st.Audit),
			Production: runs,
			Packaging:  packaging.NewService(st.Packs, st.Runs, st.Tx, st.Audit, packaging.DefaultMarkup),
			Sales: sale.NewService(sale.Deps{
				Repo:      st.Sales,
				Packs:     st.Packs,
				Customers: st.Customers,
				Suppliers: st.Suppliers,
				Numerator: numerator.NewMemoryGenerator(),
				TxManager: st.Tx,
				Audit:     st.Audit,
			}),
			History:    hist,
			ReadyStock: ready,
			Reports:    reports.NewService(emptyReports{}),
			Audit:      st.Audit,
		},
	})

	return &api{t: t, router: router, st: st, formulas: formulas, runs: runs}
}

func (a *api) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	w, out := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": email, "password": password,
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	data := out["data"].(map[string]any)
	return data["accessToken"].(string)
}

func (a *api) createMaterial(token, code, name string) string {
	a.t.Helper()
	w, out := a.do(http.MethodPost, "/api/v1/materials", token, map[string]any{
		"code": code, "name": name, "unit": "kg",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return out["data"].(map[string]any)["id"].(string)
}

func TestHealthLive(t *testing.T) {
	a := newAPI(t)

	w, _ := a.do(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	a := newAPI(t)

	w, out := a.do(http.MethodGet, "/api/v1/materials", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "UNAUTHORIZED", out["code"])
	assert.EqualValues(t, http.StatusUnauthorized, out["statusCode"])
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newAPI(t)

	w, out := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "admin@blendery.test", "password": "nope-nope",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", out["code"])
}

func TestMaterials_CreateAndList(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")

	a.createMaterial(token, "TUR", "Turmeric")

	w, out := a.do(http.MethodGet, "/api/v1/materials?search=turm", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, out["success"])

	data := out["data"].(map[string]any)
	assert.EqualValues(t, 1, data["totalCount"])
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "TUR", items[0].(map[string]any)["code"])
}

func TestMaterials_DuplicateCode(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")
	a.createMaterial(token, "TUR", "Turmeric")

	w, out := a.do(http.MethodPost, "/api/v1/materials", token, map[string]any{
		"code": "TUR", "name": "Turmeric again",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_ENTRY", out["code"])
}

func TestBatches_AddUpdatesMaterialStock(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")
	materialID := a.createMaterial(token, "TUR", "Turmeric")

	w, _ := a.do(http.MethodPost, "/api/v1/batches", token, map[string]any{
		"materialId":      materialID,
		"category":        "spice",
		"unit":            "kg",
		"batchCode":       "TUR-001",
		"quantity":        10,
		"purchasePrice":   5,
		"transportCharge": 2,
		"supplier":        "Spice Co",
		"purchaseDate":    "2026-01-10",
		"expiryDate":      "2027-01-10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, out := a.do(http.MethodGet, "/api/v1/materials/"+materialID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := out["data"].(map[string]any)
	assert.EqualValues(t, 10, m["currentStock"])
	assert.EqualValues(t, 70, m["totalCost"])
	assert.EqualValues(t, 1, m["batchCount"])

	w, out = a.do(http.MethodGet, "/api/v1/materials/"+materialID+"/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, out["data"].([]any), 1)
}

func TestBatches_ZeroQuantityRejected(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")
	materialID := a.createMaterial(token, "TUR", "Turmeric")

	w, out := a.do(http.MethodPost, "/api/v1/batches", token, map[string]any{
		"materialId":    materialID,
		"category":      "spice",
		"unit":          "kg",
		"batchCode":     "TUR-001",
		"quantity":      0,
		"purchasePrice": 5,
		"supplier":      "Spice Co",
		"purchaseDate":  "2026-01-10",
		"expiryDate":    "2027-01-10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", out["code"])
	assert.Empty(t, a.st.Batches.All())
}

func TestProduction_CompleteWithoutStock(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")

	tur := material.NewMaterial("TUR", "Turmeric")
	a.st.Materials.Seed(tur)
	curry := formula.NewFormula("CURRY", "Curry", []formula.Component{
		{MaterialID: tur.ID, Grams: types.MustDecimal("1000"), Percentage: types.MustDecimal("100")},
	})
	require.NoError(t, a.formulas.Create(testutil.Ctx(), curry))
	run, err := a.runs.Create(testutil.Ctx(), curry.ID, types.MustDecimal("5"))
	require.NoError(t, err)

	w, out := a.do(http.MethodPatch, "/api/v1/production/"+run.ID.String()+"/status", token, map[string]any{
		"status": "complete",
	})

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "INSUFFICIENT_STOCK", out["code"])
	details := out["details"].(map[string]any)
	items := details["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, tur.ID.String(), items[0].(map[string]any)["id"])

	got, err := a.runs.GetByID(testutil.Ctx(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, production.StatusPending, got.Status)
}

func TestIdempotency_ReplaysCreate(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")
	body := map[string]any{"code": "C-1", "name": "Corner Shop"}

	w1, out1 := a.do(http.MethodPost, "/api/v1/customers", token, body, "Idempotency-Key", "cust-1")
	require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

	w2, out2 := a.do(http.MethodPost, "/api/v1/customers", token, body, "Idempotency-Key", "cust-1")
	require.Equal(t, http.StatusCreated, w2.Code, w2.Body.String())
	assert.Equal(t, "true", w2.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, out1["data"].(map[string]any)["id"], out2["data"].(map[string]any)["id"])
	assert.Len(t, a.st.Customers.All(), 1)

	w3, out3 := a.do(http.MethodPost, "/api/v1/customers", token,
		map[string]any{"code": "C-2", "name": "Other"}, "Idempotency-Key", "cust-1")
	assert.Equal(t, http.StatusConflict, w3.Code)
	assert.Equal(t, "IDEMPOTENCY_CONFLICT", out3["code"])
}

func TestDelete_RequiresAdmin(t *testing.T) {
	a := newAPI(t)
	clerk := a.login("clerk@blendery.test", "clerk-pass")
	admin := a.login("admin@blendery.test", "admin-pass")
	materialID := a.createMaterial(clerk, "TUR", "Turmeric")

	w, out := a.do(http.MethodDelete, "/api/v1/materials/"+materialID, clerk, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", out["code"])

	w, _ = a.do(http.MethodDelete, "/api/v1/materials/"+materialID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGet_UnknownIDIsNotFound(t *testing.T) {
	a := newAPI(t)
	token := a.login("clerk@blendery.test", "clerk-pass")

	w, out := a.do(http.MethodGet, "/api/v1/formulas/0190f1a2-0000-7000-8000-000000000999", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", out["code"])
}
