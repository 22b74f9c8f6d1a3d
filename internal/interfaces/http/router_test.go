package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/equipment"
	appinv "github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/movements"
	"github.com/jhoicas/almacen-api/internal/application/purchasing"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newAPI arma la API completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	ledger := appinv.NewLedger(log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:    usecase.NewProductUseCase(store, ledger, repos.Products, log),
		MovementUC:   movements.NewUseCase(store, ledger, repos.Movements, log),
		EquipmentUC:  equipment.NewUseCase(store, ledger, repos.Equipment, log),
		PurchasingUC: purchasing.NewUseCase(store, ledger, repos.PurchaseOrders, log),
		StockAlertUC: appinv.NewStockAlertUseCase(repos.Products, domaininv.DefaultAlertPolicy(), pdf.NewMarotoPDFGenerator()),
		JWTSecret:    testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, role, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, code string, stock int) {
	t.Helper()
	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/products", map[string]any{
		"code": code, "name": "Guantes de nitrilo", "unit_cost": "2.50", "stock": stock,
		"stock_minimo": 5, "location": "A1", "category": "EPP",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func getProduct(t *testing.T, app *fiber.App, code string) dto.ProductResponse {
	t.Helper()
	resp := call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/products/"+code, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func movement(code string, qty int) map[string]any {
	return map[string]any{
		"date": "15/01/2025", "product_code": code, "description": "Guantes de nitrilo",
		"unit_price": "2.50", "quantity": qty, "responsible": "Juan Pérez", "area": "Obra",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_CrearYObtener(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 10)

	p := getProduct(t, app, "AF2025")
	assert.Equal(t, 10, p.StockActual)
	assert.Equal(t, 0, p.Entries, "el stock inicial no cuenta como entrada")
	assert.Equal(t, "25", p.TotalCost.String())
}

func TestProductos_CodigoDuplicadoRetorna409(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 1)

	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/products", map[string]any{"code": "AF2025", "name": "Otro"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body.Code)
}

func TestProductos_ValidacionRetorna400(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/products", map[string]any{"name": "Sin código"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "Code")
}

func TestProductos_AsistenteNoPuedeCrear(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, apphttp.RoleAsistente, http.MethodPost, "/api/products", map[string]any{"code": "X", "name": "X"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProductos_ArchivarLiberaElCodigo(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 3)

	resp := call(t, app, apphttp.RoleGerente, http.MethodDelete, "/api/products/AF2025", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, apphttp.RoleGerente, http.MethodGet, "/api/products/AF2025", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	createProduct(t, app, "AF2025", 0)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestSalidas_StockInsuficienteRetorna409ConDetalle(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 7)

	resp := call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/exits", movement("AF2025", 8))
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.EqualValues(t, 7, body.Details["available"])
	assert.EqualValues(t, 8, body.Details["requested"])
	assert.Equal(t, 7, getProduct(t, app, "AF2025").StockActual, "el rechazo no modifica stock")
}

func TestEntradas_CrearEditarYAnular(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 10)

	resp := call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/entries", movement("AF2025", 5))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "15/01/2025", entry.Date)
	assert.Equal(t, 15, getProduct(t, app, "AF2025").StockActual)

	resp = call(t, app, apphttp.RoleAyudante, http.MethodPatch, "/api/entries/"+entry.ID+"/quantity", map[string]any{"quantity": 8})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 18, getProduct(t, app, "AF2025").StockActual)

	// AYUDANTE no tiene movements:delete
	resp = call(t, app, apphttp.RoleAyudante, http.MethodDelete, "/api/entries/"+entry.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, apphttp.RoleGerente, http.MethodDelete, "/api/entries/"+entry.ID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, getProduct(t, app, "AF2025").StockActual)

	resp = call(t, app, apphttp.RoleGerente, http.MethodGet, "/api/entries/"+entry.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEntradas_AnularEntradaConsumidaRetorna409(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 0)

	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/entries", movement("AF2025", 10))
	entry := decode[dto.MovementResponse](t, resp)
	resp = call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/exits", movement("AF2025", 6))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, apphttp.RoleGerente, http.MethodDelete, "/api/entries/"+entry.ID, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, 4, getProduct(t, app, "AF2025").StockActual)
}

func TestEntradas_ProductoInexistenteRetorna404(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/entries", movement("NOEXISTE", 1))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovimientos_ListadoYBusqueda(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 50)
	for i := 0; i < 3; i++ {
		resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/exits", movement("AF2025", 1))
		resp.Body.Close()
	}

	resp := call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/exits?limit=2&page=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.MovementListResponse](t, resp)
	assert.Len(t, list.Data, 2)
	assert.Equal(t, 3, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)

	resp = call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/movements/search?q=nitrilo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decode[dto.MovementSearchResponse](t, resp)
	assert.Len(t, found.Exits, 3)
	assert.Empty(t, found.Entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// Equipos
// ──────────────────────────────────────────────────────────────────────────────

func TestEquipos_SalidaDescuentaYRetornoNoReabastece(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "TAL-01", 4)

	resp := call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/equipment", map[string]any{
		"equipment_name": "Taladro", "product_code": "TAL-01", "quantity": 1, "condition": "Bueno",
		"responsible": "Ana", "checkout_date": "02/03/2025", "checkout_time": "08:30", "area_project": "Torre B",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	report := decode[dto.EquipmentResponse](t, resp)
	assert.Equal(t, 3, getProduct(t, app, "TAL-01").StockActual)

	ret := map[string]any{"return_date": "05/03/2025", "return_time": "17:00", "return_condition": "Regular"}
	resp = call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/equipment/"+report.ID+"/return", ret)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	returned := decode[dto.EquipmentResponse](t, resp)
	assert.True(t, returned.Returned)
	assert.Equal(t, 3, getProduct(t, app, "TAL-01").StockActual)

	ret["return_condition"] = "Bueno"
	ret["return_responsible"] = "Pedro"
	resp = call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/equipment/"+report.ID+"/return", ret)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	returned = decode[dto.EquipmentResponse](t, resp)
	assert.Equal(t, "Bueno", returned.ReturnCondition)
	assert.Equal(t, "Pedro", returned.ReturnResponsible)
	assert.Equal(t, 3, getProduct(t, app, "TAL-01").StockActual)

	resp = call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/equipment/code/TAL-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	latest := decode[dto.EquipmentResponse](t, resp)
	assert.Equal(t, report.ID, latest.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestOrdenes_LineaVinculadaDescuentaYDevuelveStock(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 10)

	resp := call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/purchase-orders", map[string]any{"date": "10/02/2025"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, "OC-0001", order.Code)

	line := map[string]any{"date": "10/02/2025", "product_code": "AF2025", "name": "Guantes", "quantity": 4, "unit_cost": "2.50"}
	resp = call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/purchase-orders/"+order.ID+"/lines", line)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order = decode[dto.PurchaseOrderResponse](t, resp)
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].StockLinked)
	assert.Equal(t, 4, order.Quantity)
	assert.Equal(t, "10", order.Cost.String())
	assert.Equal(t, 6, getProduct(t, app, "AF2025").StockActual)

	resp = call(t, app, apphttp.RoleGerente, http.MethodDelete, "/api/purchase-orders/"+order.ID+"/lines/"+order.Lines[0].ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order = decode[dto.PurchaseOrderResponse](t, resp)
	assert.Empty(t, order.Lines)
	assert.Equal(t, 0, order.Quantity)
	assert.Equal(t, 10, getProduct(t, app, "AF2025").StockActual)
}

func TestOrdenes_LineaSinProductoNoTocaStock(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/purchase-orders", map[string]any{"date": "10/02/2025"})
	order := decode[dto.PurchaseOrderResponse](t, resp)

	line := map[string]any{"date": "10/02/2025", "product_code": "LIBRE-1", "name": "Servicio", "quantity": 2, "unit_cost": "100"}
	resp = call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/purchase-orders/"+order.ID+"/lines", line)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order = decode[dto.PurchaseOrderResponse](t, resp)
	assert.False(t, order.Lines[0].StockLinked)
	assert.Equal(t, "200", order.Cost.String())
}

func TestOrdenes_LineaSinCodigoSeAcepta(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/purchase-orders", map[string]any{"date": "10/02/2025"})
	order := decode[dto.PurchaseOrderResponse](t, resp)

	line := map[string]any{"date": "10/02/2025", "name": "Flete", "quantity": 1, "unit_cost": "80"}
	resp = call(t, app, apphttp.RoleGerente, http.MethodPost, "/api/purchase-orders/"+order.ID+"/lines", line)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order = decode[dto.PurchaseOrderResponse](t, resp)
	require.Len(t, order.Lines, 1)
	assert.Empty(t, order.Lines[0].ProductCode)
	assert.False(t, order.Lines[0].StockLinked)
}

func TestEntradas_CantidadExcesivaRetorna400(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "AF2025", 10)

	resp := call(t, app, apphttp.RoleAyudante, http.MethodPost, "/api/entries", movement("AF2025", 1_000_001))
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "Quantity")
	assert.Equal(t, 10, getProduct(t, app, "AF2025").StockActual)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertas_EstadisticasYPDF(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "CRIT", 1)
	createProduct(t, app, "OK", 50)

	resp := call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/reports/stock-alerts/statistics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.StockAlertStatistics](t, resp)
	assert.Equal(t, 1, stats.Total, "solo cuenta productos en alerta")
	assert.Equal(t, 1, stats.Critical)

	resp = call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/reports/stock-alerts?status=critico", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alerts := decode[[]dto.StockAlertDTO](t, resp)
	require.Len(t, alerts, 1)
	assert.Equal(t, "CRIT", alerts[0].Code)

	resp = call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/reports/stock-alerts?status=otro", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, apphttp.RoleAsistente, http.MethodGet, "/api/reports/stock-alerts/pdf", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRutaInexistenteRetorna404JSON(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, apphttp.RoleGerente, http.MethodGet, "/api/no-existe", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}
