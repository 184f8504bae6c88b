package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	bookingmemory "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/memory"
	bookingapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application"
	ordermemory "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/memory"
	orderapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application"
	sharederrors "github.com/loziogigio/vinc-pim-sub014/internal/shared/errors"
)

func newTestRouter() http.Handler {
	orders := orderapp.NewService(ordermemory.NewRepository(),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()))
	bookings := bookingapp.NewService(bookingmemory.NewBookingRepository(), bookingmemory.NewDepartureRepository())
	return NewRouter(NewHandlers(orders, bookings))
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func salesHeaders() map[string]string {
	return map[string]string{
		HeaderTenantID:  "tenant-a",
		HeaderActorID:   "sales-1",
		HeaderActorRole: "sales",
	}
}

func TestHealthz_NoIdentityRequired(t *testing.T) {
	router := newTestRouter()
	rec, body := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body["status"])
}

func TestActorContext_MissingHeadersRejected(t *testing.T) {
	router := newTestRouter()
	rec, body := doJSON(t, router, http.MethodPost, "/v1/orders", `{"customer_id":"cust-1"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, sharederrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, sharederrors.TypeUnauthorized, body["type"])
}

func TestActorContext_UnknownRoleRejected(t *testing.T) {
	router := newTestRouter()
	headers := salesHeaders()
	headers[HeaderActorRole] = "superuser"
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/orders", `{"customer_id":"cust-1"}`, headers)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_EndToEnd(t *testing.T) {
	router := newTestRouter()
	payload := `{
		"customer_id": "cust-1",
		"lines": [{"sku": "SKU-1", "description": "widget", "quantity": 10, "list_price": "25.00", "vat_rate": "22"}]
	}`
	rec, body := doJSON(t, router, http.MethodPost, "/v1/orders", payload, salesHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "draft", body["Status"])
	total, err := decimal.NewFromString(body["OrderTotal"].(string))
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("305.00")))
}

func TestCreateOrder_BindingErrorListsFields(t *testing.T) {
	router := newTestRouter()
	rec, body := doJSON(t, router, http.MethodPost, "/v1/orders", `{"notes":"no customer"}`, salesHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, sharederrors.TypeValidation, body["type"])
	extensions, ok := body["extensions"].(map[string]any)
	require.True(t, ok)
	fields, ok := extensions["fields"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, fields, "CustomerID")
}

func TestTransitionOrder_ProblemMapping(t *testing.T) {
	router := newTestRouter()
	rec, body := doJSON(t, router, http.MethodPost, "/v1/orders", `{"customer_id":"cust-1"}`, salesHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := body["ID"].(string)

	// draft→shipped is not an edge; it maps to the invalid-transition problem.
	rec, body = doJSON(t, router, http.MethodPost, "/v1/orders/"+orderID+"/transition", `{"status":"shipped"}`, salesHeaders())
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, sharederrors.TypeInvalidTransition, body["type"])
}

func TestGetOrder_NotFoundProblem(t *testing.T) {
	router := newTestRouter()
	rec, body := doJSON(t, router, http.MethodGet, "/v1/orders/missing", "", salesHeaders())
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, sharederrors.TypeNotFound, body["type"])
}

func TestSweepExpiredHolds_SystemRoleOnly(t *testing.T) {
	router := newTestRouter()

	rec, body := doJSON(t, router, http.MethodPost, "/v1/bookings/sweep-expired", "", salesHeaders())
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, sharederrors.TypeForbidden, body["type"])

	headers := salesHeaders()
	headers[HeaderActorRole] = "system"
	rec, body = doJSON(t, router, http.MethodPost, "/v1/bookings/sweep-expired", "", headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), body["expired"])
}

func TestCreateHold_CapacityProblem(t *testing.T) {
	router := newTestRouter()
	admin := map[string]string{
		HeaderTenantID:  "tenant-a",
		HeaderActorID:   "admin-1",
		HeaderActorRole: "admin",
	}

	rec, body := doJSON(t, router, http.MethodPost, "/v1/departures",
		`{"name":"morning tour","departs_at":"2026-09-01T08:00:00Z","capacity":2}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	departureID := body["ID"].(string)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/departures/"+departureID+"/transition", `{"status":"active"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/bookings/holds",
		`{"order_id":"ord-1","departure_id":"`+departureID+`","units":2}`, salesHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body = doJSON(t, router, http.MethodPost, "/v1/bookings/holds",
		`{"order_id":"ord-2","departure_id":"`+departureID+`","units":1}`, salesHeaders())
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, sharederrors.TypeInsufficientCapacity, body["type"])
}
