package ledger

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, nil, nil))
	r := chi.NewRouter()
	r.Route("/ledger", handler.MountRoutes)
	return r
}

func TestHandleIntake(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	body := `{"name":"Apple","category":"Fruit","cost":10,"profit_margin":50,"quantity":20}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger/intake", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"price":15`)
	require.Len(t, repo.products, 1)
}

func TestHandleIntakeRejectsBadMargin(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	body := `{"name":"Apple","category":"Fruit","cost":10,"profit_margin":250,"quantity":20}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger/intake", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSaleInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	intake := `{"name":"Apple","category":"Fruit","cost":10,"profit_margin":50,"quantity":3}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger/intake", strings.NewReader(intake)))
	require.Equal(t, http.StatusOK, rec.Code)

	sale := `{"product_id":1,"quantity":5}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger/sales", strings.NewReader(sale)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"accepted":false`)
	require.EqualValues(t, 3, repo.products[1].Quantity)
}

func TestHandleSaleRejectsMalformedIdempotencyKey(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	req := httptest.NewRequest(http.MethodPost, "/ledger/sales", strings.NewReader(`{"product_id":1,"quantity":1}`))
	req.Header.Set("Idempotency-Key", "not-a-uuid")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDeleteProduct(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	intake := `{"name":"Tuna","category":"Fish","cost":30,"profit_margin":10,"quantity":4}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger/intake", strings.NewReader(intake)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ledger/products/1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Second delete is still a success.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ledger/products/1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
