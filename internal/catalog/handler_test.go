package catalog

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store *memoryStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(store, 5))
	r := chi.NewRouter()
	r.Route("/catalog", handler.MountRoutes)
	return r
}

func TestHandleGetProduct(t *testing.T) {
	store := &memoryStore{products: []Product{
		{ID: 7, Name: "Apple", Category: "Fruit", Quantity: 12},
	}}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"Apple"`)
}

func TestHandleGetProductNotFound(t *testing.T) {
	router := newTestRouter(&memoryStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/99", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetProductRejectsBadID(t *testing.T) {
	router := newTestRouter(&memoryStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/banana", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
