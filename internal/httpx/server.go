package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	BeerPath     = "/api/v1/beer"
	OrderPath    = "/api/v1/beer-order"
	CustomerPath = "/api/v1/customer"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// principal returns the acting identity supplied by the auth layer in
// front of this service. Absence is a normal, handled case.
func principal(r *http.Request) string {
	return r.Header.Get("X-Principal")
}
