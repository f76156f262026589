package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, handler *Handler, gatherer prometheus.Gatherer, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewMux(handler, gatherer, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers the API routes. gatherer may be nil to leave out /metrics.
func NewMux(handler *Handler, gatherer prometheus.Gatherer, adminAPIKey string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/prices", handler.GetPrices)
	mux.HandleFunc("GET /api/v1/nisab/{currency}", handler.GetNisab)
	mux.HandleFunc("POST /api/v1/value", handler.ValueDeclaration)
	mux.HandleFunc("POST /api/v1/combined", handler.ComputeCombined)

	mux.HandleFunc("POST /api/v1/ledgers", handler.CreateLedger)
	mux.HandleFunc("GET /api/v1/ledgers/{id}", handler.GetLedger)
	mux.HandleFunc("DELETE /api/v1/ledgers/{id}", handler.DeleteLedger)
	mux.HandleFunc("POST /api/v1/ledgers/{id}/declarations", handler.AddDeclaration)
	mux.HandleFunc("DELETE /api/v1/ledgers/{id}/declarations", handler.ClearLedger)
	mux.HandleFunc("PUT /api/v1/ledgers/{id}/currency", handler.ChangeCurrency)
	mux.HandleFunc("GET /api/v1/ledgers/{id}/export.xlsx", handler.ExportLedger)

	refreshHandler := http.HandlerFunc(handler.RefreshPrices)
	if adminAPIKey != "" {
		mux.Handle("POST /api/v1/prices/refresh", requireAuth(adminAPIKey, refreshHandler))
	} else {
		mux.Handle("POST /api/v1/prices/refresh", refreshHandler)
	}

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
