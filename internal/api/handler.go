package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/combined"
	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/ledger"
	"github.com/mtlprog/zakat/internal/metrics"
	"github.com/mtlprog/zakat/internal/nisab"
	"github.com/mtlprog/zakat/internal/pricefeed"
	"github.com/mtlprog/zakat/internal/session"
	"github.com/mtlprog/zakat/internal/valuation"
)

const maxBodyBytes = 1 << 20

// PriceSource provides the current price snapshot.
type PriceSource interface {
	Current(ctx context.Context) (pricefeed.Snapshot, error)
	Refresh(ctx context.Context) error
}

// Handler provides HTTP endpoints for the Zakat API.
type Handler struct {
	prices          PriceSource
	ledgers         *session.Store
	metrics         *metrics.Collector
	defaultCurrency domain.CurrencyCode
	now             func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(prices PriceSource, ledgers *session.Store, m *metrics.Collector, defaultCurrency domain.CurrencyCode) *Handler {
	return &Handler{
		prices:          prices,
		ledgers:         ledgers,
		metrics:         m,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// GetPrices handles GET /api/v1/prices.
func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	snap, err := h.prices.Current(r.Context())
	if err != nil {
		slog.Error("failed to get prices", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RefreshPrices handles POST /api/v1/prices/refresh.
func (h *Handler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	if err := h.prices.Refresh(r.Context()); err != nil {
		slog.Warn("manual price refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "price feed unavailable")
		return
	}
	h.GetPrices(w, r)
}

type nisabResponse struct {
	domain.Thresholds
	Symbol      string          `json:"symbol"`
	GoldGrams   decimal.Decimal `json:"goldGrams"`
	SilverGrams decimal.Decimal `json:"silverGrams"`
}

// GetNisab handles GET /api/v1/nisab/{currency}.
func (h *Handler) GetNisab(w http.ResponseWriter, r *http.Request) {
	table, ok := h.priceTable(w, r)
	if !ok {
		return
	}

	currency := domain.NormalizeCurrency(r.PathValue("currency"))
	th, err := nisab.Thresholds(table, currency)
	if err != nil {
		writeDomainError(w, err, "compute nisab")
		return
	}
	writeJSON(w, http.StatusOK, nisabResponse{
		Thresholds:  th,
		Symbol:      table[currency].Symbol,
		GoldGrams:   nisab.GoldNisabGrams,
		SilverGrams: nisab.SilverNisabGrams,
	})
}

type declarationRequest struct {
	Kind     string `json:"kind"`
	Amount   string `json:"amount"`
	Unit     string `json:"unit"`
	Currency string `json:"currency"`
}

// raw joins amount and unit into the form the parser accepts.
func (req declarationRequest) raw() string {
	return strings.TrimSpace(req.Amount + " " + req.Unit)
}

type valueResponse struct {
	Declaration string              `json:"declaration"`
	Currency    domain.CurrencyCode `json:"currency"`
	Value       decimal.Decimal     `json:"value"`
	Formatted   string              `json:"formatted"`
}

// ValueDeclaration handles POST /api/v1/value.
func (h *Handler) ValueDeclaration(w http.ResponseWriter, r *http.Request) {
	var req declarationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	table, ok := h.priceTable(w, r)
	if !ok {
		return
	}

	currency := h.currencyOrDefault(req.Currency)
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		writeDomainError(w, err, "parse kind")
		return
	}
	decl, err := valuation.ParseDeclaration(kind, req.raw(), currency)
	if err != nil {
		writeDomainError(w, err, "parse declaration")
		return
	}
	value, err := valuation.Value(decl, table, currency)
	if err != nil {
		writeDomainError(w, err, "value declaration")
		return
	}

	writeJSON(w, http.StatusOK, valueResponse{
		Declaration: decl.String(),
		Currency:    currency,
		Value:       value,
		Formatted:   domain.FormatMoney(value, currency, table[currency].Symbol),
	})
}

type combinedRequest struct {
	Currency string `json:"currency"`
	Gold     string `json:"gold"`
	Silver   string `json:"silver"`
	Money    string `json:"money"`
}

type combinedResponse struct {
	domain.CombinedResult
	FormattedTotal string `json:"formattedTotal"`
	FormattedZakat string `json:"formattedZakat"`
}

// ComputeCombined handles POST /api/v1/combined.
func (h *Handler) ComputeCombined(w http.ResponseWriter, r *http.Request) {
	var req combinedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	table, ok := h.priceTable(w, r)
	if !ok {
		return
	}

	currency := h.currencyOrDefault(req.Currency)
	var in combined.Inputs
	for _, f := range []struct {
		kind domain.Kind
		raw  string
		dst  **domain.Declaration
	}{
		{domain.KindGold, req.Gold, &in.Gold},
		{domain.KindSilver, req.Silver, &in.Silver},
		{domain.KindMoney, req.Money, &in.Money},
	} {
		decl, err := valuation.ParseOptional(f.kind, f.raw, currency)
		if err != nil {
			writeDomainError(w, err, "parse declaration")
			return
		}
		*f.dst = decl
	}

	res, err := combined.Compute(in, table, currency)
	if err != nil {
		writeDomainError(w, err, "compute combined")
		return
	}
	h.metrics.CombinedComputed(res.IsEligible)

	symbol := table[currency].Symbol
	writeJSON(w, http.StatusOK, combinedResponse{
		CombinedResult: res,
		FormattedTotal: domain.FormatMoney(res.TotalValue, currency, symbol),
		FormattedZakat: domain.FormatMoney(res.ZakatAmount, currency, symbol),
	})
}

// priceTable resolves the current table or writes the error response.
func (h *Handler) priceTable(w http.ResponseWriter, r *http.Request) (domain.PriceTable, bool) {
	snap, err := h.prices.Current(r.Context())
	if err != nil {
		slog.Error("failed to get prices", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	table, err := snap.Require()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	}
	return table, true
}

func (h *Handler) currencyOrDefault(raw string) domain.CurrencyCode {
	if c := domain.NormalizeCurrency(raw); c != "" {
		return c
	}
	return h.defaultCurrency
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

type belowNisabResponse struct {
	Error     string              `json:"error"`
	Kind      domain.Kind         `json:"kind"`
	Currency  domain.CurrencyCode `json:"currency"`
	Value     decimal.Decimal     `json:"value"`
	Threshold decimal.Decimal     `json:"threshold"`
	Shortfall decimal.Decimal     `json:"shortfall"`
}

// writeDomainError maps engine errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error, action string) {
	var below *ledger.BelowNisabError
	switch {
	case errors.As(err, &below):
		writeJSON(w, http.StatusUnprocessableEntity, belowNisabResponse{
			Error:     err.Error(),
			Kind:      below.Kind,
			Currency:  below.Currency,
			Value:     below.Value,
			Threshold: below.Threshold,
			Shortfall: below.Shortfall,
		})
	case errors.Is(err, domain.ErrCurrencyNotFound), errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidUnit),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrKindUnitMismatch),
		errors.Is(err, domain.ErrUnsupportedCrossCurrency),
		errors.Is(err, combined.ErrDuplicateKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricefeed.ErrCalculationsDisabled), errors.Is(err, session.ErrStoreFull):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
