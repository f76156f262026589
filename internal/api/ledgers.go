package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/export"
	"github.com/mtlprog/zakat/internal/ledger"
	"github.com/mtlprog/zakat/internal/valuation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createLedgerRequest struct {
	Currency string `json:"currency"`
}

type createLedgerResponse struct {
	ID       string              `json:"id"`
	Currency domain.CurrencyCode `json:"currency"`
}

// CreateLedger handles POST /api/v1/ledgers.
func (h *Handler) CreateLedger(w http.ResponseWriter, r *http.Request) {
	var req createLedgerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	currency := h.currencyOrDefault(req.Currency)
	id, err := h.ledgers.Create(currency)
	if err != nil {
		writeDomainError(w, err, "create ledger")
		return
	}
	slog.Info("ledger created", "id", id, "currency", currency)
	writeJSON(w, http.StatusCreated, createLedgerResponse{ID: id, Currency: currency})
}

type ledgerResponse struct {
	domain.LedgerSnapshot
	Summary *domain.ZakatSummary `json:"summary,omitempty"`
}

// GetLedger handles GET /api/v1/ledgers/{id}. The summary is left out while
// calculations are disabled.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	prices, err := h.prices.Current(r.Context())
	if err != nil {
		slog.Error("failed to get prices", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	table, tableErr := prices.Require()

	var resp ledgerResponse
	err = h.ledgers.With(r.PathValue("id"), func(l *ledger.Ledger) error {
		resp.LedgerSnapshot = l.Snapshot()
		if tableErr != nil {
			return nil
		}
		sum, err := l.CurrentZakat(table)
		if err != nil {
			return err
		}
		resp.Summary = &sum
		return nil
	})
	if err != nil {
		writeDomainError(w, err, "get ledger")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteLedger handles DELETE /api/v1/ledgers/{id}.
func (h *Handler) DeleteLedger(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgers.Delete(r.PathValue("id")); err != nil {
		writeDomainError(w, err, "delete ledger")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddDeclaration handles POST /api/v1/ledgers/{id}/declarations. The currency
// defaults to the ledger's own.
func (h *Handler) AddDeclaration(w http.ResponseWriter, r *http.Request) {
	var req declarationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		writeDomainError(w, err, "parse kind")
		return
	}
	table, ok := h.priceTable(w, r)
	if !ok {
		return
	}

	var rec domain.CalculationRecord
	err = h.ledgers.With(r.PathValue("id"), func(l *ledger.Ledger) error {
		currency := domain.NormalizeCurrency(req.Currency)
		if currency == "" {
			currency = l.Currency()
		}
		decl, err := valuation.ParseDeclaration(kind, req.raw(), currency)
		if err != nil {
			return err
		}
		rec, err = l.Add(decl, table, currency)
		h.metrics.DeclarationProcessed(kind, err)
		return err
	})
	if err != nil {
		writeDomainError(w, err, "add declaration")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type changeCurrencyRequest struct {
	Currency string `json:"currency"`
}

// ChangeCurrency handles PUT /api/v1/ledgers/{id}/currency.
func (h *Handler) ChangeCurrency(w http.ResponseWriter, r *http.Request) {
	var req changeCurrencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	currency := domain.NormalizeCurrency(req.Currency)
	if currency == "" {
		writeError(w, http.StatusBadRequest, "currency is required")
		return
	}
	table, ok := h.priceTable(w, r)
	if !ok {
		return
	}

	var snap domain.LedgerSnapshot
	err := h.ledgers.With(r.PathValue("id"), func(l *ledger.Ledger) error {
		if err := l.ChangeCurrency(currency, table); err != nil {
			return err
		}
		snap = l.Snapshot()
		return nil
	})
	if err != nil {
		writeDomainError(w, err, "change currency")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ClearLedger handles DELETE /api/v1/ledgers/{id}/declarations.
func (h *Handler) ClearLedger(w http.ResponseWriter, r *http.Request) {
	err := h.ledgers.With(r.PathValue("id"), func(l *ledger.Ledger) error {
		l.Clear()
		return nil
	})
	if err != nil {
		writeDomainError(w, err, "clear ledger")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportLedger handles GET /api/v1/ledgers/{id}/export.xlsx.
func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	table, ok := h.priceTable(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	var report export.Report
	err := h.ledgers.With(id, func(l *ledger.Ledger) error {
		sum, err := l.CurrentZakat(table)
		if err != nil {
			return err
		}
		report = export.LedgerReport(l.Snapshot(), sum, table[l.Currency()].Symbol, h.now())
		return nil
	})
	if err != nil {
		writeDomainError(w, err, "export ledger")
		return
	}

	var buf bytes.Buffer
	if err := export.NewXLSXWriter(&buf).Write(r.Context(), report); err != nil {
		slog.Error("failed to render ledger workbook", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="zakat-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write workbook", "error", err)
	}
}
