package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/commerce-ledger/internal/auth"
	"github.com/example/commerce-ledger/internal/inventory"
	"github.com/example/commerce-ledger/internal/ledger"
	"github.com/example/commerce-ledger/internal/posting"
	"github.com/example/commerce-ledger/internal/security"
)

// TenantHeader names the caller's tenant when token auth is disabled
// (development only). With auth enabled the token claim wins.
const TenantHeader = "X-Tenant-ID"

func tenantID(r *http.Request) string {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.TenantID
	}
	return r.Header.Get(TenantHeader)
}

// requireTenant resolves the request's tenant or writes a 401.
func requireTenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenant := tenantID(r)
	if tenant == "" {
		security.WriteJSONError(w, r, http.StatusUnauthorized, "unknown_tenant")
		return "", false
	}
	return tenant, true
}

type seedChartResponse struct {
	CorrelationID string `json:"correlation_id"`
	Seeded        bool   `json:"seeded"`
}

func handleSeedChart(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		if err := deps.Poster.SeedChart(r.Context(), tenant); err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, seedChartResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Seeded:        true,
		})
	}
}

type entryRequest struct {
	Description string             `json:"description"`
	Reference   string             `json:"reference"`
	Date        string             `json:"date"`
	Lines       []entryLineRequest `json:"lines"`
}

type entryLineRequest struct {
	AccountCode string  `json:"account_code"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
}

type entryResponse struct {
	CorrelationID string               `json:"correlation_id"`
	Entry         *ledger.JournalEntry `json:"entry"`
}

func handlePostEntry(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		var req entryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		in := ledger.PostInput{
			TenantID:    tenant,
			Description: req.Description,
			Reference:   req.Reference,
			Lines:       make([]ledger.LineInput, len(req.Lines)),
		}
		if req.Date != "" {
			d, err := time.Parse(time.RFC3339, req.Date)
			if err != nil {
				security.WriteJSONErrorDetail(w, r, http.StatusBadRequest, "invalid_request", "date must be RFC 3339")
				return
			}
			in.Date = d
		}
		for i, line := range req.Lines {
			in.Lines[i] = ledger.LineInput{
				AccountCode: line.AccountCode,
				Type:        ledger.EntryType(line.Type),
				Amount:      line.Amount,
			}
		}

		entry, err := deps.Poster.Post(r.Context(), in)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, entryResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Entry:         entry,
		})
	}
}

type saleRequest struct {
	WarehouseID string                  `json:"warehouse_id"`
	CustomerID  string                  `json:"customer_id"`
	Items       []posting.SaleItemInput `json:"items"`
}

type saleResponse struct {
	CorrelationID string               `json:"correlation_id"`
	Sale          *posting.Sale        `json:"sale"`
	Entry         *ledger.JournalEntry `json:"entry"`
}

func handleRecordSale(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		var req saleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		result, err := deps.Poster.RecordSale(r.Context(), posting.SaleInput{
			TenantID:    tenant,
			WarehouseID: req.WarehouseID,
			CustomerID:  req.CustomerID,
			Items:       req.Items,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, saleResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Sale:          result.Sale,
			Entry:         result.Entry,
		})
	}
}

type purchaseRequest struct {
	WarehouseID string                      `json:"warehouse_id"`
	SupplierID  string                      `json:"supplier_id"`
	Items       []posting.PurchaseItemInput `json:"items"`
}

type purchaseResponse struct {
	CorrelationID string               `json:"correlation_id"`
	Purchase      *posting.Purchase    `json:"purchase"`
	Entry         *ledger.JournalEntry `json:"entry"`
}

func handleRecordPurchase(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		var req purchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		result, err := deps.Poster.RecordPurchase(r.Context(), posting.PurchaseInput{
			TenantID:    tenant,
			WarehouseID: req.WarehouseID,
			SupplierID:  req.SupplierID,
			Items:       req.Items,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, purchaseResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Purchase:      result.Purchase,
			Entry:         result.Entry,
		})
	}
}

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

func handleRecordExpense(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		var req expenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		entry, err := deps.Poster.RecordExpense(r.Context(), posting.ExpenseInput{
			TenantID:    tenant,
			Description: req.Description,
			Amount:      req.Amount,
			Category:    req.Category,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, entryResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Entry:         entry,
		})
	}
}

type treasuryRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func handleTreasuryMovement(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		var req treasuryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		entry, err := deps.Poster.RecordTreasuryMovement(r.Context(), posting.TreasuryInput{
			TenantID:    tenant,
			Type:        posting.MovementType(req.Type),
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, entryResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Entry:         entry,
		})
	}
}

type countStartRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

type countResponse struct {
	CorrelationID string           `json:"correlation_id"`
	Count         *inventory.Count `json:"count"`
}

func handleStartCount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		var req countStartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		count, err := deps.Poster.StartInventoryCount(r.Context(), tenant, req.WarehouseID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, countResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Count:         count,
		})
	}
}

type countLineRequest struct {
	ProductID  string `json:"product_id"`
	CountedQty int64  `json:"counted_qty"`
}

type actionResponse struct {
	CorrelationID string `json:"correlation_id"`
	Success       bool   `json:"success"`
	Status        string `json:"status,omitempty"`
}

func handleRecordCountLine(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}
		countID := chi.URLParam(r, "count_id")

		var req countLineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		if err := deps.Poster.RecordCountLine(r.Context(), tenant, countID, req.ProductID, req.CountedQty); err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, actionResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Success:       true,
		})
	}
}

func handleFinalizeCount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		if err := deps.Poster.FinalizeInventoryCount(r.Context(), tenant, chi.URLParam(r, "count_id")); err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, actionResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Success:       true,
			Status:        string(inventory.CountCompleted),
		})
	}
}

func handleCancelCount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		if err := deps.Poster.CancelInventoryCount(r.Context(), tenant, chi.URLParam(r, "count_id")); err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, actionResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Success:       true,
			Status:        string(inventory.CountCancelled),
		})
	}
}

func handleTrialBalance(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		tb, err := deps.Reports.TrialBalance(r.Context(), tenant)
		if err != nil {
			security.WriteJSONError(w, r, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, r, http.StatusOK, tb)
	}
}

func handleBalanceSheet(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		bs, err := deps.Reports.BalanceSheet(r.Context(), tenant)
		if err != nil {
			security.WriteJSONError(w, r, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, r, http.StatusOK, bs)
	}
}

func handleProfitAndLoss(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		pl, err := deps.Reports.ProfitAndLoss(r.Context(), tenant)
		if err != nil {
			security.WriteJSONError(w, r, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, r, http.StatusOK, pl)
	}
}

func handleAccountStatement(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r)
		if !ok {
			return
		}

		stmt, err := deps.Reports.AccountStatement(r.Context(), tenant, chi.URLParam(r, "code"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, stmt)
	}
}
