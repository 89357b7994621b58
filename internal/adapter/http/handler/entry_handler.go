package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

const transactionCacheTTL = 1 * time.Hour

// EntryHandler handles entry and transaction read requests. Committed
// transactions are immutable, so their detail views are served through the
// cache when one is configured.
type EntryHandler struct {
	entryUC *usecase.EntryUseCase
	cache   usecase.Cache
}

// NewEntryHandler creates a new EntryHandler. cache may be nil.
func NewEntryHandler(entryUC *usecase.EntryUseCase, cache usecase.Cache) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, cache: cache}
}

// ListByAccount lists entries for an account, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeErrorCode(w, http.StatusBadRequest, domain.Code(domain.ErrInvalidState), "missing account id")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// GetTransaction retrieves a transaction with its entries.
func (h *EntryHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeErrorCode(w, http.StatusBadRequest, domain.Code(domain.ErrInvalidState), "missing transaction id")
		return
	}

	cacheKey := "transaction:" + id
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	txn, entries, err := h.entryUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response := dto.TransactionDetailResponse{
		Transaction: dto.TransactionFromDomain(txn),
		Entries:     dto.EntriesFromDomain(entries),
	}

	if h.cache != nil {
		if body, err := json.Marshal(response); err == nil {
			h.cache.Set(r.Context(), cacheKey, string(body), transactionCacheTTL)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// GetTransactionByIdempotencyKey retrieves a transaction by the key it was
// posted with, passed in the "key" query parameter.
func (h *EntryHandler) GetTransactionByIdempotencyKey(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeErrorCode(w, http.StatusBadRequest, domain.Code(domain.ErrInvalidState), "missing key")
		return
	}

	txn, entries, err := h.entryUC.GetTransactionByIdempotencyKey(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionDetailResponse{
		Transaction: dto.TransactionFromDomain(txn),
		Entries:     dto.EntriesFromDomain(entries),
	})
}
