package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/domain"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// AccountHandler handles account read requests. Accounts are never created
// through the API; they materialize when the first posting touches them.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeErrorCode(w, http.StatusBadRequest, domain.Code(domain.ErrInvalidState), "missing account id")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetByKey retrieves an account by its natural key, passed in the "key"
// query parameter.
func (h *AccountHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeErrorCode(w, http.StatusBadRequest, domain.Code(domain.ErrInvalidState), "missing key")
		return
	}

	account, err := h.accountUC.GetAccountByKey(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetUserAccount retrieves a player's chip account by user ID.
func (h *AccountHandler) GetUserAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	account, err := h.accountUC.GetUserAccount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List retrieves accounts ordered by creation time.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}
