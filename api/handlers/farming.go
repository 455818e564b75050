package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openalpha/farmd/api/types"
	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
	maxBodyBytes     = 1 << 20
)

// FarmingHandler serves the farming REST API
type FarmingHandler struct {
	service types.FarmingService
	// set when the backend is the in-memory simulator
	sim types.SimulatorService
}

// NewFarmingHandler creates a new FarmingHandler
func NewFarmingHandler(svc types.FarmingService) *FarmingHandler {
	h := &FarmingHandler{service: svc}
	if sim, ok := svc.(types.SimulatorService); ok {
		h.sim = sim
	}
	return h
}

// RegisterRoutes registers farming API routes
func (h *FarmingHandler) RegisterRoutes(r *mux.Router) {
	// Queries
	r.HandleFunc("/v1/farming/status", h.GetStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/params", h.GetParams).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/pools", h.GetPools).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/pools/{poolId}", h.GetPool).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/pools/{poolId}/users/{address}", h.GetUserInfo).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/pools/{poolId}/users/{address}/withdrawal", h.GetWithdrawalStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/investors", h.GetInvestors).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/investors/{address}", h.GetInvestor).Methods(http.MethodGet)
	r.HandleFunc("/v1/farming/balances/{denom}/{address}", h.GetBalance).Methods(http.MethodGet)

	// Manager and admin
	r.HandleFunc("/v1/farming/pools", txHandler(h.service.AddPool)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/pools/amend", txHandler(h.service.SetPool)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/params/tokens-per-block", txHandler(h.service.SetTokenPerBlock)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/params/claims-gate", txHandler(h.service.SetNoRewardClaimsUntil)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/investors/add", txHandler(h.service.AddInvestor)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/investors/remove", txHandler(h.service.RemoveInvestor)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/pause", txHandler(h.service.Pause)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/unpause", txHandler(h.service.Unpause)).Methods(http.MethodPost)

	// Depositors
	r.HandleFunc("/v1/farming/deposit", txHandler(h.service.DepositTo)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/claim", txHandler(h.service.ClaimReward)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/withdrawal/request", txHandler(h.service.RequestWithdrawal)).Methods(http.MethodPost)
	r.HandleFunc("/v1/farming/withdraw", txHandler(h.service.Withdraw)).Methods(http.MethodPost)

	if h.sim != nil {
		r.HandleFunc("/v1/dev/mine", h.Mine).Methods(http.MethodPost)
		r.HandleFunc("/v1/dev/increase-time", h.IncreaseTime).Methods(http.MethodPost)
		r.HandleFunc("/v1/dev/faucet", h.Faucet).Methods(http.MethodPost)
		r.HandleFunc("/v1/dev/approve", h.Approve).Methods(http.MethodPost)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, types.ErrorResponse{
		Error:   code,
		Code:    code,
		Message: message,
	})
}

// writeServiceError maps module errors onto HTTP statuses. The message is
// the error text, so collaborator reasons reach the caller unchanged.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err.Error())
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, farmingtypes.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, farmingtypes.ErrPoolNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, farmingtypes.ErrCollaboratorFailure):
		return http.StatusUnprocessableEntity, "token_transfer_failed"
	case errors.Is(err, farmingtypes.ErrContractPaused),
		errors.Is(err, farmingtypes.ErrNotPaused),
		errors.Is(err, farmingtypes.ErrAlreadyPaused),
		errors.Is(err, farmingtypes.ErrClaimsLocked),
		errors.Is(err, farmingtypes.ErrNoWithdrawalRequest),
		errors.Is(err, farmingtypes.ErrTimelockNotElapsed),
		errors.Is(err, farmingtypes.ErrRequestExpired),
		errors.Is(err, farmingtypes.ErrInvestorLockActive),
		errors.Is(err, farmingtypes.ErrPoolNotAmendable),
		errors.Is(err, farmingtypes.ErrInsufficientPrincipal):
		return http.StatusConflict, "rejected"
	case errors.Is(err, farmingtypes.ErrRewardOverflow):
		return http.StatusInternalServerError, "internal_error"
	}
	return http.StatusBadRequest, "invalid_request"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// txHandler decodes a farming message from the body, validates it and
// delivers it through fn. The signer fields are trusted as sent; there is no
// signature check, so these routes are for the simulator only.
func txHandler[M any, PM interface {
	*M
	ValidateBasic() error
}, Resp any](fn func(context.Context, PM) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := PM(new(M))
		if err := decodeJSON(w, r, msg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
			return
		}
		if err := msg.ValidateBasic(); err != nil {
			writeServiceError(w, err)
			return
		}

		resp, err := fn(r.Context(), msg)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func poolIDVar(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["poolId"], 10, 64)
}

func parseUintQuery(r *http.Request, key string, def uint64) (uint64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

// ============================================================================
// Queries
// ============================================================================

// GetStatus handles GET /v1/farming/status
func (h *FarmingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// GetParams handles GET /v1/farming/params
func (h *FarmingHandler) GetParams(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.Params(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

// GetPools handles GET /v1/farming/pools?offset=&limit=
func (h *FarmingHandler) GetPools(w http.ResponseWriter, r *http.Request) {
	offset, err := parseUintQuery(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid offset")
		return
	}
	limit, err := parseUintQuery(r, "limit", defaultPageLimit)
	if err != nil || limit == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid limit")
		return
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	pools, total, err := h.service.Pools(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pools == nil {
		pools = []*farmingtypes.Pool{}
	}
	writeJSON(w, http.StatusOK, types.PoolList{Pools: pools, Total: total})
}

// GetPool handles GET /v1/farming/pools/{poolId}
func (h *FarmingHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDVar(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid pool id")
		return
	}
	pool, err := h.service.Pool(r.Context(), poolID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// GetUserInfo handles GET /v1/farming/pools/{poolId}/users/{address}
func (h *FarmingHandler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDVar(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid pool id")
		return
	}
	info, err := h.service.UserInfo(r.Context(), poolID, mux.Vars(r)["address"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GetWithdrawalStatus handles GET /v1/farming/pools/{poolId}/users/{address}/withdrawal
func (h *FarmingHandler) GetWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDVar(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid pool id")
		return
	}
	status, err := h.service.WithdrawalStatus(r.Context(), poolID, mux.Vars(r)["address"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// GetInvestors handles GET /v1/farming/investors
func (h *FarmingHandler) GetInvestors(w http.ResponseWriter, r *http.Request) {
	investors, err := h.service.Investors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if investors == nil {
		investors = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"investors": investors,
		"total":     len(investors),
	})
}

// GetInvestor handles GET /v1/farming/investors/{address}
func (h *FarmingHandler) GetInvestor(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	investors, err := h.service.Investors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	found := false
	for _, inv := range investors {
		if inv == addr {
			found = true
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":             addr,
		"is_private_investor": found,
	})
}

// GetBalance handles GET /v1/farming/balances/{denom}/{address}
func (h *FarmingHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	balance, err := h.service.Balance(r.Context(), vars["denom"], vars["address"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// ============================================================================
// Simulator
// ============================================================================

// Mine handles POST /v1/dev/mine
func (h *FarmingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	req := types.MineRequest{Blocks: 1}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
			return
		}
	}
	status, err := h.sim.Mine(r.Context(), req.Blocks)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// IncreaseTime handles POST /v1/dev/increase-time
func (h *FarmingHandler) IncreaseTime(w http.ResponseWriter, r *http.Request) {
	var req types.IncreaseTimeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}
	status, err := h.sim.IncreaseTime(r.Context(), req.Seconds)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Faucet handles POST /v1/dev/faucet
func (h *FarmingHandler) Faucet(w http.ResponseWriter, r *http.Request) {
	var req types.FaucetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}
	balance, err := h.sim.Faucet(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Approve handles POST /v1/dev/approve
func (h *FarmingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req types.ApproveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}
	if err := h.sim.Approve(r.Context(), &req); err != nil {
		writeServiceError(w, err)
		return
	}
	balance, err := h.sim.Balance(r.Context(), req.Denom, req.Owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}
