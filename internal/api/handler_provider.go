package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/redpacket/internal/redpacket"
	"github.com/fastprodman/redpacket/internal/repos/transactions"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

// Wallets funds and reads wallets. Both the Postgres wallet service and the
// in-memory vault satisfy it.
type Wallets interface {
	Deposit(ctx context.Context, transactionID, walletID string, amountMinor int64) error
	GetBalance(ctx context.Context, walletID string) (int64, error)
}

// HandlerProvider exposes the ledger and the wallets over HTTP.
type HandlerProvider struct {
	ledger  redpacket.Ledger
	events  redpacket.EventLog
	wallets Wallets
}

func NewHandler(ledger redpacket.Ledger, events redpacket.EventLog, w Wallets) *HandlerProvider {
	return &HandlerProvider{ledger: ledger, events: events, wallets: w}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeLedgerError maps domain errors to status codes. TransferFailed is
// checked first since it wraps the wallet cause.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, redpacket.ErrTransferFailed):
		writeError(w, http.StatusUnprocessableEntity, "transfer failed")
	case errors.Is(err, redpacket.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid amount")
	case errors.Is(err, redpacket.ErrInvalidCount):
		writeError(w, http.StatusBadRequest, "invalid count")
	case errors.Is(err, redpacket.ErrNotFound):
		writeError(w, http.StatusNotFound, "packet not found")
	case errors.Is(err, redpacket.ErrAlreadyFinished):
		writeError(w, http.StatusConflict, "packet already finished")
	case errors.Is(err, redpacket.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, "already claimed")
	case errors.Is(err, wallets.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, wallets.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, transactions.ErrDuplicateTransaction):
		writeError(w, http.StatusConflict, "duplicate transaction")
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody limits the body to 1MB and rejects unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")

		return false
	}

	return true
}

// parsePacketIDFromPath reads `{packetId}` from routes like:
//
//	GET  /packets/{packetId}
//	POST /packets/{packetId}/claim
func parsePacketIDFromPath(r *http.Request) (uint64, error) {
	idStr := chi.URLParam(r, "packetId")
	if idStr == "" {
		return 0, fmt.Errorf("missing packetId")
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid packetId: %w", err)
	}

	if id == 0 {
		return 0, fmt.Errorf("invalid packetId: must be positive")
	}

	return id, nil
}

type createRequest struct {
	Count  int64  `json:"count"`
	Amount string `json:"amount"`
}

type claimResponse struct {
	ID     uint64 `json:"id"`
	Amount string `json:"amount"`
}

type packetResponse struct {
	ID              uint64 `json:"id"`
	Creator         string `json:"creator"`
	TotalAmount     string `json:"totalAmount"`
	TotalCount      int64  `json:"totalCount"`
	RemainingAmount string `json:"remainingAmount"`
	RemainingCount  int64  `json:"remainingCount"`
	Finished        bool   `json:"finished"`
}

func newPacketResponse(s redpacket.Snapshot) packetResponse {
	return packetResponse{
		ID:              s.ID,
		Creator:         s.Creator,
		TotalAmount:     redpacket.FormatAmount(s.TotalAmount),
		TotalCount:      s.TotalCount,
		RemainingAmount: redpacket.FormatAmount(s.RemainingAmount),
		RemainingCount:  s.RemainingCount,
		Finished:        s.Finished,
	}
}

type eventResponse struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	PacketID uint64    `json:"packetId"`
	Actor    string    `json:"actor,omitempty"`
	Amount   string    `json:"amount,omitempty"`
	Count    int64     `json:"count,omitempty"`
	At       time.Time `json:"at"`
}

func newEventResponse(ev redpacket.Event) eventResponse {
	resp := eventResponse{
		ID:       ev.ID,
		Kind:     string(ev.Kind),
		PacketID: ev.PacketID,
		Actor:    ev.Actor,
		Count:    ev.Count,
		At:       ev.At,
	}

	if ev.Kind != redpacket.EventFinished {
		resp.Amount = redpacket.FormatAmount(ev.Amount)
	}

	return resp
}

type depositRequest struct {
	Amount        string `json:"amount"`
	TransactionID string `json:"transactionId"`
}

// --- Packet handlers ---

// CreatePacketHandler handles POST /packets
func (h *HandlerProvider) CreatePacketHandler(w http.ResponseWriter, r *http.Request) {
	creator, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := redpacket.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.ledger.Create(r.Context(), creator, req.Count, amount)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

// ClaimPacketHandler handles POST /packets/{packetId}/claim
func (h *HandlerProvider) ClaimPacketHandler(w http.ResponseWriter, r *http.Request) {
	claimant, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	id, err := parsePacketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid packetId in path")
		return
	}

	amount, err := h.ledger.Claim(r.Context(), id, claimant)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, claimResponse{ID: id, Amount: redpacket.FormatAmount(amount)})
}

// GetPacketHandler handles GET /packets/{packetId}
func (h *HandlerProvider) GetPacketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parsePacketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid packetId in path")
		return
	}

	snap, err := h.ledger.Query(r.Context(), id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPacketResponse(snap))
}

// HasClaimedHandler handles GET /packets/{packetId}/claims/{identity}
func (h *HandlerProvider) HasClaimedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parsePacketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid packetId in path")
		return
	}

	identity := chi.URLParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "identity required")
		return
	}

	claimed, err := h.ledger.HasClaimed(r.Context(), id, identity)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"claimed": claimed})
}

// ListEventsHandler handles GET /packets/{packetId}/events
func (h *HandlerProvider) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parsePacketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid packetId in path")
		return
	}

	evs, err := h.events.Events(r.Context(), id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	resp := make([]eventResponse, 0, len(evs))
	for _, ev := range evs {
		resp = append(resp, newEventResponse(ev))
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Wallet handlers ---

// GetBalanceHandler handles GET /wallets/{walletId}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "invalid walletId in path")
		return
	}

	bal, err := h.wallets.GetBalance(r.Context(), walletID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"walletId": walletID,
		"balance":  redpacket.FormatAmount(bal),
	})
}

// DepositHandler handles POST /wallets/{walletId}/deposit. Callers may only
// fund their own wallet.
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	walletID := chi.URLParam(r, "walletId")
	if walletID != caller {
		writeError(w, http.StatusForbidden, "can only deposit into own wallet")
		return
	}

	var req depositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := redpacket.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "transactionId required")
		return
	}

	err = h.wallets.Deposit(r.Context(), req.TransactionID, walletID, amount)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
