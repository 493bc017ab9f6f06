package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certledger/internal/ledger"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/httputil"
)

// Handler exposes the ledger-mode toggle and deployment endpoints.
type Handler struct {
	selector *ledger.Selector
	logger   *slog.Logger
}

// New constructs a ledger handler.
func New(selector *ledger.Selector, logger *slog.Logger) *Handler {
	return &Handler{selector: selector, logger: logger}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/mode", h.HandleGetMode)
	r.Put("/mode", h.HandleSetMode)
	r.Post("/ledger/deploy", h.HandleDeploy)
}

// ModeResponse is the response body for mode reads and toggles.
type ModeResponse struct {
	Mode string `json:"mode"`
}

// HandleGetMode returns the current ledger mode.
func (h *Handler) HandleGetMode(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, ModeResponse{Mode: h.selector.Mode().String()})
}

// SetModeRequest is the request body for the mode toggle.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// HandleSetMode switches the ledger mode and persists the preference.
func (h *Handler) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	mode, err := ledger.ParseMode(req.Mode)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.selector.SetMode(mode); err != nil {
		// The in-memory mode already switched; report the persistence
		// failure so the caller knows the preference will not survive a
		// restart.
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeIOError, "mode changed but preference was not persisted"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ModeResponse{Mode: mode.String()})
}

// DeployResponse is the response body for a contract deployment.
type DeployResponse struct {
	Contract string `json:"contract"`
	Mode     string `json:"mode"`
}

// HandleDeploy provisions the backing contract on the active ledger.
func (h *Handler) HandleDeploy(w http.ResponseWriter, r *http.Request) {
	contract, err := h.selector.Active().Deploy(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, DeployResponse{
		Contract: contract.String(),
		Mode:     h.selector.Mode().String(),
	})
}
