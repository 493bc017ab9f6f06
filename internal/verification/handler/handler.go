package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certledger/internal/receipts"
	"certledger/internal/verification"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/httputil"
)

// maxDocumentBytes bounds uploaded documents before hashing.
const maxDocumentBytes = 10 << 20 // 10 MiB

// Service defines the verification operations used by the handler.
type Service interface {
	Verify(ctx context.Context, token string) (*verification.Outcome, error)
	VerifyFingerprint(ctx context.Context, fp domain.Fingerprint) (*verification.Outcome, error)
	VerifyDocument(ctx context.Context, document io.Reader) (*verification.Outcome, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service  Service
	receipts *receipts.Issuer
	logger   *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, receiptIssuer *receipts.Issuer, logger *slog.Logger) *Handler {
	return &Handler{service: service, receipts: receiptIssuer, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/verify", h.HandleVerifyParam)
	r.Post("/verify", h.HandleVerify)
	r.Post("/verify/document", h.HandleVerifyDocument)
	r.Get("/receipts/{fingerprint}", h.HandleReceipt)
	r.Post("/receipts/validate", h.HandleValidateReceipt)
}

// VerifyRequest is the request body for token verification.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Validate validates the verification request.
func (r *VerifyRequest) Validate() error {
	if r == nil || r.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	if len(r.Token) > 8192 {
		return dErrors.New(dErrors.CodeValidation, "token is too long")
	}
	return nil
}

// HandleVerifyParam resolves the ?verify=<fingerprint> URL parameter, the
// auto-trigger path used by shared verification links.
func (h *Handler) HandleVerifyParam(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("verify")
	if token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "verify query parameter is required"))
		return
	}

	outcome, err := h.service.Verify(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// HandleVerify resolves a verification token from the request body.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	outcome, err := h.service.Verify(r.Context(), req.Token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// HandleVerifyDocument content-hashes an uploaded document and resolves it.
func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	file, _, err := r.FormFile("document")
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "document file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	outcome, err := h.service.VerifyDocument(r.Context(), file)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// ReceiptResponse carries a signed verification receipt.
type ReceiptResponse struct {
	Receipt string                `json:"receipt"`
	Outcome *verification.Outcome `json:"outcome"`
}

// HandleReceipt verifies a fingerprint and, when it resolves, returns a
// signed shareable receipt for the outcome.
func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	fp, err := domain.ParseFingerprint(chi.URLParam(r, "fingerprint"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	outcome, err := h.service.VerifyFingerprint(r.Context(), fp)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !outcome.Verified {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, outcome.Message))
		return
	}

	token, err := h.receipts.Issue(*outcome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReceiptResponse{Receipt: token, Outcome: outcome})
}

// ValidateReceiptRequest is the request body for receipt validation.
type ValidateReceiptRequest struct {
	Receipt string `json:"receipt"`
}

// HandleValidateReceipt checks a previously issued receipt token.
func (h *Handler) HandleValidateReceipt(w http.ResponseWriter, r *http.Request) {
	var req ValidateReceiptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Receipt == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "receipt is required"))
		return
	}

	claims, err := h.receipts.Validate(req.Receipt)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, claims)
}
