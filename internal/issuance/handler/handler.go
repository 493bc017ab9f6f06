package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"certledger/internal/identity"
	"certledger/internal/issuance"
	"certledger/internal/records"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/httputil"
)

// callerHeader carries the connected wallet address from the front-end.
const callerHeader = "X-Wallet-Address"

// Service defines the gated operations used by the handler.
type Service interface {
	AddTeacher(ctx context.Context, caller, newTeacher domain.Address) error
	UploadRecord(ctx context.Context, caller domain.Address, payload records.ResultPayload) (*issuance.UploadResult, error)
}

// RoleResolver resolves a wallet address to its role.
type RoleResolver interface {
	ResolveRole(addr domain.Address) identity.Role
}

// Handler wires the gated mutation endpoints to the issuance service.
type Handler struct {
	service Service
	roles   RoleResolver
	logger  *slog.Logger
}

// New constructs an issuance handler with its dependencies.
func New(service Service, roles RoleResolver, logger *slog.Logger) *Handler {
	return &Handler{service: service, roles: roles, logger: logger}
}

// Register mounts issuance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/teachers", h.HandleAddTeacher)
	r.Post("/records", h.HandleUploadRecord)
	r.Get("/roles/{address}", h.HandleResolveRole)
}

// AddTeacherRequest is the request body for adding a teacher.
type AddTeacherRequest struct {
	Address string `json:"address"`
}

// Validate validates the add-teacher request.
func (r *AddTeacherRequest) Validate() error {
	if r == nil || r.Address == "" {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if len(r.Address) > 64 {
		return dErrors.New(dErrors.CodeValidation, "address is too long")
	}
	return nil
}

// HandleAddTeacher appends an address to the teacher allow-list.
func (h *Handler) HandleAddTeacher(w http.ResponseWriter, r *http.Request) {
	caller := domain.ParseAddress(r.Header.Get(callerHeader))

	var req AddTeacherRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.AddTeacher(r.Context(), caller, domain.ParseAddress(req.Address)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"address": domain.ParseAddress(req.Address).String(),
		"role":    identity.RoleTeacher.String(),
	})
}

// UploadRecordRequest is the request body for uploading a result record.
type UploadRecordRequest struct {
	Student  string           `json:"student"`
	Program  string           `json:"program"`
	Semester string           `json:"semester"`
	Courses  []records.Course `json:"courses"`
	GPA      float64          `json:"gpa"`
	IssuedOn string           `json:"issuedOn"`
}

// Validate validates the upload request. Field-level payload validation
// happens again in the service, which owns the invariants.
func (r *UploadRecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	if r.Student == "" {
		return dErrors.New(dErrors.CodeValidation, "student is required")
	}
	if r.Semester == "" {
		return dErrors.New(dErrors.CodeValidation, "semester is required")
	}
	return nil
}

// Payload converts the request into the domain payload.
func (r *UploadRecordRequest) Payload() records.ResultPayload {
	return records.ResultPayload{
		Student:  r.Student,
		Program:  r.Program,
		Semester: r.Semester,
		Courses:  r.Courses,
		GPA:      r.GPA,
		IssuedOn: r.IssuedOn,
	}
}

// UploadRecordResponse is the response body for a stored record.
type UploadRecordResponse struct {
	RecordID    string    `json:"record_id"`
	Fingerprint string    `json:"fingerprint"`
	ArchiveRef  string    `json:"archive_ref,omitempty"`
	TxHash      string    `json:"tx_hash"`
	IssuedAt    time.Time `json:"issued_at"`
	QRPayload   string    `json:"qr_payload"`
}

// HandleUploadRecord fingerprints and publishes a result payload.
func (h *Handler) HandleUploadRecord(w http.ResponseWriter, r *http.Request) {
	caller := domain.ParseAddress(r.Header.Get(callerHeader))

	var req UploadRecordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.UploadRecord(r.Context(), caller, req.Payload())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, UploadRecordResponse{
		RecordID:    result.Record.RecordID.String(),
		Fingerprint: result.Record.Fingerprint.String(),
		ArchiveRef:  result.Record.ArchiveRef,
		TxHash:      result.Receipt.TxHash,
		IssuedAt:    result.Record.IssuedAt,
		QRPayload:   result.QRPayload,
	})
}

// RoleResponse is the response body for a role lookup.
type RoleResponse struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

// HandleResolveRole returns the role for a wallet address.
func (h *Handler) HandleResolveRole(w http.ResponseWriter, r *http.Request) {
	addr := domain.ParseAddress(chi.URLParam(r, "address"))
	role := h.roles.ResolveRole(addr)
	httputil.WriteJSON(w, http.StatusOK, RoleResponse{
		Address: addr.String(),
		Role:    role.String(),
	})
}
