// Package issuance gates the mutating operations of the engine behind role
// checks: adding teachers and uploading records.
package issuance

import (
	"context"
	"log/slog"
	"time"

	"certledger/internal/audit"
	"certledger/internal/hashing"
	"certledger/internal/identity"
	"certledger/internal/ledger"
	"certledger/internal/platform/middleware"
	"certledger/internal/records"
	"certledger/internal/verification/metrics"
	"certledger/internal/verification/qrpayload"
	"certledger/internal/verification/tracer"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// LedgerSource hands out the ledger for the currently selected mode.
type LedgerSource interface {
	Active() ledger.Ledger
	Mode() ledger.Mode
}

// Option configures the issuance service.
type Option func(*Service)

// Service wraps the mutating operations with role checks. Every check runs
// before any side effect, so a denial never leaves partial state behind.
type Service struct {
	roles   *identity.Registry
	store   records.Store
	ledgers LedgerSource
	issuer  string
	tracer  tracer.Tracer
	metrics *metrics.Metrics
	auditor audit.Publisher
	logger  *slog.Logger
}

// NewService creates an issuance service with the required dependencies.
func NewService(roles *identity.Registry, store records.Store, ledgers LedgerSource, issuer string, opts ...Option) *Service {
	svc := &Service{
		roles:   roles,
		store:   store,
		ledgers: ledgers,
		issuer:  issuer,
		tracer:  tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithTracer configures a tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics configures metrics for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditor configures an audit publisher for the service.
func WithAuditor(auditor audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// RequireRole resolves the caller's role and checks it against the allowed
// set, failing with a forbidden error otherwise.
func (s *Service) RequireRole(caller domain.Address, operation string, allowed ...identity.Role) (identity.Role, error) {
	role := s.roles.ResolveRole(caller)
	if role.In(allowed...) {
		return role, nil
	}
	if s.metrics != nil {
		s.metrics.ObserveDenial(operation)
	}
	return role, dErrors.New(dErrors.CodeForbidden, "role "+role.String()+" may not perform "+operation)
}

// AddTeacher appends an address to the teacher allow-list. Only admins may
// call it. In real-ledger mode the grant is additionally submitted as a
// ledger transaction before the allow-list mutation, so a rejected
// transaction leaves the list untouched.
func (s *Service) AddTeacher(ctx context.Context, caller, newTeacher domain.Address) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAddTeacher)
	err := s.addTeacher(ctx, caller, newTeacher)
	span.End(err)
	return err
}

func (s *Service) addTeacher(ctx context.Context, caller, newTeacher domain.Address) error {
	if _, err := s.RequireRole(caller, "add_teacher", identity.RoleAdmin); err != nil {
		s.emitAudit(ctx, caller, newTeacher.String(), audit.ActionDenied, "denied", "add_teacher requires admin role")
		return err
	}

	newTeacher = domain.ParseAddress(newTeacher.String())
	if newTeacher.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "teacher address cannot be empty")
	}
	if existing := s.roles.ResolveRole(newTeacher); existing == identity.RoleTeacher || existing == identity.RoleAdmin {
		return dErrors.New(dErrors.CodeConflict, "address already holds role "+existing.String())
	}

	if s.ledgers.Mode() == ledger.ModeReal {
		grant := map[string]string{"action": "add_teacher", "teacher": newTeacher.String()}
		fp, err := hashing.HashPayload(grant)
		if err != nil {
			return err
		}
		if _, err := s.ledgers.Active().Submit(ctx, fp, domain.RecordID(newTeacher.String())); err != nil {
			s.observeSubmit("failure")
			return err
		}
		s.observeSubmit("success")
	}

	if err := s.roles.AddTeacher(newTeacher); err != nil {
		return err
	}

	s.emitAudit(ctx, caller, newTeacher.String(), audit.ActionAddTeacher, "granted", "admin_initiated")
	return nil
}

// UploadResult is returned after a successful record upload.
type UploadResult struct {
	Record    records.Record
	Receipt   ledger.Receipt
	QRPayload string
}

// UploadRecord fingerprints a result payload and publishes it. Teachers and
// admins may call it. Testing mode writes the full record to the local store;
// real mode submits the fingerprint as a ledger transaction and waits for
// the receipt.
func (s *Service) UploadRecord(ctx context.Context, caller domain.Address, payload records.ResultPayload) (*UploadResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanUploadRecord,
		tracer.String(tracer.AttrLedgerMode, s.ledgers.Mode().String()),
	)
	result, err := s.uploadRecord(ctx, caller, payload)
	span.End(err)
	return result, err
}

func (s *Service) uploadRecord(ctx context.Context, caller domain.Address, payload records.ResultPayload) (*UploadResult, error) {
	role, err := s.RequireRole(caller, "upload_record", identity.RoleTeacher, identity.RoleAdmin)
	if err != nil {
		s.emitAudit(ctx, caller, payload.Student, audit.ActionDenied, "denied", "upload_record requires teacher or admin role")
		return nil, err
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}
	recordID, err := domain.ParseRecordID(payload.Student)
	if err != nil {
		return nil, err
	}

	canonical, err := hashing.Canonical(payload)
	if err != nil {
		return nil, err
	}
	fp := hashing.HashBytes(canonical)

	receipt, err := s.ledgers.Active().Submit(ctx, fp, recordID)
	if err != nil {
		s.observeSubmit("failure")
		return nil, err
	}
	s.observeSubmit("success")

	record := records.Record{
		RecordID:    recordID,
		Subject:     caller,
		Payload:     payload,
		Fingerprint: fp,
		Issuer:      s.issuer,
		IssuedAt:    receipt.SubmittedAt,
		ArchiveRef:  hashing.ArchiveRef(canonical),
	}
	if record.IssuedAt.IsZero() {
		record.IssuedAt = time.Now().UTC()
	}

	// Testing mode keeps the full payload locally; the real ledger only
	// carries the fingerprint, so there is nothing more to store for it.
	if s.ledgers.Mode() == ledger.ModeTesting {
		if err := s.store.Insert(ctx, record); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store record")
		}
	}

	qr, err := qrpayload.Build(fp, map[string]any{
		"record_id": recordID.String(),
		"issuer":    s.issuer,
		"semester":  payload.Semester,
	}).Encode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode QR payload")
	}

	s.logRole(ctx, caller, role)
	s.emitAudit(ctx, caller, fp.String(), audit.ActionUpload, "stored", "uploader_initiated")

	return &UploadResult{Record: record, Receipt: receipt, QRPayload: qr}, nil
}

func (s *Service) observeSubmit(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmit(s.ledgers.Mode().String(), result)
	}
}

func (s *Service) logRole(ctx context.Context, caller domain.Address, role identity.Role) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "record uploaded",
			"uploader", caller.String(),
			"role", role.String(),
			"mode", s.ledgers.Mode().String(),
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, actor domain.Address, subject, action, decision, reason string) {
	if s.auditor == nil {
		return
	}

	device := middleware.GetDeviceInfo(ctx)
	event := audit.Event{
		Actor:     actor.String(),
		Subject:   subject,
		Action:    action,
		Decision:  decision,
		Reason:    reason,
		RequestID: middleware.GetRequestID(ctx),
		Device:    device.Browser + "/" + device.OS,
	}

	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit issuance audit event",
			"error", err,
			"action", action,
		)
	}
}
