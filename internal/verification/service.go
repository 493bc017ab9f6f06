// Package verification resolves verification tokens to structured outcomes.
package verification

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"certledger/internal/audit"
	"certledger/internal/hashing"
	"certledger/internal/ledger"
	"certledger/internal/platform/middleware"
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

// Option configures the verification service.
type Option func(*Service)

// Service resolves verification tokens against the active ledger. Each call
// is stateless and independent; concurrent lookups of the same fingerprint
// are collapsed into one ledger read.
type Service struct {
	ledgers LedgerSource
	group   singleflight.Group
	tracer  tracer.Tracer
	metrics *metrics.Metrics
	auditor audit.Publisher
	logger  *slog.Logger
}

// NewService creates a verification service over the given ledger source.
func NewService(ledgers LedgerSource, opts ...Option) *Service {
	svc := &Service{
		ledgers: ledgers,
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

// Verify resolves a verification token to an outcome. The token may be a
// direct fingerprint string or a scanned QR payload; a blank token is an
// input error, while an unknown fingerprint is a normal unverified outcome.
func (s *Service) Verify(ctx context.Context, token string) (*Outcome, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "verification token cannot be empty")
	}

	raw, ok := qrpayload.Extract(token)
	if !ok {
		// The QR payload parsed but carried no fingerprint. Caller input
		// error, reported in the outcome rather than as a failure.
		s.observe("no_hash", 0)
		return &Outcome{Verified: false, Message: MsgNoHashInToken}, nil
	}

	fp, err := domain.ParseFingerprint(raw)
	if err != nil {
		return nil, err
	}
	return s.VerifyFingerprint(ctx, fp)
}

// VerifyFingerprint resolves an already-parsed fingerprint.
func (s *Service) VerifyFingerprint(ctx context.Context, fp domain.Fingerprint) (*Outcome, error) {
	mode := s.ledgers.Mode()
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrFingerprint, fp.String()),
		tracer.String(tracer.AttrLedgerMode, mode.String()),
	)

	start := time.Now()
	proof, err := s.lookup(ctx, fp)
	elapsed := time.Since(start)
	span.End(err)

	if err != nil {
		s.observe("error", elapsed)
		return nil, err
	}

	if proof == nil {
		s.observe("not_found", elapsed)
		s.emitAudit(ctx, fp, "unverified", MsgNotFound)
		return &Outcome{
			Verified:    false,
			Fingerprint: fp,
			Message:     MsgNotFound,
		}, nil
	}

	s.observe("verified", elapsed)
	s.emitAudit(ctx, fp, "verified", MsgVerified)
	return &Outcome{
		Verified:    true,
		Fingerprint: fp,
		RecordID:    proof.RecordID,
		Issuer:      proof.Issuer,
		IssuedAt:    proof.IssuedAt,
		Message:     MsgVerified,
	}, nil
}

// VerifyDocument content-hashes an uploaded document and resolves the
// resulting fingerprint. The fingerprint depends only on document bytes.
func (s *Service) VerifyDocument(ctx context.Context, document io.Reader) (*Outcome, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyDocument)

	fp, err := hashing.HashDocument(ctx, document)
	if err != nil {
		span.End(err)
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrFingerprint, fp.String()))
	span.End(nil)

	return s.VerifyFingerprint(ctx, fp)
}

// lookup reads the proof from the active ledger, collapsing concurrent reads
// of the same fingerprint. The mode is part of the flight key so a toggle
// mid-flight cannot serve a stale backing store's answer.
func (s *Service) lookup(ctx context.Context, fp domain.Fingerprint) (*ledger.Proof, error) {
	key := s.ledgers.Mode().String() + ":" + fp.String()
	result, err, _ := s.group.Do(key, func() (any, error) {
		return s.ledgers.Active().Read(ctx, fp)
	})
	if err != nil {
		return nil, err
	}
	proof, _ := result.(*ledger.Proof)
	return proof, nil
}

func (s *Service) observe(outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveVerification(outcome, elapsed)
	}
}

func (s *Service) emitAudit(ctx context.Context, fp domain.Fingerprint, decision, reason string) {
	if s.auditor == nil {
		return
	}

	device := middleware.GetDeviceInfo(ctx)
	event := audit.Event{
		Actor:     "anonymous",
		Subject:   fp.String(),
		Action:    audit.ActionVerify,
		Decision:  decision,
		Reason:    reason,
		RequestID: middleware.GetRequestID(ctx),
		Device:    device.Browser + "/" + device.OS,
	}

	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit verification audit event",
			"error", err,
			"fingerprint", fp.String(),
		)
	}
}
