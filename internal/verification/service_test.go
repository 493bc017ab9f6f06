package verification

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"certledger/internal/audit"
	"certledger/internal/hashing"
	"certledger/internal/ledger"
	"certledger/internal/records"
	"certledger/internal/records/fixtures"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

const seededFingerprint = "7c5ea3600b1f4c2d8e9a71d64f0c3b5a8d2e6f4019283746a5b4c3d2e1f947d1"

// brokenLedger is a test double standing in for a failing real-mode ledger.
type brokenLedger struct{}

func (brokenLedger) Deploy(context.Context) (ledger.ContractAddress, error) {
	return "", dErrors.New(dErrors.CodeLedgerError, "no contract deployed")
}

func (brokenLedger) Submit(context.Context, domain.Fingerprint, domain.RecordID) (ledger.Receipt, error) {
	return ledger.Receipt{}, dErrors.New(dErrors.CodeLedgerError, "transaction reverted")
}

func (brokenLedger) Read(context.Context, domain.Fingerprint) (*ledger.Proof, error) {
	return nil, dErrors.New(dErrors.CodeLedgerError, "ledger gateway unreachable")
}

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	store      *records.InMemoryStore
	selector   *ledger.Selector
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = records.NewInMemoryStore()
	s.Require().NoError(fixtures.Seed(s.ctx, s.store))

	simulated := ledger.NewSimulated(s.store, fixtures.Issuer, 0)
	s.selector = ledger.NewSelector(simulated, brokenLedger{}, false, nil, nil)
	s.auditStore = audit.NewInMemoryStore()
	s.service = NewService(s.selector, WithAuditor(audit.NewStorePublisher(s.auditStore)))
}

func (s *ServiceSuite) TestVerifySeededFingerprint() {
	outcome, err := s.service.Verify(s.ctx, seededFingerprint)
	s.Require().NoError(err)

	s.True(outcome.Verified)
	s.Equal("JNU-PGDOM-43825", outcome.RecordID.String())
	s.Equal(fixtures.Issuer, outcome.Issuer)
	s.False(outcome.IssuedAt.IsZero())
	s.Equal(MsgVerified, outcome.Message)
}

func (s *ServiceSuite) TestVerifyUnknownFingerprint() {
	outcome, err := s.service.Verify(s.ctx, "deadbeef")
	s.Require().NoError(err)

	s.False(outcome.Verified)
	s.Empty(outcome.RecordID.String())
	s.Equal(MsgNotFound, outcome.Message)
}

func (s *ServiceSuite) TestVerifyBlankTokenIsInputError() {
	_, err := s.service.Verify(s.ctx, "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestVerifyNonHexTokenIsInputError() {
	_, err := s.service.Verify(s.ctx, "not a fingerprint!")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestVerifyQRPayload() {
	s.Run("embedded verify field resolves", func() {
		outcome, err := s.service.Verify(s.ctx, `{"verify":"`+seededFingerprint+`","documentData":{"record_id":"JNU-PGDOM-43825"}}`)
		s.Require().NoError(err)
		s.True(outcome.Verified)
		s.Equal("JNU-PGDOM-43825", outcome.RecordID.String())
	})

	s.Run("payload without hash yields the no-hash outcome", func() {
		outcome, err := s.service.Verify(s.ctx, `{"documentData":{"name":"x"}}`)
		s.Require().NoError(err)
		s.False(outcome.Verified)
		s.Equal(MsgNoHashInToken, outcome.Message)
	})
}

func (s *ServiceSuite) TestVerifyDocument() {
	// Insert a record whose fingerprint is the content hash of a document.
	content := "TRANSCRIPT JNU-TEST-90001 Semester 2"
	fp, err := hashing.HashDocument(s.ctx, strings.NewReader(content))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Insert(s.ctx, records.Record{
		RecordID:    "JNU-TEST-90001",
		Fingerprint: fp,
		Issuer:      fixtures.Issuer,
	}))

	outcome, err := s.service.VerifyDocument(s.ctx, strings.NewReader(content))
	s.Require().NoError(err)
	s.True(outcome.Verified)
	s.Equal("JNU-TEST-90001", outcome.RecordID.String())

	outcome, err = s.service.VerifyDocument(s.ctx, strings.NewReader(content+" tampered"))
	s.Require().NoError(err)
	s.False(outcome.Verified)
}

func (s *ServiceSuite) TestRealModeLedgerFailureSurfaces() {
	s.Require().NoError(s.selector.SetMode(ledger.ModeReal))

	_, err := s.service.Verify(s.ctx, seededFingerprint)
	s.True(dErrors.HasCode(err, dErrors.CodeLedgerError))
}

func (s *ServiceSuite) TestModesAreDisjoint() {
	// A record visible in testing mode must not leak into real mode; the
	// broken real ledger here cannot see the store at all.
	outcome, err := s.service.Verify(s.ctx, seededFingerprint)
	s.Require().NoError(err)
	s.True(outcome.Verified)

	s.Require().NoError(s.selector.SetMode(ledger.ModeReal))
	_, err = s.service.Verify(s.ctx, seededFingerprint)
	s.Error(err)
}

func (s *ServiceSuite) TestVerificationEmitsAudit() {
	_, err := s.service.Verify(s.ctx, seededFingerprint)
	s.Require().NoError(err)

	events, err := s.auditStore.ListByActor(s.ctx, "anonymous")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionVerify, events[0].Action)
	s.Equal("verified", events[0].Decision)
	s.Equal(seededFingerprint, events[0].Subject)
}
