package issuance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"certledger/internal/audit"
	"certledger/internal/identity"
	"certledger/internal/ledger"
	"certledger/internal/records"
	"certledger/internal/records/fixtures"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

const (
	adminAddr   = domain.Address("0x5b38da6a701c568545dcfcb03fcb875f56beddc4")
	teacherAddr = domain.Address("0xab8483f64d9c6d1ecf9b849ae677dd3315835cb2")
	studentAddr = domain.Address("0x1111111111111111111111111111111111111111")
)

// recordingLedger is a test double for the real-mode ledger that records
// submissions without a backing store.
type recordingLedger struct {
	submits []domain.Fingerprint
	fail    bool
}

func (l *recordingLedger) Deploy(context.Context) (ledger.ContractAddress, error) {
	return "0xcontract", nil
}

func (l *recordingLedger) Submit(_ context.Context, fp domain.Fingerprint, _ domain.RecordID) (ledger.Receipt, error) {
	if l.fail {
		return ledger.Receipt{}, dErrors.New(dErrors.CodeLedgerError, "transaction reverted")
	}
	l.submits = append(l.submits, fp)
	return ledger.Receipt{TxHash: "0xtx"}, nil
}

func (l *recordingLedger) Read(context.Context, domain.Fingerprint) (*ledger.Proof, error) {
	return nil, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	roles      *identity.Registry
	store      *records.InMemoryStore
	selector   *ledger.Selector
	realLedger *recordingLedger
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.roles = identity.NewRegistry(fixtures.Admins(), fixtures.Teachers())
	s.store = records.NewInMemoryStore()
	s.realLedger = &recordingLedger{}

	simulated := ledger.NewSimulated(s.store, fixtures.Issuer, 0)
	s.selector = ledger.NewSelector(simulated, s.realLedger, false, nil, nil)
	s.auditStore = audit.NewInMemoryStore()
	s.service = NewService(s.roles, s.store, s.selector, fixtures.Issuer,
		WithAuditor(audit.NewStorePublisher(s.auditStore)),
	)
}

func (s *ServiceSuite) validPayload() records.ResultPayload {
	return records.ResultPayload{
		Student:  "JNU-TEST-70001",
		Program:  "MBA",
		Semester: "Semester 1",
		Courses:  []records.Course{{Code: "FIN-101", Title: "Accounting", Credits: 4, Grade: "A", Points: 9.0}},
		GPA:      9.0,
		IssuedOn: "2024-07-01",
	}
}

func (s *ServiceSuite) TestAddTeacherAsAdmin() {
	newTeacher := domain.Address("0xNewTeacher")
	s.Require().NoError(s.service.AddTeacher(s.ctx, adminAddr, newTeacher))
	s.Equal(identity.RoleTeacher, s.roles.ResolveRole(newTeacher))

	// Testing mode must not touch the ledger for teacher grants.
	s.Empty(s.realLedger.submits)
}

func (s *ServiceSuite) TestAddTeacherDeniedForNonAdmins() {
	before := s.roles.TeacherCount()

	for _, caller := range []domain.Address{teacherAddr, studentAddr, ""} {
		err := s.service.AddTeacher(s.ctx, caller, "0xNewTeacher")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "caller %q", caller)
	}
	s.Equal(before, s.roles.TeacherCount(), "denied calls must not alter the teacher set")
	s.Equal(identity.RoleStudent, s.roles.ResolveRole("0xnewteacher"))
}

func (s *ServiceSuite) TestAddTeacherRealModeSubmitsGrant() {
	s.Require().NoError(s.selector.SetMode(ledger.ModeReal))

	s.Require().NoError(s.service.AddTeacher(s.ctx, adminAddr, "0xNewTeacher"))
	s.Len(s.realLedger.submits, 1)
	s.Equal(identity.RoleTeacher, s.roles.ResolveRole("0xnewteacher"))
}

func (s *ServiceSuite) TestAddTeacherRealModeLedgerFailureLeavesListUntouched() {
	s.Require().NoError(s.selector.SetMode(ledger.ModeReal))
	s.realLedger.fail = true
	before := s.roles.TeacherCount()

	err := s.service.AddTeacher(s.ctx, adminAddr, "0xNewTeacher")
	s.True(dErrors.HasCode(err, dErrors.CodeLedgerError))
	s.Equal(before, s.roles.TeacherCount())
}

func (s *ServiceSuite) TestAddTeacherDuplicateConflict() {
	err := s.service.AddTeacher(s.ctx, adminAddr, teacherAddr)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestUploadRecordAsTeacher() {
	result, err := s.service.UploadRecord(s.ctx, teacherAddr, s.validPayload())
	s.Require().NoError(err)

	s.Equal("JNU-TEST-70001", result.Record.RecordID.String())
	s.NotEmpty(result.Record.Fingerprint.String())
	s.NotEmpty(result.Record.ArchiveRef)
	s.NotEmpty(result.Receipt.TxHash)
	s.Contains(result.QRPayload, result.Record.Fingerprint.String())

	// Testing mode writes the full record to the local store.
	stored, err := s.store.Lookup(s.ctx, result.Record.Fingerprint)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(result.Record.Payload, stored.Payload)
}

func (s *ServiceSuite) TestUploadRecordAfterTeacherGrant() {
	newTeacher := domain.Address("0xFreshTeacher")
	s.Require().NoError(s.service.AddTeacher(s.ctx, adminAddr, newTeacher))

	result, err := s.service.UploadRecord(s.ctx, newTeacher, s.validPayload())
	s.Require().NoError(err)

	stored, err := s.store.Lookup(s.ctx, result.Record.Fingerprint)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal("JNU-TEST-70001", stored.RecordID.String())
}

func (s *ServiceSuite) TestUploadRecordDeniedForStudents() {
	_, err := s.service.UploadRecord(s.ctx, studentAddr, s.validPayload())
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Equal(0, s.store.Len(), "denied uploads must not store records")
}

func (s *ServiceSuite) TestUploadRecordValidatesPayload() {
	payload := s.validPayload()
	payload.Courses = nil

	_, err := s.service.UploadRecord(s.ctx, teacherAddr, payload)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.Equal(0, s.store.Len())
}

func (s *ServiceSuite) TestUploadRecordRealModeOnlySubmitsFingerprint() {
	s.Require().NoError(s.selector.SetMode(ledger.ModeReal))

	result, err := s.service.UploadRecord(s.ctx, teacherAddr, s.validPayload())
	s.Require().NoError(err)
	s.Len(s.realLedger.submits, 1)
	s.Equal(result.Record.Fingerprint, s.realLedger.submits[0])

	// Real mode never writes to the testing-mode store.
	s.Equal(0, s.store.Len())
}

func (s *ServiceSuite) TestDenialsAreAudited() {
	_, err := s.service.UploadRecord(s.ctx, studentAddr, s.validPayload())
	s.Require().Error(err)

	events, err := s.auditStore.ListByActor(s.ctx, studentAddr.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionDenied, events[0].Action)
	s.Equal("denied", events[0].Decision)
}
