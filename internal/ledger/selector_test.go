package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"certledger/internal/platform/prefs"
	"certledger/internal/records"
)

type SelectorSuite struct {
	suite.Suite
}

func TestSelectorSuite(t *testing.T) {
	suite.Run(t, new(SelectorSuite))
}

func (s *SelectorSuite) newLedgers() (Ledger, Ledger) {
	testing := NewSimulated(records.NewInMemoryStore(), "Test University", 0)
	real := NewRemote("http://ledger-gateway.invalid")
	return testing, real
}

func (s *SelectorSuite) TestDefaultsToTestingMode() {
	testingLedger, realLedger := s.newLedgers()
	sel := NewSelector(testingLedger, realLedger, false, nil, nil)

	s.Equal(ModeTesting, sel.Mode())
	s.Same(testingLedger, sel.Active())
}

func (s *SelectorSuite) TestSetModeSwitchesActiveLedger() {
	testingLedger, realLedger := s.newLedgers()
	sel := NewSelector(testingLedger, realLedger, false, nil, nil)

	s.Require().NoError(sel.SetMode(ModeReal))
	s.Equal(ModeReal, sel.Mode())
	s.Same(realLedger, sel.Active())

	s.Require().NoError(sel.SetMode(ModeTesting))
	s.Same(testingLedger, sel.Active())
}

func (s *SelectorSuite) TestModePersistsAcrossRestarts() {
	prefPath := filepath.Join(s.T().TempDir(), "prefs.json")
	store := prefs.NewStore(prefPath)

	testingLedger, realLedger := s.newLedgers()
	sel := NewSelector(testingLedger, realLedger, false, store, nil)
	s.Require().NoError(sel.SetMode(ModeReal))

	// A fresh selector over the same preference file resumes in real mode.
	reloaded := NewSelector(testingLedger, realLedger, false, prefs.NewStore(prefPath), nil)
	s.Equal(ModeReal, reloaded.Mode())
}

func (s *SelectorSuite) TestParseMode() {
	mode, err := ParseMode("real")
	s.Require().NoError(err)
	s.Equal(ModeReal, mode)

	_, err = ParseMode("hybrid")
	s.Error(err)
}
