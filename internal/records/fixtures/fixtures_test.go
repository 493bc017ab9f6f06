package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"certledger/internal/records"
)

type FixturesSuite struct {
	suite.Suite
}

func TestFixturesSuite(t *testing.T) {
	suite.Run(t, new(FixturesSuite))
}

func (s *FixturesSuite) TestSeedLoadsAllRecords() {
	store := records.NewInMemoryStore()
	s.Require().NoError(Seed(context.Background(), store))
	s.Equal(len(Records()), store.Len())

	rec, err := store.Lookup(context.Background(), "7c5ea3600b1f4c2d8e9a71d64f0c3b5a8d2e6f4019283746a5b4c3d2e1f947d1")
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.Equal("JNU-PGDOM-43825", rec.RecordID.String())
	s.Equal(Issuer, rec.Issuer)
}

func (s *FixturesSuite) TestFingerprintsAreUnique() {
	seen := map[string]bool{}
	for _, rec := range Records() {
		s.False(seen[rec.Fingerprint.String()], "duplicate fixture fingerprint %s", rec.Fingerprint)
		seen[rec.Fingerprint.String()] = true
	}
}

func (s *FixturesSuite) TestMatcherMatchesByRecordID() {
	m := NewMatcher()

	fp, ok := m.Match("results_JNU-PGDOM-43825_final.pdf")
	s.True(ok)
	s.Equal("7c5ea3600b1f4c2d8e9a71d64f0c3b5a8d2e6f4019283746a5b4c3d2e1f947d1", fp.String())

	_, ok = m.Match("unrelated-document.pdf")
	s.False(ok)
}
