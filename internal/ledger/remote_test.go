package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "certledger/pkg/domain-errors"
)

type RemoteSuite struct {
	suite.Suite
	ctx context.Context
}

func TestRemoteSuite(t *testing.T) {
	suite.Run(t, new(RemoteSuite))
}

func (s *RemoteSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *RemoteSuite) TestDeploy() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/contracts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"contract": "0xabc123"})
	}))
	defer server.Close()

	remote := NewRemote(server.URL)
	contract, err := remote.Deploy(s.ctx)
	s.Require().NoError(err)
	s.Equal("0xabc123", contract.String())
}

func (s *RemoteSuite) TestSubmit() {
	submittedAt := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/records", r.URL.Path)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("aa11", body["fingerprint"])
		s.Equal("JNU-TEST-00001", body["subject"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tx_hash":      "0xtx1",
			"contract":     "0xabc123",
			"submitted_at": submittedAt,
		})
	}))
	defer server.Close()

	remote := NewRemote(server.URL)
	receipt, err := remote.Submit(s.ctx, "aa11", "JNU-TEST-00001")
	s.Require().NoError(err)
	s.Equal("0xtx1", receipt.TxHash)
	s.Equal(submittedAt, receipt.SubmittedAt)
}

func (s *RemoteSuite) TestSubmitRejectionIsLedgerError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"reverted"}`, http.StatusConflict)
	}))
	defer server.Close()

	remote := NewRemote(server.URL)
	_, err := remote.Submit(s.ctx, "aa11", "JNU-TEST-00001")
	s.True(dErrors.HasCode(err, dErrors.CodeLedgerError))
}

func (s *RemoteSuite) TestReadFound() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/records/aa11", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exists":      true,
			"fingerprint": "aa11",
			"record_id":   "JNU-TEST-00001",
			"issuer":      "Test University",
			"issued_at":   time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC),
		})
	}))
	defer server.Close()

	remote := NewRemote(server.URL)
	proof, err := remote.Read(s.ctx, "aa11")
	s.Require().NoError(err)
	s.Require().NotNil(proof)
	s.Equal("JNU-TEST-00001", proof.RecordID.String())
}

func (s *RemoteSuite) TestReadAbsent() {
	s.Run("404 means absent", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		proof, err := NewRemote(server.URL).Read(s.ctx, "deadbeef")
		s.Require().NoError(err)
		s.Nil(proof)
	})

	s.Run("exists=false means absent", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"exists": false})
		}))
		defer server.Close()

		proof, err := NewRemote(server.URL).Read(s.ctx, "deadbeef")
		s.Require().NoError(err)
		s.Nil(proof)
	})
}

func (s *RemoteSuite) TestUnreachableGatewayIsLedgerError() {
	remote := NewRemote("http://127.0.0.1:1")
	_, err := remote.Read(s.ctx, "aa11")
	s.True(dErrors.HasCode(err, dErrors.CodeLedgerError))
}
