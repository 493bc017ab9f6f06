package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"certledger/internal/records"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Simulated is the testing-mode ledger. Deploy mints a placeholder address,
// Submit and Read operate against the local record store, and every call
// waits a fixed artificial delay so the UI feels the same as the real path.
// It never produces LedgerError-class failures.
type Simulated struct {
	store  records.Store
	issuer string
	delay  time.Duration

	mu       sync.Mutex
	contract ContractAddress
}

// NewSimulated builds a simulated ledger over the given record store.
func NewSimulated(store records.Store, issuer string, delay time.Duration) *Simulated {
	return &Simulated{store: store, issuer: issuer, delay: delay}
}

// Deploy generates a random placeholder contract address and remembers it.
func (s *Simulated) Deploy(ctx context.Context) (ContractAddress, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	// 20 random bytes gives an address-shaped placeholder.
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate contract address")
	}
	addr := ContractAddress("0x" + hex.EncodeToString(raw))

	s.mu.Lock()
	s.contract = addr
	s.mu.Unlock()
	return addr, nil
}

// Contract returns the locally recorded placeholder address, if deployed.
func (s *Simulated) Contract() ContractAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contract
}

// Submit records a minimal proof entry in the local store and returns a
// receipt with a random transaction hash. The issuance service overwrites the
// entry with the full record afterwards; insertion is idempotent either way.
func (s *Simulated) Submit(ctx context.Context, fp domain.Fingerprint, subject domain.RecordID) (Receipt, error) {
	if fp.IsNil() {
		return Receipt{}, dErrors.New(dErrors.CodeInvalidInput, "fingerprint is required")
	}
	if err := s.wait(ctx); err != nil {
		return Receipt{}, err
	}

	now := time.Now().UTC()
	if err := s.store.Insert(ctx, records.Record{
		RecordID:    subject,
		Fingerprint: fp,
		Issuer:      s.issuer,
		IssuedAt:    now,
	}); err != nil {
		return Receipt{}, err
	}

	txID := uuid.New()
	return Receipt{
		TxHash:      "0x" + hex.EncodeToString(txID[:]),
		Contract:    s.Contract(),
		SubmittedAt: now,
	}, nil
}

// Read looks the fingerprint up in the local store.
func (s *Simulated) Read(ctx context.Context, fp domain.Fingerprint) (*Proof, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	rec, err := s.store.Lookup(ctx, fp)
	if err != nil || rec == nil {
		return nil, err
	}
	return &Proof{
		Fingerprint: rec.Fingerprint,
		RecordID:    rec.RecordID,
		Issuer:      rec.Issuer,
		IssuedAt:    rec.IssuedAt,
	}, nil
}

// wait applies the artificial delay while honoring cancellation.
func (s *Simulated) wait(ctx context.Context) error {
	if s.delay <= 0 {
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "ledger call cancelled")
		}
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "ledger call cancelled")
	case <-timer.C:
		return nil
	}
}
