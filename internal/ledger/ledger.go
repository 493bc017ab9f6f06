// Package ledger abstracts the effectful backing store for record proofs.
// Two implementations exist: a simulated ledger for testing mode and a remote
// client for real mode. Which one is active is always decided by the explicit
// configured mode, never inferred from collaborator presence.
package ledger

import (
	"context"
	"time"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Mode selects the ledger backing a session.
type Mode string

const (
	ModeTesting Mode = "testing"
	ModeReal    Mode = "real"
)

// ParseMode validates a mode name from an external input.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTesting, ModeReal:
		return Mode(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown ledger mode: "+s)
	}
}

func (m Mode) String() string { return string(m) }

// ContractAddress identifies a deployed contract on the active ledger.
type ContractAddress string

func (a ContractAddress) String() string { return string(a) }

// Receipt acknowledges a submitted transaction.
type Receipt struct {
	TxHash      string
	Contract    ContractAddress
	SubmittedAt time.Time
}

// Proof is the ledger's answer to an existence read: which record a
// fingerprint maps to, who issued it, and when.
type Proof struct {
	Fingerprint domain.Fingerprint
	RecordID    domain.RecordID
	Issuer      string
	IssuedAt    time.Time
}

// Ledger is the adapter boundary consumed by verification and issuance.
type Ledger interface {
	// Deploy provisions the backing contract and returns its address.
	Deploy(ctx context.Context) (ContractAddress, error)

	// Submit records a fingerprint-to-subject mapping and returns a receipt.
	Submit(ctx context.Context, fp domain.Fingerprint, subject domain.RecordID) (Receipt, error)

	// Read returns the proof for a fingerprint, or (nil, nil) when absent.
	// Absence is a normal outcome, not an error.
	Read(ctx context.Context, fp domain.Fingerprint) (*Proof, error)
}
