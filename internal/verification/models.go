package verification

import (
	"time"

	"certledger/pkg/domain"
)

// Outcome is the transient result of resolving one verification token.
// It is constructed fresh per request and never persisted.
type Outcome struct {
	Verified    bool               `json:"verified"`
	Fingerprint domain.Fingerprint `json:"fingerprint"`
	RecordID    domain.RecordID    `json:"record_id,omitempty"`
	Issuer      string             `json:"issuer,omitempty"`
	IssuedAt    time.Time          `json:"issued_at,omitzero"`
	Message     string             `json:"message"`
}

// Outcome messages. Kept distinct per failure class so callers and tests can
// tell them apart.
const (
	MsgVerified      = "record verified"
	MsgNotFound      = "no record found for this fingerprint"
	MsgNoHashInToken = "no verification hash found"
)
