// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	dErrors "certledger/pkg/domain-errors"
)

// Address is a wallet address obtained from the wallet-connection collaborator.
// It is opaque to the engine and compared case-insensitively, so parsing
// normalizes to lower case. The zero value means "not connected".
type Address string

// Fingerprint is the deterministic hex digest identifying a record or
// document. It is the verification token and the primary key into the
// record store.
type Fingerprint string

// RecordID identifies one issued academic result or certificate,
// e.g. "JNU-PGDOM-43825".
type RecordID string

// Parse functions - use at trust boundaries (handlers, API inputs).

// ParseAddress normalizes a wallet address for comparison. An empty input is
// not an error here: it parses to the zero Address, which resolves to no role.
func ParseAddress(s string) Address {
	return Address(strings.ToLower(strings.TrimSpace(s)))
}

// ParseFingerprint validates a fingerprint token. Fingerprints are lowercase
// hex; an optional 0x prefix is stripped. Length is not pinned to one digest
// width so that foreign tokens still resolve to a clean not-found outcome.
func ParseFingerprint(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "verification token cannot be empty")
	}
	if len(s) > 128 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "verification token is too long")
	}
	for _, r := range strings.ToLower(s) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", dErrors.New(dErrors.CodeInvalidInput, "verification token must be a hex fingerprint")
		}
	}
	return Fingerprint(strings.ToLower(s)), nil
}

// ParseRecordID validates an issued record identifier.
func ParseRecordID(s string) (RecordID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "record ID cannot be empty")
	}
	if len(s) > 64 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "record ID is too long")
	}
	return RecordID(s), nil
}

// String methods - for logging and debugging.

func (a Address) String() string     { return string(a) }
func (f Fingerprint) String() string { return string(f) }
func (r RecordID) String() string    { return string(r) }

// IsNil checks - used for service-layer validation.

func (a Address) IsNil() bool     { return a == "" }
func (f Fingerprint) IsNil() bool { return f == "" }
func (r RecordID) IsNil() bool    { return r == "" }
