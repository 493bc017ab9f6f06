// Package hashing produces the deterministic fingerprints that identify
// records and documents. Fingerprints are Keccak-256 digests, hex encoded,
// computed over a canonical JSON form so equal payloads always collide and
// distinct payloads practically never do.
package hashing

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Canonical serializes a payload to its canonical JSON form: object keys
// sorted, numbers kept as their literal text, no insignificant whitespace.
// Two payloads that are equal by deep value produce identical bytes
// regardless of field ordering in the input.
func Canonical(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "payload is not serializable")
	}

	// Round-trip through a generic value so map keys come out sorted.
	// UseNumber preserves numeric literals exactly instead of going
	// through float64.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to canonicalize payload")
	}

	canonical, err := json.Marshal(value)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to canonicalize payload")
	}
	return canonical, nil
}

// HashPayload computes the fingerprint of a structured payload.
// Repeated calls over equal payloads yield the same fingerprint.
func HashPayload(payload any) (domain.Fingerprint, error) {
	canonical, err := Canonical(payload)
	if err != nil {
		return "", err
	}
	return HashBytes(canonical), nil
}

// HashBytes computes the Keccak-256 hex fingerprint of raw bytes.
func HashBytes(data []byte) domain.Fingerprint {
	h := sha3.NewLegacyKeccak256()
	// Hash.Write never returns an error.
	_, _ = h.Write(data)
	return domain.Fingerprint(hex.EncodeToString(h.Sum(nil)))
}
