// Package qrpayload encodes and decodes the JSON payload embedded in
// verification QR codes.
package qrpayload

import (
	"encoding/json"
	"strings"

	"certledger/pkg/domain"
)

// Payload is the QR code content produced by the upload flow.
// DocumentData optionally embeds record metadata for offline display.
type Payload struct {
	Verify       string         `json:"verify"`
	Hash         string         `json:"hash,omitempty"`
	DocumentData map[string]any `json:"documentData,omitempty"`
}

// Build constructs a QR payload for a fingerprint.
func Build(fp domain.Fingerprint, documentData map[string]any) Payload {
	return Payload{Verify: fp.String(), DocumentData: documentData}
}

// Encode renders the payload as the JSON string placed in the QR image.
func (p Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Extract pulls the verification fingerprint out of a scanned token.
//
// A token that looks structurally like JSON (leading '{') is parsed as a
// Payload; the "verify" field is preferred, "hash" is the fallback. Malformed
// JSON is tolerated by treating the whole token as a literal fingerprint.
// The second return is false when the token parsed as JSON but carried
// neither field.
func Extract(token string) (string, bool) {
	trimmed := strings.TrimSpace(token)
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, trimmed != ""
	}

	var p Payload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return trimmed, true
	}
	if p.Verify != "" {
		return p.Verify, true
	}
	if p.Hash != "" {
		return p.Hash, true
	}
	return "", false
}
