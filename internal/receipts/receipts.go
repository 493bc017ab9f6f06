// Package receipts issues signed, shareable verification receipts. A receipt
// is a compact HMAC-signed token embedding the outcome, so a third party can
// display a verified result offline and later check it against the issuing
// service's key.
package receipts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"certledger/internal/verification"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Claims is the receipt token payload.
type Claims struct {
	Fingerprint string `json:"verify"`
	RecordID    string `json:"record_id,omitempty"`
	RecIssuer   string `json:"record_issuer,omitempty"`
	Verified    bool   `json:"verified"`
	jwt.RegisteredClaims
}

// Issuer signs and validates receipt tokens with a shared HMAC key.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer creates a receipt issuer. A zero ttl means receipts never expire.
func NewIssuer(key string, ttl time.Duration) *Issuer {
	return &Issuer{key: []byte(key), ttl: ttl}
}

// Issue signs a receipt for a verified outcome. Unverified outcomes have
// nothing to attest, so they are rejected.
func (i *Issuer) Issue(outcome verification.Outcome) (string, error) {
	if !outcome.Verified {
		return "", dErrors.New(dErrors.CodeInvalidInput, "cannot issue a receipt for an unverified outcome")
	}

	now := time.Now().UTC()
	claims := Claims{
		Fingerprint: outcome.Fingerprint.String(),
		RecordID:    outcome.RecordID.String(),
		RecIssuer:   outcome.Issuer,
		Verified:    true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			Issuer:   "certledger",
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign receipt")
	}
	return signed, nil
}

// Validate parses a receipt token and returns its claims. Tampered or
// expired tokens fail.
func (i *Issuer) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "unexpected receipt signing method")
		}
		return i.key, nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid receipt token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid receipt token")
	}
	if _, err := domain.ParseFingerprint(claims.Fingerprint); err != nil {
		return nil, err
	}
	return claims, nil
}
