// Package records owns the issued academic records and their store.
package records

import (
	"time"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Course is one graded course line inside a result payload.
type Course struct {
	Code    string  `json:"code"`
	Title   string  `json:"title"`
	Credits int     `json:"credits"`
	Grade   string  `json:"grade"`
	Points  float64 `json:"points"`
}

// ResultPayload is the structured content of an issued result. The
// fingerprint is derived from its canonical JSON form, so every field here
// is hash-relevant.
type ResultPayload struct {
	Student  string   `json:"student"`
	Program  string   `json:"program"`
	Semester string   `json:"semester"`
	Courses  []Course `json:"courses"`
	GPA      float64  `json:"gpa"`
	IssuedOn string   `json:"issuedOn"`
}

// Validate checks the fields required before a payload may be fingerprinted
// and uploaded. Missing fields are caller input errors.
func (p ResultPayload) Validate() error {
	if p.Student == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payload student is required")
	}
	if p.Semester == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payload semester is required")
	}
	if len(p.Courses) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "payload must contain at least one course")
	}
	return nil
}

// Record is one issued academic result or certificate.
//
// Invariant: Fingerprint is deterministically derived from Payload, and no
// two distinct payloads share a fingerprint in the store.
type Record struct {
	RecordID    domain.RecordID
	Subject     domain.Address
	Payload     ResultPayload
	Fingerprint domain.Fingerprint
	Issuer      string
	IssuedAt    time.Time

	// ArchiveRef is an optional content-addressed pointer (CIDv1) to the
	// archived canonical payload.
	ArchiveRef string
}
