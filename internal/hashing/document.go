package hashing

import (
	"context"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/sha3"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// HashDocument computes the fingerprint of an uploaded document by streaming
// its bytes through the digest. The fingerprint depends only on file content,
// never on filename or size. Size and MIME validation are the caller's
// responsibility.
func HashDocument(ctx context.Context, r io.Reader) (domain.Fingerprint, error) {
	if r == nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "document reader is required")
	}

	h := sha3.NewLegacyKeccak256()
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "document hashing cancelled")
		}
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeIOError, "failed to read document")
		}
	}
	return domain.Fingerprint(hex.EncodeToString(h.Sum(nil))), nil
}
