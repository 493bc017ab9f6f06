package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "certledger/pkg/domain-errors"
)

// DecodeJSON decodes a JSON request body into target, returning an
// invalid-input domain error on malformed bodies.
func DecodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}
