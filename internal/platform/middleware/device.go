package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// DeviceInfo summarizes the requesting client for audit attribution.
// Verification outcomes and gated mutations record it alongside the actor.
type DeviceInfo struct {
	Browser  string
	OS       string
	Mobile   bool
	Bot      bool
	RawAgent string
}

type deviceInfoKey struct{}

// DeviceMetadata parses the User-Agent header and injects a DeviceInfo into
// the request context. Parsing failures are not errors: an empty DeviceInfo
// is injected so downstream audit events always have a device field.
func DeviceMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		info := DeviceInfo{RawAgent: raw}
		if raw != "" {
			ua := useragent.New(raw)
			name, _ := ua.Browser()
			info.Browser = name
			info.OS = ua.OS()
			info.Mobile = ua.Mobile()
			info.Bot = ua.Bot()
		}

		ctx := context.WithValue(r.Context(), deviceInfoKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDeviceInfo retrieves the device metadata from the context.
func GetDeviceInfo(ctx context.Context) DeviceInfo {
	if info, ok := ctx.Value(deviceInfoKey{}).(DeviceInfo); ok {
		return info
	}
	return DeviceInfo{}
}
