package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// CredentialFromRequest reads the admin secret from the Authorization header,
// raw or as a bearer token. bodyFallback is used when the header is absent, since
// the admin UI may send it as admin_password in the JSON body.
func CredentialFromRequest(r *http.Request, bodyFallback string) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return bodyFallback
	}
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return header
}
