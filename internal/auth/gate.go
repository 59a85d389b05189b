package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
)

// Gate checks the administrative secret. It holds no session state; every
// mutating call presents its credential again.
type Gate struct {
	secret [sha256.Size]byte
	empty  bool
}

func NewGate(secret string) *Gate {
	return &Gate{
		secret: sha256.Sum256([]byte(secret)),
		empty:  secret == "",
	}
}

// Authorize returns apperror.ErrUnauthorized unless credential matches the secret.
// Both sides are hashed first so the comparison time depends on neither length nor content.
func (g *Gate) Authorize(credential string) error {
	if g == nil || g.empty || credential == "" {
		return apperror.ErrUnauthorized
	}
	got := sha256.Sum256([]byte(credential))
	if subtle.ConstantTimeCompare(got[:], g.secret[:]) != 1 {
		return apperror.ErrUnauthorized
	}
	return nil
}
