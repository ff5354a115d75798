// internal/auth/credential.go
package auth

import (
	"cashback-chain/internal/config"
	"crypto/subtle"
	"errors"
	"log/slog"
)

var ErrInvalidCredential = errors.New("invalid operator credential")

// Gate guards operator actions with one shared secret.
type Gate struct {
	secret []byte
}

func NewGate(cfg config.Config) *Gate {
	return &Gate{secret: []byte(cfg.OperatorSecret)}
}

func (g *Gate) Check(candidate string) error {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(candidate), g.secret) != 1 {
		slog.Debug("operator credential rejected")
		return ErrInvalidCredential
	}
	return nil
}
