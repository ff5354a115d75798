package auth

import (
	"cashback-chain/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_Check(t *testing.T) {
	g := NewGate(config.Config{OperatorSecret: "$ecr@t"})

	assert.NoError(t, g.Check("$ecr@t"))
	assert.ErrorIs(t, g.Check("invalid"), ErrInvalidCredential)
	assert.ErrorIs(t, g.Check(""), ErrInvalidCredential)
}

func TestGate_EmptySecretRejectsEverything(t *testing.T) {
	g := NewGate(config.Config{})

	assert.ErrorIs(t, g.Check(""), ErrInvalidCredential)
}
