package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns a v4 UUID as exactly 32 lowercase hex characters, with
// no hyphens or prefixes. Every aggregate's public identifier uses this
// format so the hex32 validation tag applies uniformly.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
