package testutil

import (
	"tubetracker/internal/vault"
)

// NewTestArchive creates a new in-memory snapshot archive for testing.
func NewTestArchive() *vault.MemoryVault {
	return vault.NewMemoryVault("test-vault")
}
