package memory_test

import (
	"testing"

	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryLedger_Contract(t *testing.T) {
	ports.RunClaimLedgerContract(t, memory.NewLedger())
}
