package redis_test

import (
	"context"
	"testing"

	"github.com/aretw0/silverconnect/pkg/adapters/redis"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLedger_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunClaimLedgerContract(t, redis.NewLedger(client, ""))
}

func TestRedisLedger_Keys(t *testing.T) {
	mr, client := newClient(t)
	ledger := redis.NewLedger(client, "test:")
	ctx := context.Background()

	_, err := ledger.Claim(ctx, ports.Claim{Scope: domain.ScopeCommunity, ItemID: 2, Username: "elder1", Baseline: 18})
	require.NoError(t, err)

	count, err := mr.Get("test:claim:community:2:count")
	require.NoError(t, err)
	assert.Equal(t, "19", count)
	assert.True(t, mr.Exists("test:holdings:community:elder1"))
}
