package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/mocks"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/adapters/memory"
)

func newTestStore() *ContentStore {
	return NewContentStore(memory.New(), "artifacts", mocks.NopLogger{}, mocks.NopMetrics{})
}

func TestPutReturnsDeterministicID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	id1, err := store.Put(ctx, []byte("contract Vault {}"), "text/plain")
	require.NoError(t, err)

	id2, err := store.Put(ctx, []byte("contract Vault {}"), "text/plain")
	require.NoError(t, err)

	// identical content must address the same object
	assert.Equal(t, id1, id2)
	assert.Equal(t, ComputeID([]byte("contract Vault {}")), id1)
}

func TestPutThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	payload := []byte(`{"final_score":69}`)
	id, err := store.Put(ctx, payload, "application/json")
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGetUnknownIDFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	_, err := store.Get(ctx, ComputeID([]byte("never stored")))
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	id, err := store.Put(ctx, []byte("x"), "text/plain")
	require.NoError(t, err)

	ok, err := store.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, ComputeID([]byte("y")))
	require.NoError(t, err)
	assert.False(t, ok)
}
