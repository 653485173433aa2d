package syncdoc

import (
	"context"
	"testing"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_WriteRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "sessions/abc", []byte(`{"v":1}`)))

	doc, err := store.Read(ctx, "sessions/abc")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(doc))

	// Overwrite: only the latest value is observable
	require.NoError(t, store.Write(ctx, "sessions/abc", []byte(`{"v":2}`)))
	doc, err = store.Read(ctx, "sessions/abc")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(doc))
}

func TestMemoryStore_ReadMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Read(context.Background(), "sessions/missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStore_SubscribeReceivesWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var got []string
	unsubscribe, err := store.Subscribe(ctx, "sessions/abc", func(doc []byte) {
		got = append(got, string(doc))
	})
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, store.Write(ctx, "sessions/abc", []byte("a")))
	require.NoError(t, store.Write(ctx, "sessions/abc", []byte("b")))
	// Different path does not notify
	require.NoError(t, store.Write(ctx, "sessions/other", []byte("c")))

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMemoryStore_UnsubscribeStopsDelivery(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	unsubscribe, err := store.Subscribe(ctx, "sessions/abc", func([]byte) {
		calls++
	})
	require.NoError(t, err)

	require.NoError(t, store.Write(ctx, "sessions/abc", []byte("a")))
	unsubscribe()
	require.NoError(t, store.Write(ctx, "sessions/abc", []byte("b")))

	assert.Equal(t, 1, calls)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "sessions/abc", []byte("a")))
	require.NoError(t, store.Delete(ctx, "sessions/abc"))
	_, err := store.Read(ctx, "sessions/abc")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Deleting an absent document is a no-op
	require.NoError(t, store.Delete(ctx, "sessions/abc"))
}
