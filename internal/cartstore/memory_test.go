package cartstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	items, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, items)

	saved := []Item{{ProductID: 1, Name: "mouse", Price: 29.99, Quantity: 2}}
	require.NoError(t, s.Save(ctx, "tok", saved))

	got, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, saved, got)

	// mutations of the returned slice must not leak into the store
	got[0].Quantity = 99
	again, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, 2, again[0].Quantity)

	require.NoError(t, s.Clear(ctx, "tok"))
	cleared, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	require.Nil(t, cleared)
}
