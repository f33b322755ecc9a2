package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triplog/internal/kv"
)

// testStoreContract exercises the behaviour every backend must share.
// Backends with external state should pass a store scoped to the test.
func testStoreContract(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "never-set")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "trips", `[{"id":1}]`))

		v, ok, err := s.Get(ctx, "trips")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":1}]`, v)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "theme", "dark"))
		require.NoError(t, s.Set(ctx, "theme", "light"))

		v, _, err := s.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "light", v)
	})

	t.Run("empty value is still present", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "notes", ""))

		v, ok, err := s.Get(ctx, "notes")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "consent", "true"))
		require.NoError(t, s.Set(ctx, "feedback", "{}"))

		v, _, err := s.Get(ctx, "consent")
		require.NoError(t, err)
		assert.Equal(t, "true", v)
	})

	t.Run("unicode round trip", func(t *testing.T) {
		const want = `[{"origin":"Home","destination":"Café → Kochi"}]`
		require.NoError(t, s.Set(ctx, "trips", want))

		v, _, err := s.Get(ctx, "trips")
		require.NoError(t, err)
		assert.Equal(t, want, v)
	})
}
