package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		payload := []byte(`{"roots":[0]}`)

		err := store.Save(ctx, key, domain.KindPathSystem, payload)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key, domain.KindPathSystem)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, payload, loaded)
	})

	t.Run("Kinds Are Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key+"-iso", domain.KindSlice, []byte("slice")))

		_, err := store.Load(ctx, key+"-iso", domain.KindPathSystem)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key+"-ow", domain.KindSlice, []byte("v1")))
		require.NoError(t, store.Save(ctx, key+"-ow", domain.KindSlice, []byte("v2")))

		loaded, err := store.Load(ctx, key+"-ow", domain.KindSlice)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key, domain.KindPath)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, key, domain.KindPath, []byte("path"))
		require.NoError(t, err)

		err = store.Delete(ctx, key, domain.KindPath)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key, domain.KindPath)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")

		assert.NoError(t, store.Delete(ctx, key, domain.KindPath), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, domain.KindSlice, []byte("a"))
		_ = store.Save(ctx, id2, domain.KindSlice, []byte("b"))

		defer func() {
			_ = store.Delete(ctx, id1, domain.KindSlice)
			_ = store.Delete(ctx, id2, domain.KindSlice)
		}()

		keys, err := store.List(ctx, domain.KindSlice)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
