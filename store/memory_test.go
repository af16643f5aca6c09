package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/typedcol/predicate"
)

func TestMemory_PutGet(t *testing.T) {
	m := NewMemory(nil)
	key := uuid.New()

	cols := map[string][]byte{"title": []byte("x"), "tags": []byte("| s:a |")}
	require.NoError(t, m.Put(key, cols))
	require.Equal(t, 1, m.Len())

	got, err := m.Get(key)
	require.NoError(t, err)
	require.Equal(t, cols, got)

	// Returned row is a copy: mutating it must not leak into the store.
	got["title"][0] = 'y'
	again, err := m.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("x"), again["title"])
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory(nil)
	_, err := m.Get(uuid.New())
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory(nil)
	key := uuid.New()
	require.NoError(t, m.Put(key, map[string][]byte{"a": {1}}))

	m.Delete(key)
	_, err := m.Get(key)
	require.ErrorIs(t, err, ErrRecordNotFound)

	m.Delete(key) // absent key is a no-op
}

func TestMemory_Find(t *testing.T) {
	m := NewMemory(nil)

	k1, k2 := uuid.New(), uuid.New()
	require.NoError(t, m.Put(k1, map[string][]byte{"style": {0, 0}}))
	require.NoError(t, m.Put(k2, map[string][]byte{"style": {1, 0}}))

	keys, err := m.Find(&predicate.EqualsFragment{Column: "style", Literal: []byte{0, 0}})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{k1}, keys)

	keys, err = m.Find(predicate.Not(&predicate.EqualsFragment{Column: "style", Literal: []byte{0, 0}}))
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{k2}, keys)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := uuid.New()
			require.NoError(t, m.Put(key, map[string][]byte{"n": {byte(1)}}))
			_, err := m.Get(key)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, 8, m.Len())
}
