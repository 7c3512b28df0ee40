package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMissingKey(t *testing.T) {
	kv := NewMemory()

	v, err := kv.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemorySetGetDelete(t *testing.T) {
	kv := NewMemory()

	require.NoError(t, kv.Set("k", []byte("v")))
	v, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, kv.Delete("k"))
	v, err = kv.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemoryCopiesValues(t *testing.T) {
	kv := NewMemory()

	in := []byte("abc")
	require.NoError(t, kv.Set("k", in))
	in[0] = 'x'

	v, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v, "mutating the caller's slice must not reach the store")

	v[0] = 'y'
	again, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again, "mutating a returned slice must not reach the store")
}

func TestPebbleRoundTrip(t *testing.T) {
	dir := t.TempDir()

	kv, err := OpenPebble(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set("matrixUser", []byte(`{"id":"1"}`)))
	require.NoError(t, kv.Close())

	// Reopen: the value must survive.
	kv, err = OpenPebble(dir)
	require.NoError(t, err)
	defer kv.Close()

	v, err := kv.Get("matrixUser")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"1"}`), v)

	missing, err := kv.Get("matrixChatRooms")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, kv.Delete("matrixUser"))
	v, err = kv.Get("matrixUser")
	require.NoError(t, err)
	assert.Nil(t, v)
}
