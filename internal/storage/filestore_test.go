package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_ReadAbsentKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := fs.Read(context.Background(), KeyRides)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_WriteReadRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte(`[{"id":"1"}]`)
	require.NoError(t, fs.Write(ctx, KeyRides, payload))

	got, ok, err := fs.Read(ctx, KeyRides)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestFileStore_OverwriteReplacesSnapshot(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Write(ctx, KeySession, []byte(`{"id":"1"}`)))
	require.NoError(t, fs.Write(ctx, KeySession, []byte(`{"id":"2"}`)))

	got, ok, err := fs.Read(ctx, KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":"2"}`), got)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Write(ctx, KeySession, []byte(`{}`)))
	require.NoError(t, fs.Delete(ctx, KeySession))
	require.NoError(t, fs.Delete(ctx, KeySession))

	_, ok, err := fs.Read(ctx, KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStore_CopiesDataBothWays(t *testing.T) {
	ms := NewMemStore()
	ctx := context.Background()

	payload := []byte(`{"id":"1"}`)
	require.NoError(t, ms.Write(ctx, KeySession, payload))
	payload[2] = 'x'

	got, ok, err := ms.Read(ctx, KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":"1"}`), got)

	got[2] = 'x'
	again, _, err := ms.Read(ctx, KeySession)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"1"}`), again)
}

type snapshotRecord struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestSnapshot_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := []snapshotRecord{{ID: "a", Count: 2}, {ID: "b", Count: 0}}
	require.NoError(t, SaveSnapshot(ctx, fs, KeyRides, in))

	out, present, err := LoadSnapshot[[]snapshotRecord](ctx, fs, KeyRides)
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, in, out)
}

func TestSnapshot_AbsentKey(t *testing.T) {
	ms := NewMemStore()

	_, present, err := LoadSnapshot[[]snapshotRecord](context.Background(), ms, KeyRides)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestSnapshot_MalformedPayloadIsCorrupt(t *testing.T) {
	ms := NewMemStore()
	ctx := context.Background()
	require.NoError(t, ms.Write(ctx, KeyRides, []byte(`{not json`)))

	_, present, err := LoadSnapshot[[]snapshotRecord](ctx, ms, KeyRides)
	assert.True(t, present)
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}
