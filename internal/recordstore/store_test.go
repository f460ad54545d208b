package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
)

func TestStoreCreateGet(t *testing.T) {
	store := NewStore(dbm.NewMemDB())
	defer store.Close()

	require.NoError(t, store.Create("7", []byte(`{"id":"7"}`)))
	doc, err := store.Get("7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7"}`, string(doc))

	require.ErrorIs(t, store.Create("7", []byte(`{"id":"7","x":1}`)), ErrDuplicate)
	doc, err = store.Get("7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7"}`, string(doc))

	_, err = store.Get("8")
	require.ErrorIs(t, err, ErrNotFound)

	require.Error(t, store.Create("", []byte(`{}`)))
}

func TestOpenStorePersists(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenStore("records", dir)
	require.NoError(t, err)
	require.NoError(t, store.Create("-1", []byte(`{"id":"-1"}`)))
	require.NoError(t, store.Close())

	store, err = OpenStore("records", dir)
	require.NoError(t, err)
	defer store.Close()

	doc, err := store.Get("-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"-1"}`, string(doc))
}
