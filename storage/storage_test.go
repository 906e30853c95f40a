package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	content := []byte("%PDF-1.4 hello")
	require.NoError(t, store.Put(context.Background(), "doc.pdf", content, "application/pdf"))

	got, err := store.Get(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	require.NoError(t, store.Delete(context.Background(), "doc.pdf"))

	_, err = store.Get(context.Background(), "doc.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape.pdf", "a/../../b.pdf", "/etc/passwd"} {
		assert.Error(t, store.Put(context.Background(), key, []byte("x"), "application/pdf"), key)
	}
}
