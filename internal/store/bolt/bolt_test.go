package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(OpenOptions{})
	assert.Error(t, err)
}

func TestBackendPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "solvelog.db")

	b, err := Open(OpenOptions{Path: path})
	require.NoError(t, err)

	_, found, err := b.Get(ctx, "problems")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Set(ctx, "problems", []byte(`[{"id":"a"}]`)))
	require.NoError(t, b.Close())

	b, err = Open(OpenOptions{Path: path})
	require.NoError(t, err)
	defer b.Close()

	data, found, err := b.Get(ctx, "problems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, string(data))
}
