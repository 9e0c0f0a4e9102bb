package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"docmanager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Save(ctx, strings.NewReader("pdf bytes"), "Memorandum", "2026", "scan.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, filepath.Join("documents", "memorandum", "2026")+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "pdf bytes", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestLocalStoreSanitizesSegments(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key, err := store.Save(context.Background(), strings.NewReader("x"), "../../etc", "", "a.pdf")
	require.NoError(t, err)
	assert.NotContains(t, key, "..")
	assert.Contains(t, key, "uncategorized")
}

func TestLocalStoreDeleteMissingIsSilent(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "documents/none/2020/x.pdf"))
}
