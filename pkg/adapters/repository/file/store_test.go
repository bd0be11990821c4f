package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
)

func TestNewInitialisesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "visitors.json")
	_, err := New(path, 0)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestNewKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"old","guestName":"Amma"}]`), 0o644))

	store, err := New(path, 0)
	require.NoError(t, err)
	snap, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Visits, 1)
	assert.Equal(t, "Amma", snap.Visits[0].GuestName)
}

func TestAppendPrependsAndEvicts(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "visitors.json"), 3)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tag, err := store.Append(ctx, domain.Visit{ID: fmt.Sprintf("v-%d", i)})
		require.NoError(t, err)
		assert.Equal(t, Backend, tag)
	}

	snap, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.True(t, snap.NewestFirst)
	require.Len(t, snap.Visits, 3)
	assert.Equal(t, "v-4", snap.Visits[0].ID)
	assert.Equal(t, "v-3", snap.Visits[1].ID)
	assert.Equal(t, "v-2", snap.Visits[2].ID)
}

func TestClearIsIdempotent(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "visitors.json"), 0)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Append(ctx, domain.Visit{ID: "a"})
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	snap, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Visits)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.json")
	store, err := New(path, 0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err = store.Append(context.Background(), domain.Visit{ID: "a"})
	assert.Error(t, err)
}
