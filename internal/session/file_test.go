package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/loginhub/pkg/model"
)

func TestFileScope_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	scope := NewFileScope(path)
	ctx := context.Background()

	_, ok, err := scope.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, scope.Set(ctx, "a", "1"))
	require.NoError(t, scope.Set(ctx, "b", "2"))

	v, ok, err := scope.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second scope over the same file observes the writes.
	other := NewFileScope(path)
	v, ok, err = other.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestFileScope_DeleteLastKeyRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tab.json")
	scope := NewFileScope(path)
	ctx := context.Background()

	require.NoError(t, scope.Set(ctx, KeyMaster, "true"))
	require.NoError(t, scope.Delete(ctx, KeyMaster))
	require.NoError(t, scope.Delete(ctx, KeyMaster))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileScope_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	scope := NewFileScope(path)
	ctx := context.Background()

	_, ok, err := scope.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, scope.Set(ctx, KeyToken, "abc123"))
	v, _, err := scope.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)
}

func TestStore_OverFileScopesSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st := NewStore(NewFileScope(filepath.Join(dir, "session.json")), NewFileScope(filepath.Join(dir, "tab.json")), testLogger())
	require.NoError(t, st.Write(ctx, tenantSession("abc123", "u1", "c1")))

	reopened := NewStore(NewFileScope(filepath.Join(dir, "session.json")), NewFileScope(filepath.Join(dir, "tab.json")), testLogger())
	sess, err := reopened.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierTenantUser, sess.Tier)
	assert.Equal(t, "abc123", sess.Token)
}
