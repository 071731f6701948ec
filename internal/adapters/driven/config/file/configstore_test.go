package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("export.output_dir", "out"))
	require.NoError(t, store.Set("export.workers", 4))
	require.NoError(t, store.Set("decode.top_crop_fraction", 0.4))
	require.NoError(t, store.Set("decode.try_harder", false))

	assert.Equal(t, "out", store.GetString("export.output_dir"))
	assert.Equal(t, 4, store.GetInt("export.workers"))
	assert.Equal(t, 0.4, store.GetFloat("decode.top_crop_fraction"))
	assert.Equal(t, 4.0, store.GetFloat("export.workers"))
	assert.False(t, store.GetBool("decode.try_harder"))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("export.output_dir"))
	assert.Equal(t, 0.0, store.GetFloat("export.output_dir"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("decode.binarize_threshold", 128))
	require.NoError(t, store.Set("decode.contrast_percent", 200.0))
	require.NoError(t, store.Set("export.output_dir", "/tmp/out"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[decode]")
	assert.Contains(t, string(raw), "binarize_threshold = 128")
	assert.Contains(t, string(raw), "[export]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 128, reloaded.GetInt("decode.binarize_threshold"))
	assert.Equal(t, 200.0, reloaded.GetFloat("decode.contrast_percent"))
	assert.Equal(t, "/tmp/out", reloaded.GetString("export.output_dir"))
}

func TestConfigStore_Load_HandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[decode]\ntop_crop_fraction = 0.45\nbinarize_threshold = 128\ntry_harder = false\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 0.45, store.GetFloat("decode.top_crop_fraction"))
	assert.Equal(t, 128, store.GetInt("decode.binarize_threshold"))
	v, ok := store.Get("decode.try_harder")
	assert.True(t, ok)
	assert.Equal(t, false, v)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[decode\nbroken"), 0o600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("export.workers", n+1)
			_ = store.GetInt("export.workers")
		}(i)
	}
	wg.Wait()

	assert.Positive(t, store.GetInt("export.workers"))
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"decode": map[string]any{"binarize_threshold": int64(140), "try_harder": true},
		"top":    "level",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{
		"decode.binarize_threshold": int64(140),
		"decode.try_harder":         true,
		"top":                       "level",
	}, flat)

	assert.Equal(t, nested, nestMap(flat))
}

func TestNestMap_Conflict(t *testing.T) {
	flat := map[string]any{"a": 1, "a.b": 2}
	out := nestMap(flat)

	// the value wins the table slot and the child keeps its dotted key
	assert.Len(t, out, 2)
	assert.Contains(t, out, "a.b")
}

func TestNewConfigStore_EnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qrdoc")
	t.Setenv(EnvConfigDir, dir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetRollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("export.workers", 2))

	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, store.Set("export.workers", 8))
	assert.Error(t, store.Set("export.output_dir", "out"))
	assert.Equal(t, 2, store.GetInt("export.workers"))
	_, ok := store.Get("export.output_dir")
	assert.False(t, ok)
}

func TestConfigStore_GetInt_WholeFloats(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("whole", 1200.0))
	require.NoError(t, store.Set("fraction", 0.5))

	assert.Equal(t, 1200, store.GetInt("whole"))
	assert.Equal(t, 0, store.GetInt("fraction"))
}
