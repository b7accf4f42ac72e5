// internal/catalog/store_test.go
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialogue-workers/internal/common/logger"
)

func TestStore_GetSwap(t *testing.T) {
	store := NewStore(nil)
	assert.Zero(t, store.Get().RuleCount())

	next := New([]DependencyRule{{Domain: "weather", Intent: "query"}}, nil)
	store.Swap(next)
	assert.Equal(t, 1, store.Get().RuleCount())

	store.Swap(nil)
	assert.Zero(t, store.Get().RuleCount())
}

func TestStore_Watch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "dependency.json")
	templatesPath := filepath.Join(dir, "templates.json")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(templatesPath, []byte(`[]`), 0644))

	store := NewStore(LoadFiles(rulesPath, templatesPath, logger.NewTestLogger(t)))
	require.Zero(t, store.Get().RuleCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, rulesPath, templatesPath, logger.NewNoOpLogger())
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(rulesPath,
		[]byte(`[{"domain":"weather","intent":"query","slots":{}}]`), 0644))

	require.Eventually(t, func() bool {
		return store.Get().RuleCount() == 1
	}, 3*time.Second, 50*time.Millisecond, "snapshot not swapped after file write")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStore_Watch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "dependency.json")
	templatesPath := filepath.Join(dir, "templates.json")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(templatesPath, []byte(`[]`), 0644))

	store := NewStore(LoadFiles(rulesPath, templatesPath, logger.NewNoOpLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx, rulesPath, templatesPath, logger.NewNoOpLogger())

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"),
		[]byte(`[{"domain":"x","intent":"y","slots":{}}]`), 0644))

	time.Sleep(500 * time.Millisecond)
	assert.Zero(t, store.Get().RuleCount())
}
