package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborix-labs/statetrie/internal/log"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader() *Loader {
	return NewLoader(log.New(log.NewTerminalHandler()))
}

func TestLoadDefaultsToMemoryBackend(t *testing.T) {
	path := writeConfig(t, "store: {}\n")
	cfg, err := newTestLoader().Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadBadgerRequiresPath(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: badger\n")
	_, err := newTestLoader().Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: redis\n")
	_, err := newTestLoader().Load(path)
	require.Error(t, err)
}

func TestLoadParsesSeedEntries(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: memory
seed:
  - key: "6b6579"
    value: "76616c7565"
`)
	cfg, err := newTestLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Seed, 1)
	require.Equal(t, "6b6579", cfg.Seed[0].Key)
	require.Equal(t, "76616c7565", cfg.Seed[0].Value)
}

func TestLoadRejectsSeedEntryMissingKey(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: memory
seed:
  - value: "76616c7565"
`)
	_, err := newTestLoader().Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := newTestLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
