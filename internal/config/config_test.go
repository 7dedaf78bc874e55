package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markview/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := &service{filePath: filepath.Join(t.TempDir(), "config.toml")}

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := &service{filePath: path}

	cfg := DefaultConfig()
	cfg.BaseDir = "/srv/docs"
	cfg.DebounceMS = 250
	cfg.UISettings.WrapWidth = 80
	cfg.UISettings.AutoReload = false

	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	svc := &service{filePath: path}
	_, err := svc.Load()
	require.Error(t, err)
}

func TestLoadAndSaveAnnounceOnBus(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	var mu sync.Mutex
	var loaded, saved []string
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ConfigLoadedEvent); ok {
			mu.Lock()
			loaded = append(loaded, ev.Path)
			mu.Unlock()
		}
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ConfigSavedEvent); ok {
			mu.Lock()
			saved = append(saved, ev.Path)
			mu.Unlock()
		}
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := &service{filePath: path, bus: bus}

	_, err := svc.Load()
	require.NoError(t, err)
	require.NoError(t, svc.Save(DefaultConfig()))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(loaded) == 1 && len(saved) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, []string{path}, saved)
}

func TestLoadFillsEmptyPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\ninclude_patterns = []\n"), 0644))

	svc := &service{filePath: path}
	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.IncludePatterns, "empty pattern list falls back to defaults")
}
