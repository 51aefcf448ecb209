package stream

import (
	"path/filepath"
	"testing"
)

func TestConfigNewFillsDefaults(t *testing.T) {
	c := Config{}.New()
	if c.Log == nil {
		t.Fatal("Log should default to slog.Default()")
	}
	if c.RenderRadius <= 0 || c.IOWorkers <= 0 || c.GenWorkers <= 0 || c.MeshWorkers <= 0 {
		t.Fatalf("pool/radius defaults not filled: %+v", c)
	}
	if c.MaxLoadedChunks <= 0 || c.MaxLoadedChunks > 2500 {
		t.Fatalf("MaxLoadedChunks out of bounds: %d", c.MaxLoadedChunks)
	}
	if c.FocalPoint == nil || c.CreateMesh == nil || c.DisposeMesh == nil {
		t.Fatal("callback defaults should be filled with no-ops")
	}
}

func TestConfigNewRespectsMaxLoadedChunksCap(t *testing.T) {
	c := Config{RenderRadius: 1000}.New()
	if c.MaxLoadedChunks != 2500 {
		t.Fatalf("MaxLoadedChunks = %d, want capped at 2500", c.MaxLoadedChunks)
	}
}

func TestUserConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worldcore.toml")

	uc := DefaultUserConfig()
	uc.World.Seed = 42
	uc.Streaming.RenderDistance = 10

	if err := uc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadUserConfig(path)
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}
	if got.World.Seed != 42 || got.Streaming.RenderDistance != 10 {
		t.Fatalf("round-tripped config = %+v", got)
	}
}

func TestLoadUserConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	uc, err := LoadUserConfig(filepath.Join(dir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadUserConfig on a missing file should not error: %v", err)
	}
	if uc.Streaming.RenderDistance != DefaultUserConfig().Streaming.RenderDistance {
		t.Fatalf("expected defaults, got %+v", uc)
	}
}

func TestUserConfigConfigFillsBlankFields(t *testing.T) {
	var uc UserConfig
	c, err := uc.Config(nil)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if c.SaveDir == "" || c.RenderRadius <= 0 {
		t.Fatalf("Config() should fall back to defaults for blank fields: %+v", c)
	}
}
