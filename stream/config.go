package stream

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/ashgrove-voxel/worldcore/world"
)

// FocalPointFunc is queried once per tick for the streaming centre (spec
// §6, "focal_point() -> (f32,f32,f32)"); only X and Z drive streaming.
type FocalPointFunc func() (x, y, z float32)

// CreateMeshFunc hands raw vertex/index data to the external renderer and
// gets back an opaque handle (spec §6, "gpu_create_mesh"). Called only
// from the main thread's upload step.
type CreateMeshFunc func(vertices []float32, indices []uint32, vertexSize int) world.MeshHandle

// DisposeMeshFunc releases a handle previously returned by CreateMeshFunc
// (spec §6, "gpu_dispose_mesh").
type DisposeMeshFunc func(handle world.MeshHandle)

// Config is the programmatic configuration a Manager is built from
// directly, mirroring the teacher's Config/UserConfig split: Config.New
// fills in any zero-valued field with its default, exactly like
// server.Config.New().
type Config struct {
	// Log receives structured diagnostics. Defaults to slog.Default().
	Log *slog.Logger

	// Seed is the world seed driving generation (spec §6, "world_seed()").
	Seed uint64
	// SaveDir is the directory holding region files and generator.lock
	// (spec §6, "save_directory()").
	SaveDir string

	// RenderRadius is the streaming radius, in chunks, around the focal
	// point.
	RenderRadius int
	// UnloadMargin extends RenderRadius to get the eviction distance
	// (spec §4.8: "unload_distance = render_radius + 2").
	UnloadMargin int

	// IOWorkers, GenWorkers and MeshWorkers size the three pools (spec
	// §4.8 "Thread pools").
	IOWorkers   int
	GenWorkers  int
	MeshWorkers int

	// IOQueueSize, GenQueueSize and MeshQueueSize bound each pool's job
	// channel.
	IOQueueSize   int
	GenQueueSize  int
	MeshQueueSize int

	// NearBudget and FarBudget bound how many unresident slots are
	// dispatched per tick by the spiral scan (spec §4.8 step 2).
	NearBudget int
	FarBudget  int

	// UploadBudget bounds how many completed meshes are uploaded to the
	// GPU per tick (spec §4.8 step 4).
	UploadBudget int

	// LODReassignInterval is how many ticks pass between LOD reassignment
	// sweeps (spec §4.8 step 5: "amortized: e.g. every 15 frames").
	LODReassignInterval int

	// DirtyMeshBudget bounds how many mesh rebuilds are queued per tick
	// from the fluid/lighting dirty sets (spec §4.8 step 7).
	DirtyMeshBudget int

	// MaxLoadedChunks caps resident chunk count before eviction kicks in
	// regardless of distance (spec §4.8 step 6).
	MaxLoadedChunks int

	FocalPoint  FocalPointFunc
	CreateMesh  CreateMeshFunc
	DisposeMesh DisposeMeshFunc
}

// New returns a copy of c with every zero-valued tunable filled in, the
// same shape as the teacher's Config.New().
func (c Config) New() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.SaveDir == "" {
		c.SaveDir = "world"
	}
	if c.RenderRadius <= 0 {
		c.RenderRadius = 8
	}
	if c.UnloadMargin <= 0 {
		c.UnloadMargin = 2
	}
	if c.IOWorkers <= 0 {
		c.IOWorkers = 3
	}
	if c.GenWorkers <= 0 {
		c.GenWorkers = 4
	}
	if c.MeshWorkers <= 0 {
		c.MeshWorkers = 3
	}
	if c.IOQueueSize <= 0 {
		c.IOQueueSize = 64
	}
	if c.GenQueueSize <= 0 {
		c.GenQueueSize = 64
	}
	if c.MeshQueueSize <= 0 {
		c.MeshQueueSize = 64
	}
	if c.NearBudget <= 0 {
		c.NearBudget = 4
	}
	if c.FarBudget <= 0 {
		c.FarBudget = 6
	}
	if c.UploadBudget <= 0 {
		c.UploadBudget = 8
	}
	if c.LODReassignInterval <= 0 {
		c.LODReassignInterval = 15
	}
	if c.DirtyMeshBudget <= 0 {
		c.DirtyMeshBudget = 4
	}
	if c.MaxLoadedChunks <= 0 {
		// (spec §4.8 step 6): "π · r² · 1.1, cap 2500".
		area := 3.14159265 * float64(c.RenderRadius) * float64(c.RenderRadius) * 1.1
		c.MaxLoadedChunks = int(area)
		if c.MaxLoadedChunks > 2500 {
			c.MaxLoadedChunks = 2500
		}
		if c.MaxLoadedChunks < 64 {
			c.MaxLoadedChunks = 64
		}
	}
	if c.FocalPoint == nil {
		c.FocalPoint = func() (float32, float32, float32) { return 0, 0, 0 }
	}
	if c.CreateMesh == nil {
		c.CreateMesh = func([]float32, []uint32, int) world.MeshHandle { return nil }
	}
	if c.DisposeMesh == nil {
		c.DisposeMesh = func(world.MeshHandle) {}
	}
	return c
}

func (c Config) unloadDistance() int {
	return c.RenderRadius + c.UnloadMargin
}

// UserConfig is the TOML-serialisable layer, mirroring the teacher's
// UserConfig/Config split (server/conf.go): nested sections group related
// settings, and Config() converts the decoded file into the programmatic
// Config above. A blank save directory or render distance is defaulted
// with a logged warning; other blank fields are filled silently by
// Config.New().
type UserConfig struct {
	World struct {
		Seed    int64
		SaveDir string
	}
	Streaming struct {
		RenderDistance int
		UnloadMargin   int
	}
	Performance struct {
		IOWorkers   int
		GenWorkers  int
		MeshWorkers int
	}
}

// DefaultUserConfig returns a UserConfig with every field set to the value
// Config.New() would otherwise have defaulted to, suitable as a starting
// point for a worldcore.toml written out for an operator to edit.
func DefaultUserConfig() UserConfig {
	var uc UserConfig
	uc.World.SaveDir = "world"
	uc.Streaming.RenderDistance = 8
	uc.Streaming.UnloadMargin = 2
	uc.Performance.IOWorkers = 3
	uc.Performance.GenWorkers = 4
	uc.Performance.MeshWorkers = 3
	return uc
}

// LoadUserConfig reads and decodes a worldcore.toml file at path. A missing
// file is not an error: the caller gets DefaultUserConfig back.
func LoadUserConfig(path string) (UserConfig, error) {
	uc := DefaultUserConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return uc, nil
		}
		return uc, fmt.Errorf("stream: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &uc); err != nil {
		return uc, fmt.Errorf("stream: decode %s: %w", path, err)
	}
	return uc, nil
}

// Save writes uc out as TOML, for an operator-editable worldcore.toml.
func (uc UserConfig) Save(path string) error {
	raw, err := toml.Marshal(uc)
	if err != nil {
		return fmt.Errorf("stream: encode user config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("stream: write %s: %w", path, err)
	}
	return nil
}

// Config converts the decoded file into a programmatic Config, following
// the pattern of the teacher's UserConfig.Config(log). It logs a warning
// when it defaults the save directory or the render distance; any other
// zero field is left for Config.New() to fill without a log line.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	var c Config
	c.Log = log

	if uc.World.SaveDir == "" {
		log.Warn("no save directory configured, defaulting", "dir", "world")
		uc.World.SaveDir = "world"
	}
	c.SaveDir = uc.World.SaveDir
	c.Seed = uint64(uc.World.Seed)

	if uc.Streaming.RenderDistance <= 0 {
		log.Warn("no render distance configured, defaulting", "chunks", 8)
		uc.Streaming.RenderDistance = 8
	}
	c.RenderRadius = uc.Streaming.RenderDistance
	if uc.Streaming.UnloadMargin <= 0 {
		uc.Streaming.UnloadMargin = 2
	}
	c.UnloadMargin = uc.Streaming.UnloadMargin

	c.IOWorkers = uc.Performance.IOWorkers
	c.GenWorkers = uc.Performance.GenWorkers
	c.MeshWorkers = uc.Performance.MeshWorkers

	return c.New(), nil
}
