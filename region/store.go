package region

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ashgrove-voxel/worldcore/world"
)

// Store owns one save directory's open region files, keyed by region
// position, loading a region file lazily on first access (spec §4.8's
// io_pool calls Load/Save through this type).
type Store struct {
	dir string

	mu    sync.Mutex
	files map[Pos]*File
}

// NewStore returns a Store rooted at dir. It does not itself check the
// generator lock; callers open that separately via OpenGeneratorLock
// before trusting this store's contents.
func NewStore(dir string) *Store {
	return &Store{dir: dir, files: make(map[Pos]*File)}
}

func (s *Store) fileFor(pos world.ChunkPos) (*File, int, error) {
	regionPos, slot := Of(pos)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[regionPos]
	if ok {
		return f, slot, nil
	}
	f, err := Open(filepath.Join(s.dir, regionPos.FileName()))
	if err != nil {
		return nil, 0, fmt.Errorf("region: open region for chunk %+v: %w", pos, err)
	}
	s.files[regionPos] = f
	return f, slot, nil
}

// Load returns the chunk at pos if its region file has it, or (nil,
// false, nil) if the save simply has nothing there yet.
func (s *Store) Load(pos world.ChunkPos) (*world.Chunk, bool, error) {
	f, _, err := s.fileFor(pos)
	if err != nil {
		return nil, false, err
	}
	return f.ReadChunk(pos)
}

// Save persists c to its region file.
func (s *Store) Save(c *world.Chunk) error {
	f, _, err := s.fileFor(c.Pos)
	if err != nil {
		return err
	}
	return f.WriteChunk(c)
}
