package region

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/ashgrove-voxel/worldcore/world"
)

type headerEntry struct {
	offset uint32
	length uint32
}

// File is one open region file: ChunksPerAxis² chunk slots, each either
// empty (zero length) or pointing at a DEFLATE-compressed blob in the
// payload area following the header.
type File struct {
	mu      sync.Mutex
	path    string
	entries [EntriesPerRegion]headerEntry
	payload []byte // the file's bytes after HeaderSize, kept in memory between writes
}

// Open reads an existing region file, or returns an empty in-memory File
// ready to be populated if path does not exist yet (spec §4.7 does not
// require region files to be pre-created).
func Open(path string) (*File, error) {
	f := &File{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("region: %s: truncated header (%d bytes)", path, len(raw))
	}
	for i := 0; i < EntriesPerRegion; i++ {
		off := i * 8
		f.entries[i] = headerEntry{
			offset: beUint32(raw[off:]),
			length: beUint32(raw[off+4:]),
		}
	}
	f.payload = raw[HeaderSize:]
	return f, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBeUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// ReadChunk returns the chunk at pos if the region file has it resident.
func (f *File) ReadChunk(pos world.ChunkPos) (*world.Chunk, bool, error) {
	_, slot := Of(pos)
	f.mu.Lock()
	defer f.mu.Unlock()

	e := f.entries[slot]
	if e.length == 0 {
		return nil, false, nil
	}
	start := int(e.offset)
	end := start + int(e.length)
	if start < 0 || end > len(f.payload) {
		return nil, false, fmt.Errorf("region: %s: slot %d points outside payload", f.path, slot)
	}

	raw, err := inflate(f.payload[start:end])
	if err != nil {
		return nil, false, fmt.Errorf("region: %s: slot %d: %w", f.path, slot, err)
	}
	blobPos, blocks, light, err := decodeChunkBlob(raw)
	if err != nil {
		return nil, false, err
	}
	if blobPos != pos {
		return nil, false, fmt.Errorf("%w: slot %d holds chunk %+v, expected %+v", ErrBadBlob, slot, blobPos, pos)
	}

	c := world.NewChunk(pos)
	c.FillBlocks(&blocks)
	c.FillLight(&light)
	return c, true, nil
}

// WriteChunk saves c into the region file, rewriting the file as a whole
// (spec §4.7 "Write policy" explicitly tolerates this). The new file is
// written to a temporary path and renamed into place, so a crash mid-write
// leaves the previous, still-valid file untouched (atomicity at the file
// level, per spec §4.7).
func (f *File) WriteChunk(c *world.Chunk) error {
	_, slot := Of(c.Pos)

	f.mu.Lock()
	defer f.mu.Unlock()

	blocks := c.SnapshotBlocks()
	light := c.SnapshotLight()
	raw := encodeChunkBlob(c.Pos, &blocks, &light)
	compressed, err := deflate(raw)
	if err != nil {
		return fmt.Errorf("region: compress chunk %+v: %w", c.Pos, err)
	}

	newPayload := make([]byte, 0, len(f.payload)+len(compressed))
	newEntries := f.entries
	for i := range newEntries {
		if i == slot {
			continue
		}
		e := f.entries[i]
		if e.length == 0 {
			continue
		}
		start := int(e.offset)
		end := start + int(e.length)
		if start < 0 || end > len(f.payload) {
			continue
		}
		newEntries[i] = headerEntry{offset: uint32(len(newPayload)), length: e.length}
		newPayload = append(newPayload, f.payload[start:end]...)
	}
	newEntries[slot] = headerEntry{offset: uint32(len(newPayload)), length: uint32(len(compressed))}
	newPayload = append(newPayload, compressed...)

	if err := f.writeFile(newEntries, newPayload); err != nil {
		return err
	}
	f.entries = newEntries
	f.payload = newPayload
	return nil
}

func (f *File) writeFile(entries [EntriesPerRegion]headerEntry, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("region: mkdir for %s: %w", f.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".region-*.tmp")
	if err != nil {
		return fmt.Errorf("region: create temp file for %s: %w", f.path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var header [HeaderSize]byte
	for i, e := range entries {
		putBeUint32(header[i*8:], e.offset)
		putBeUint32(header[i*8+4:], e.length)
	}
	if _, err := tmp.Write(header[:]); err != nil {
		tmp.Close()
		return fmt.Errorf("region: write header to %s: %w", tmpPath, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("region: write payload to %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("region: sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("region: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("region: rename %s to %s: %w", tmpPath, f.path, err)
	}
	return nil
}

func deflate(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	return io.ReadAll(r)
}
