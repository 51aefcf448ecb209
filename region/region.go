// Package region implements the on-disk persistence layer (C7, spec
// §4.7): one region file per 32×32 chunk area, an 8 KB header of
// (offset, length) entries, and DEFLATE-compressed chunk blobs.
package region

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ashgrove-voxel/worldcore/internal/mathutil"
	"github.com/ashgrove-voxel/worldcore/world"
)

const (
	// ChunksPerAxis is the side length, in chunks, of one region.
	ChunksPerAxis = 32
	// EntriesPerRegion is ChunksPerAxis squared: one header entry per chunk slot.
	EntriesPerRegion = ChunksPerAxis * ChunksPerAxis
	// HeaderSize is the fixed byte size of the region header: 8 bytes
	// (u32 offset, u32 length) per entry.
	HeaderSize = EntriesPerRegion * 8

	chunkBlobMagic   uint32 = 0x43484E4B // "CHNK"
	chunkBlobVersion uint8  = 1
)

// FormatVersion is this repository's current save-format version. No
// version is written to or read from a save directory, so nothing in this
// package compares a save against it.
const FormatVersion = 1

// MinSupportedFormatVersion and MaxSupportedFormatVersion name the range of
// save-format versions this code supports. No loader checks a save
// against them.
const (
	MinSupportedFormatVersion = 1
	MaxSupportedFormatVersion = 1
)

// ErrUnsupportedFormatVersion names a save format version outside
// [MinSupportedFormatVersion, MaxSupportedFormatVersion]. No function in
// this package returns it.
var ErrUnsupportedFormatVersion = errors.New("region: unsupported save format version")

// ErrBadBlob is returned by blob decoding when the magic, version, or
// declared lengths do not match what the reader expects (spec §4.7:
// "Reader must reject mismatched magic, unknown version, or wrong
// lengths").
var ErrBadBlob = errors.New("region: malformed chunk blob")

// Pos identifies a region by its grid coordinates, in units of
// ChunksPerAxis chunks.
type Pos struct {
	X, Z int32
}

// Of returns the region containing a chunk position, and that chunk's
// local (row-major) slot index within the region's header.
func Of(cp world.ChunkPos) (Pos, int) {
	rx, lx := mathutil.FloorDiv(cp.X, ChunksPerAxis), mathutil.Mod(cp.X, ChunksPerAxis)
	rz, lz := mathutil.FloorDiv(cp.Z, ChunksPerAxis), mathutil.Mod(cp.Z, ChunksPerAxis)
	return Pos{X: rx, Z: rz}, int(lz)*ChunksPerAxis + int(lx)
}

// FileName returns the conventional on-disk name for a region file.
func (p Pos) FileName() string {
	return fmt.Sprintf("r.%d.%d.region", p.X, p.Z)
}

// encodeChunkBlob serialises a chunk's blocks and light arrays into the
// pre-compression wire format of spec §4.7.
func encodeChunkBlob(pos world.ChunkPos, blocks, light *[world.ChunkVolume]byte) []byte {
	buf := make([]byte, 4+1+4+4+4+world.ChunkVolume+4+world.ChunkVolume)
	o := 0
	binary.BigEndian.PutUint32(buf[o:], chunkBlobMagic)
	o += 4
	buf[o] = chunkBlobVersion
	o++
	binary.BigEndian.PutUint32(buf[o:], uint32(pos.X))
	o += 4
	binary.BigEndian.PutUint32(buf[o:], uint32(pos.Z))
	o += 4
	binary.BigEndian.PutUint32(buf[o:], uint32(world.ChunkVolume))
	o += 4
	copy(buf[o:], blocks[:])
	o += world.ChunkVolume
	binary.BigEndian.PutUint32(buf[o:], uint32(world.ChunkVolume))
	o += 4
	copy(buf[o:], light[:])
	return buf
}

// decodeChunkBlob parses and validates the pre-compression wire format,
// returning the chunk position and its block/light arrays.
func decodeChunkBlob(buf []byte) (world.ChunkPos, [world.ChunkVolume]byte, [world.ChunkVolume]byte, error) {
	var blocks, light [world.ChunkVolume]byte
	const headerLen = 4 + 1 + 4 + 4 + 4
	if len(buf) < headerLen {
		return world.ChunkPos{}, blocks, light, fmt.Errorf("%w: truncated header", ErrBadBlob)
	}
	o := 0
	magic := binary.BigEndian.Uint32(buf[o:])
	o += 4
	if magic != chunkBlobMagic {
		return world.ChunkPos{}, blocks, light, fmt.Errorf("%w: bad magic %#x", ErrBadBlob, magic)
	}
	version := buf[o]
	o++
	if version != chunkBlobVersion {
		return world.ChunkPos{}, blocks, light, fmt.Errorf("%w: unknown blob version %d", ErrBadBlob, version)
	}
	cx := int32(binary.BigEndian.Uint32(buf[o:]))
	o += 4
	cz := int32(binary.BigEndian.Uint32(buf[o:]))
	o += 4
	blockLen := binary.BigEndian.Uint32(buf[o:])
	o += 4
	if blockLen != world.ChunkVolume || len(buf) < o+world.ChunkVolume+4 {
		return world.ChunkPos{}, blocks, light, fmt.Errorf("%w: bad block length %d", ErrBadBlob, blockLen)
	}
	copy(blocks[:], buf[o:o+world.ChunkVolume])
	o += world.ChunkVolume
	lightLen := binary.BigEndian.Uint32(buf[o:])
	o += 4
	if lightLen != world.ChunkVolume || len(buf) < o+world.ChunkVolume {
		return world.ChunkPos{}, blocks, light, fmt.Errorf("%w: bad light length %d", ErrBadBlob, lightLen)
	}
	copy(light[:], buf[o:o+world.ChunkVolume])
	return world.ChunkPos{X: cx, Z: cz}, blocks, light, nil
}
