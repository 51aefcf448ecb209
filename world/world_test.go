package world

import "testing"

func TestChunkPosPackRoundTrip(t *testing.T) {
	cases := []ChunkPos{
		{0, 0},
		{1, 1},
		{-1, -1},
		{1000000, -1000000},
		{-2147483648, 2147483647},
	}
	for _, p := range cases {
		got := Unpack(p.Pack())
		if got != p {
			t.Fatalf("Pack/Unpack round trip failed: got %v, want %v", got, p)
		}
	}
}

func TestChunkOf(t *testing.T) {
	tests := []struct {
		x, z int32
		want ChunkPos
	}{
		{0, 0, ChunkPos{0, 0}},
		{15, 15, ChunkPos{0, 0}},
		{16, 0, ChunkPos{1, 0}},
		{-1, 0, ChunkPos{-1, 0}},
		{-16, 0, ChunkPos{-1, 0}},
		{-17, 0, ChunkPos{-2, 0}},
	}
	for _, tt := range tests {
		if got := ChunkOf(tt.x, tt.z); got != tt.want {
			t.Errorf("ChunkOf(%d,_) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestLocal(t *testing.T) {
	tests := []struct {
		v    int32
		want uint8
	}{
		{0, 0}, {15, 15}, {16, 0}, {-1, 15}, {-16, 0}, {-17, 15},
	}
	for _, tt := range tests {
		if got := Local(tt.v); got != tt.want {
			t.Errorf("Local(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestIndexPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range local coordinate")
		}
	}()
	Index(16, 0, 0)
}

func TestResidentSetInsertGetRemove(t *testing.T) {
	rs := NewResidentSet(4)
	pos := ChunkPos{3, -4}
	c := NewChunk(pos)
	rs.Insert(c)

	got, ok := rs.Get(pos)
	if !ok || got != c {
		t.Fatalf("Get after Insert failed: ok=%v got=%v", ok, got)
	}
	if rs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rs.Len())
	}

	removed, ok := rs.Remove(pos)
	if !ok || removed != c {
		t.Fatalf("Remove failed: ok=%v", ok)
	}
	if rs.Len() != 0 {
		t.Fatalf("Len() after Remove = %d, want 0", rs.Len())
	}
	if _, ok := rs.Get(pos); ok {
		t.Fatal("Get after Remove should report absent")
	}
}

func TestResidentSetSlotReuse(t *testing.T) {
	rs := NewResidentSet(4)
	a := NewChunk(ChunkPos{0, 0})
	b := NewChunk(ChunkPos{1, 0})
	rs.Insert(a)
	rs.Remove(ChunkPos{0, 0})
	rs.Insert(b)
	if rs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rs.Len())
	}
	got, ok := rs.Get(ChunkPos{1, 0})
	if !ok || got != b {
		t.Fatal("slot reuse broke lookup for newly inserted chunk")
	}
}
