package stream

import "testing"

// TestLODHysteresis exercises spec §8's LOD hysteresis property law: a
// chunk oscillating near a threshold should not flip tiers unless the
// distance crosses the threshold by at least 2.
func TestLODHysteresis(t *testing.T) {
	tests := []struct {
		name    string
		dist    int
		current int
		want    int
	}{
		{"downgrade applies immediately", 13, 0, 1},
		{"upgrade blocked just past the boundary", 11, 1, 1},
		{"upgrade allowed well inside the boundary", 9, 1, 0},
		{"no change when already correct", 5, 0, 0},
		{"big jump downgrade applies immediately", 50, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lodFor(tt.dist, tt.current)
			if got != tt.want {
				t.Fatalf("lodFor(%d, %d) = %d, want %d", tt.dist, tt.current, got, tt.want)
			}
		})
	}
}
