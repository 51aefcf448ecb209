package worldgen

import "github.com/ashgrove-voxel/worldcore/world"

// surfaceTop returns the y of the topmost non-air block in the column
// (x, z) of c, or -1 if the column is entirely air.
func surfaceTop(c *world.Chunk, x, z uint8) int {
	for y := world.WorldHeight - 1; y >= 0; y-- {
		if c.GetBlock(x, uint8(y), z) != world.Air {
			return y
		}
	}
	return -1
}
