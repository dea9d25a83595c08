package terrain

import (
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// BuildMesh creates a render mesh of the heightfield. Vertices are shared
// between cells so RecalculateNormals yields smooth shading across tiles.
// UVs repeat once per tileRepeat cells.
func BuildMesh(h *Heightfield, tileRepeat int) *mesh.Mesh {
	tileRepeat = max(tileRepeat, 1)
	origin := math.Vec3{X: h.Origin.X, Z: h.Origin.Y}
	m := mesh.New(origin, (h.CellsX+1)*(h.CellsZ+1), h.CellsX*h.CellsZ*2)

	for z := 0; z <= h.CellsZ; z++ {
		for x := 0; x <= h.CellsX; x++ {
			world := math.Vec3{
				X: h.Origin.X + float32(x)*h.CellSize,
				Y: h.Corner(x, z),
				Z: h.Origin.Y + float32(z)*h.CellSize,
			}
			uv := math.Vec2{X: float32(x) / float32(tileRepeat), Y: float32(z) / float32(tileRepeat)}
			m.AddVertex(world, uv)
		}
	}

	row := uint32(h.CellsX + 1)
	for z := 0; z < h.CellsZ; z++ {
		for x := 0; x < h.CellsX; x++ {
			i00 := uint32(z)*row + uint32(x)
			i10 := i00 + 1
			i01 := i00 + row
			i11 := i01 + 1

			// Two triangles per cell, both facing up.
			m.AddTriangle(i00, i01, i10, false)
			m.AddTriangle(i10, i01, i11, false)
		}
	}

	m.Finish()
	return m
}
