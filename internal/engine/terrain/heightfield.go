// Package terrain provides the heightfield ground that shapes are drawn on:
// height lookup, raycasting against it and a render mesh.
package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Heightfield is a regular grid of corner heights on the XZ plane starting at
// Origin. Heights are stored row-major: index z*(CellsX+1)+x.
type Heightfield struct {
	Heights  []float32
	CellsX   int
	CellsZ   int
	CellSize float32
	Origin   math.Vec2 // World (x, z) of corner (0, 0)
	Layer    ground.LayerMask
}

// NewFlat creates a heightfield of the given cell counts at constant height.
func NewFlat(cellsX, cellsZ int, cellSize, height float32) *Heightfield {
	h := &Heightfield{
		Heights:  make([]float32, (cellsX+1)*(cellsZ+1)),
		CellsX:   cellsX,
		CellsZ:   cellsZ,
		CellSize: cellSize,
		Layer:    ground.LayerGround,
	}
	for i := range h.Heights {
		h.Heights[i] = height
	}
	return h
}

// FromConfig generates rolling hills centred on the world origin.
// A zero hill height yields flat ground at y=0.
func FromConfig(cfg config.TerrainConfig) *Heightfield {
	cellsX := max(int(cfg.SizeX/cfg.CellSize), 1)
	cellsZ := max(int(cfg.SizeZ/cfg.CellSize), 1)

	h := NewFlat(cellsX, cellsZ, cfg.CellSize, 0)
	h.Origin = math.Vec2{X: -float32(cellsX) * cfg.CellSize / 2, Y: -float32(cellsZ) * cfg.CellSize / 2}

	if cfg.HillHeight == 0 {
		return h
	}
	f := cfg.HillFrequency
	for z := 0; z <= cellsZ; z++ {
		for x := 0; x <= cellsX; x++ {
			wx := h.Origin.X + float32(x)*cfg.CellSize
			wz := h.Origin.Y + float32(z)*cfg.CellSize
			v := math32.Sin(wx*f)*math32.Cos(wz*f) + 0.5*math32.Sin((wx+wz)*f*2.3)
			h.Set(x, z, v*cfg.HillHeight/1.5)
		}
	}
	return h
}

// Set assigns the height of grid corner (x, z).
func (h *Heightfield) Set(x, z int, height float32) {
	h.Heights[z*(h.CellsX+1)+x] = height
}

// Corner returns the height of grid corner (x, z).
func (h *Heightfield) Corner(x, z int) float32 {
	return h.Heights[z*(h.CellsX+1)+x]
}

// Size returns the world extent along X and Z.
func (h *Heightfield) Size() math.Vec2 {
	return math.Vec2{X: float32(h.CellsX) * h.CellSize, Y: float32(h.CellsZ) * h.CellSize}
}

// HeightRange returns the lowest and highest corner heights.
func (h *Heightfield) HeightRange() (lo, hi float32) {
	if len(h.Heights) == 0 {
		return 0, 0
	}
	lo, hi = h.Heights[0], h.Heights[0]
	for _, v := range h.Heights[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Contains reports whether (x, z) lies over the grid.
func (h *Heightfield) Contains(x, z float32) bool {
	size := h.Size()
	lx, lz := x-h.Origin.X, z-h.Origin.Y
	return lx >= 0 && lz >= 0 && lx <= size.X && lz <= size.Y
}

// cell returns the cell containing (x, z) and the fractional position in it.
func (h *Heightfield) cell(x, z float32) (cx, cz int, fx, fz float32) {
	gx := (x - h.Origin.X) / h.CellSize
	gz := (z - h.Origin.Y) / h.CellSize

	cx = min(max(int(gx), 0), h.CellsX-1)
	cz = min(max(int(gz), 0), h.CellsZ-1)

	fx = clampf(gx-float32(cx), 0, 1)
	fz = clampf(gz-float32(cz), 0, 1)
	return cx, cz, fx, fz
}

// HeightAt returns the bilinearly interpolated height at world (x, z).
// ok is false outside the grid.
func (h *Heightfield) HeightAt(x, z float32) (height float32, ok bool) {
	if !h.Contains(x, z) {
		return 0, false
	}
	cx, cz, fx, fz := h.cell(x, z)

	// Lerp along X on both Z edges of the cell, then along Z.
	near := h.Corner(cx, cz)*(1-fx) + h.Corner(cx+1, cz)*fx
	far := h.Corner(cx, cz+1)*(1-fx) + h.Corner(cx+1, cz+1)*fx
	return near*(1-fz) + far*fz, true
}

// NormalAt returns the surface normal at world (x, z) from the height
// gradient of the bilinear patch.
func (h *Heightfield) NormalAt(x, z float32) math.Vec3 {
	cx, cz, fx, fz := h.cell(x, z)

	h00 := h.Corner(cx, cz)
	h10 := h.Corner(cx+1, cz)
	h01 := h.Corner(cx, cz+1)
	h11 := h.Corner(cx+1, cz+1)

	dhdx := ((h10-h00)*(1-fz) + (h11-h01)*fz) / h.CellSize
	dhdz := ((h01-h00)*(1-fx) + (h11-h10)*fx) / h.CellSize

	return math.Vec3{X: -dhdx, Y: 1, Z: -dhdz}.Normalize()
}

// Raycast implements ground.Raycaster. Vertical rays are answered exactly;
// other rays are marched in half-cell steps and refined by bisection.
func (h *Heightfield) Raycast(ray picking.Ray, maxDistance float32, mask ground.LayerMask) (ground.Hit, bool) {
	if !mask.Has(h.Layer) {
		return ground.Hit{}, false
	}
	if ray.IsVertical() {
		return h.raycastVertical(ray, maxDistance)
	}
	return h.raycastMarch(ray, maxDistance)
}

func (h *Heightfield) raycastVertical(ray picking.Ray, maxDistance float32) (ground.Hit, bool) {
	height, ok := h.HeightAt(ray.Origin.X, ray.Origin.Z)
	if !ok {
		return ground.Hit{}, false
	}
	dist := (ray.Origin.Y - height) * -ray.Direction.Y
	if dist < 0 || dist > maxDistance {
		return ground.Hit{}, false
	}
	return h.hitAt(ray, dist), true
}

// above returns how far p is above the surface; ok is false off the grid.
func (h *Heightfield) above(p math.Vec3) (float32, bool) {
	height, ok := h.HeightAt(p.X, p.Z)
	return p.Y - height, ok
}

func (h *Heightfield) raycastMarch(ray picking.Ray, maxDistance float32) (ground.Hit, bool) {
	step := h.CellSize / 2
	prevT := float32(0)
	prevAbove, prevOK := h.above(ray.Origin)

	for t := step; t <= maxDistance+step; t += step {
		t = min(t, maxDistance)
		curAbove, ok := h.above(ray.At(t))
		if ok && prevOK && prevAbove >= 0 && curAbove <= 0 {
			lo, hi := prevT, t
			for i := 0; i < 20; i++ {
				mid := (lo + hi) / 2
				if a, _ := h.above(ray.At(mid)); a > 0 {
					lo = mid
				} else {
					hi = mid
				}
			}
			return h.hitAt(ray, hi), true
		}
		prevT, prevAbove, prevOK = t, curAbove, ok
		if t == maxDistance {
			break
		}
	}
	return ground.Hit{}, false
}

func (h *Heightfield) hitAt(ray picking.Ray, dist float32) ground.Hit {
	p := ray.At(dist)
	if height, ok := h.HeightAt(p.X, p.Z); ok {
		p.Y = height
	}
	return ground.Hit{
		Point:    p,
		Normal:   h.NormalAt(p.X, p.Z),
		Distance: dist,
		Layer:    h.Layer,
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
