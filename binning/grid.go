/*package binning deposits SPH particle quantities onto regular 2D and 3D
pixel grids, conserving the deposited quantity even when a particle's kernel
support is truncated by the grid edge or by the pixel resolution.
*/
package binning

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrid reports a malformed grid or spectrum specification:
	// non-positive pixel counts or extents, or mismatched array lengths.
	ErrInvalidGrid = errors.New("invalid grid specification")
	// ErrInvalidParticle reports a particle with a non-positive smoothing
	// length.
	ErrInvalidParticle = errors.New("invalid particle")
)

// Grid is a regular Dim-dimensional pixel grid over an axis-aligned box.
// Axis k spans [Origin[k], Origin[k]+Span[k]) divided into Pixels[k] equal
// cells; entries at indices >= Dim are ignored. Vals stores one accumulator
// per cell in row-major order with the last axis varying fastest.
type Grid struct {
	Dim    int
	Origin [3]float64
	Span   [3]float64
	Pixels [3]int
	Vals   []float64
}

// NewGrid allocates a zeroed grid and validates its geometry.
func NewGrid(dim int, origin, span [3]float64, pixels [3]int) (*Grid, error) {
	g := &Grid{Dim: dim, Origin: origin, Span: span, Pixels: pixels}
	if err := g.validateGeometry(); err != nil { return nil, err }
	g.Vals = make([]float64, g.Cells())
	return g, nil
}

func (g *Grid) validateGeometry() error {
	if g.Dim < 1 || g.Dim > 3 {
		return fmt.Errorf("%w: dimension %d not in {1, 2, 3}",
			ErrInvalidGrid, g.Dim)
	}
	for k := 0; k < g.Dim; k++ {
		if g.Pixels[k] <= 0 {
			return fmt.Errorf("%w: %d pixels on axis %d",
				ErrInvalidGrid, g.Pixels[k], k)
		}
		if g.Span[k] <= 0 {
			return fmt.Errorf("%w: span %g on axis %d",
				ErrInvalidGrid, g.Span[k], k)
		}
	}
	return nil
}

func (g *Grid) validate() error {
	if err := g.validateGeometry(); err != nil { return err }
	if len(g.Vals) != g.Cells() {
		return fmt.Errorf("%w: %d cells in value array, geometry needs %d",
			ErrInvalidGrid, len(g.Vals), g.Cells())
	}
	return nil
}

// Cells returns the total number of grid cells.
func (g *Grid) Cells() int {
	n := 1
	for k := 0; k < g.Dim; k++ { n *= g.Pixels[k] }
	return n
}

// Res returns the cell size along each axis.
func (g *Grid) Res() [3]float64 {
	var res [3]float64
	for k := 0; k < g.Dim; k++ {
		res[k] = g.Span[k] / float64(g.Pixels[k])
	}
	return res
}

// MinRes returns the smallest per-axis cell size.
func (g *Grid) MinRes() float64 {
	res := g.Res()
	min := res[0]
	for k := 1; k < g.Dim; k++ {
		if res[k] < min { min = res[k] }
	}
	return min
}

// CellVolume returns the volume (area in 2D) of a single cell.
func (g *Grid) CellVolume() float64 {
	res := g.Res()
	v := 1.0
	for k := 0; k < g.Dim; k++ { v *= res[k] }
	return v
}

// Index converts a cell index tuple into the linear index of the cell in
// Vals. The tuple must lie inside the pixel bounds.
func (g *Grid) Index(i [3]int) int {
	idx := i[0]
	for k := 1; k < g.Dim; k++ {
		idx = idx*g.Pixels[k] + i[k]
	}
	return idx
}

// CellCenter returns the coordinate of the center of cell i along axis k.
func (g *Grid) CellCenter(k, i int) float64 {
	return g.Origin[k] + (float64(i)+0.5)*g.Span[k]/float64(g.Pixels[k])
}

func (g *Grid) zero() {
	for i := range g.Vals { g.Vals[i] = 0 }
}
