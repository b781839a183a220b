package binning

import (
	"fmt"
	"math"

	"github.com/tekkamanmaverick/pygad/parallel"
	"github.com/tekkamanmaverick/pygad/sph"
)

// Particles is a read-only structure-of-arrays view of the particles to
// deposit. Pos is flattened with one d-tuple per particle. Hsml holds the
// smoothing lengths, Qty the deposited quantity, and DV the local volume
// estimate that converts Qty into a density.
type Particles struct {
	Pos  []float64
	Hsml []float64
	DV   []float64
	Qty  []float64
}

// Len returns the number of particles.
func (p *Particles) Len() int { return len(p.Hsml) }

func (p *Particles) validate(dim int) error {
	n := p.Len()
	if len(p.Pos) != dim*n || len(p.DV) != n || len(p.Qty) != n {
		return fmt.Errorf(
			"%w: %d particles, but len(Pos) = %d, len(DV) = %d, len(Qty) = %d",
			ErrInvalidGrid, n, len(p.Pos), len(p.DV), len(p.Qty),
		)
	}
	for j, h := range p.Hsml {
		if !(h > 0) {
			return fmt.Errorf("%w: smoothing length %g at index %d",
				ErrInvalidParticle, h, j)
		}
	}
	return nil
}

// Config holds the engine tunables. The zero value of any field selects its
// default, so Config{} asks for the stock behavior.
type Config struct {
	// HLim is the smoothing length, in units of the smallest cell size,
	// above which a particle whose index range touches the grid edge skips
	// the per-cell quadrature and is assumed to integrate to one. This
	// trades a small truncation error near the grid edge for not
	// integrating over supports that span many cells; the error shrinks as
	// HLim grows. Default 3.
	HLim float64
	// MinWeight is the integrated kernel weight below which a particle is
	// considered unresolved at this grid resolution and is deposited onto
	// the single cell containing it. Default 1e-4.
	MinWeight float64
	// ProjectionSamples is the resolution of the projected-kernel table.
	// Default sph.DefaultProjectionSamples.
	ProjectionSamples int
	// Workers and ChunkSize configure the particle loop; see parallel.For.
	Workers   int
	ChunkSize int
}

func (cfg Config) withDefaults() Config {
	if cfg.HLim == 0 { cfg.HLim = 3 }
	if cfg.MinWeight == 0 { cfg.MinWeight = 1e-4 }
	if cfg.ProjectionSamples == 0 {
		cfg.ProjectionSamples = sph.DefaultProjectionSamples
	}
	return cfg
}

// Bin2D deposits the particles onto a 2-dimensional grid. In projected mode
// the particles are treated as 3-dimensional and the grid accumulates
// column quantity (quantity per unit area); otherwise it accumulates
// quantity per unit area of the 2D plane itself. period > 0 enables
// periodic wrapping with that box size.
//
// The grid's value array is zeroed and then fully repopulated; every other
// argument is read-only. Validation errors are reported before any particle
// is processed.
func Bin2D(p *Particles, g *Grid, shape sph.Shape, projected bool, period float64, cfg Config) error {
	if g.Dim != 2 {
		return fmt.Errorf("%w: Bin2D called on a %dD grid", ErrInvalidGrid, g.Dim)
	}
	return bin(p, g, shape, projected, period, cfg)
}

// Bin3D deposits the particles onto a 3-dimensional grid, producing
// quantity per unit volume. See Bin2D for the remaining semantics.
func Bin3D(p *Particles, g *Grid, shape sph.Shape, projected bool, period float64, cfg Config) error {
	if g.Dim != 3 {
		return fmt.Errorf("%w: Bin3D called on a %dD grid", ErrInvalidGrid, g.Dim)
	}
	return bin(p, g, shape, projected, period, cfg)
}

func bin(p *Particles, g *Grid, shape sph.Shape, projected bool, period float64, cfg Config) error {
	cfg = cfg.withDefaults()

	if err := g.validate(); err != nil { return err }
	if err := p.validate(g.Dim); err != nil { return err }

	kernelDim := g.Dim
	if projected { kernelDim++ }
	kernel, err := sph.New(shape, kernelDim)
	if err != nil { return err }

	eval := kernel.Value
	if projected {
		kernel.BuildProjection(cfg.ProjectionSamples)
		if !kernel.Projected() { return sph.ErrProjectionNotBuilt }
		eval = kernel.ProjValue
	}

	g.zero()

	res := g.Res()
	resMin := g.MinRes()
	cellVol := g.CellVolume()
	dim := g.Dim

	parallel.For(p.Len(), cfg.ChunkSize, cfg.Workers, func(j int) {
		var pos [3]float64
		copy(pos[:], p.Pos[dim*j:dim*j+dim])
		if period > 0 {
			// Wrapping the position into the primary box makes deposition
			// invariant under shifts by whole box lengths.
			for k := 0; k < dim; k++ {
				pos[k] = math.Mod(pos[k], period)
				if pos[k] < 0 { pos[k] += period }
			}
		}
		h, dV, qty := p.Hsml[j], p.DV[j], p.Qty[j]

		// Index range of cells whose centers can lie inside the support,
		// clipped to the grid.
		var lo, hi [3]int
		for k := 0; k < dim; k++ {
			lo[k] = clamp(
				int(math.Floor((pos[k]-g.Origin[k]-h)/res[k])),
				0, g.Pixels[k],
			)
			hi[k] = clamp(
				int(math.Floor((pos[k]-g.Origin[k]+h)/res[k]))+1,
				0, g.Pixels[k],
			)
		}

		var gridR [3]float64
		onAxis := func(k, i int) {
			gridR[k] = g.Origin[k] + (float64(i)+0.5)*res[k]
		}

		// Integrate the kernel over the index range by cell-center midpoint
		// quadrature. Particles that are both well resolved and clipped by
		// the grid edge take the full unit integral instead: truncation
		// cannot hide a meaningful fraction of their weight, and their
		// supports cover the most cells.
		wInt := 0.0
		if h > cfg.HLim*resMin && touchesEdge(dim, lo, hi, g.Pixels) {
			wInt = 1
		} else {
			forEach(dim, lo, hi, onAxis, func(i [3]int) {
				d := Distance(gridR[:dim], pos[:dim], period)
				wInt += cellVol * eval(d/h, h)
			})
		}

		if wInt < cfg.MinWeight {
			// No visible overlap at this resolution: the whole particle
			// goes into the cell containing it, keeping the total exact.
			var i [3]int
			for k := 0; k < dim; k++ {
				i[k] = int(math.Floor((pos[k] - g.Origin[k]) / res[k]))
				if i[k] < 0 || i[k] >= g.Pixels[k] { return }
			}
			parallel.AddFloat64(&g.Vals[g.Index(i)], dV/cellVol*qty)
			return
		}

		// Normalizing by wInt makes the visible part of the support
		// integrate to exactly dV*qty regardless of truncation.
		norm := dV / wInt * qty
		forEach(dim, lo, hi, onAxis, func(i [3]int) {
			d := Distance(gridR[:dim], pos[:dim], period)
			parallel.AddFloat64(&g.Vals[g.Index(i)], norm*eval(d/h, h))
		})
	})

	return nil
}

// touchesEdge reports whether the clipped index range hits the grid
// boundary on some axis, meaning part of the support may lie off the grid.
func touchesEdge(dim int, lo, hi [3]int, pixels [3]int) bool {
	for k := 0; k < dim; k++ {
		if lo[k] == 0 || hi[k] == pixels[k] { return true }
	}
	return false
}

func clamp(i, lo, hi int) int {
	if i < lo { return lo }
	if i > hi { return hi }
	return i
}
