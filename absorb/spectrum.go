/*package absorb generates optical-depth spectra along a single line of
sight through a particle distribution.

Each particle contributes its projected-kernel column density, spread over
velocity bins by the analytic integral of a thermally broadened Gaussian
profile. The result is an optical depth per unit velocity in each bin.
*/
package absorb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tekkamanmaverick/pygad/binning"
	"github.com/tekkamanmaverick/pygad/parallel"
	"github.com/tekkamanmaverick/pygad/sph"
)

// Particles is a read-only structure-of-arrays view of the absorbers. Pos
// holds the two coordinates transverse to the line of sight, flattened with
// two entries per particle. Vel is the line-of-sight velocity, N the column
// number density, and Temp the temperature feeding the thermal broadening.
type Particles struct {
	Pos  []float64
	Vel  []float64
	Hsml []float64
	N    []float64
	Temp []float64
}

// Len returns the number of particles.
func (p *Particles) Len() int { return len(p.Hsml) }

func (p *Particles) validate() error {
	n := p.Len()
	if len(p.Pos) != 2*n || len(p.Vel) != n || len(p.N) != n ||
		len(p.Temp) != n {
		return fmt.Errorf(
			"%w: %d particles, but len(Pos) = %d, len(Vel) = %d, "+
				"len(N) = %d, len(Temp) = %d",
			binning.ErrInvalidGrid, n, len(p.Pos), len(p.Vel),
			len(p.N), len(p.Temp),
		)
	}
	for j, h := range p.Hsml {
		if !(h > 0) {
			return fmt.Errorf("%w: smoothing length %g at index %d",
				binning.ErrInvalidParticle, h, j)
		}
	}
	return nil
}

// Config holds the spectrum tunables. The zero value of any field selects
// its default.
type Config struct {
	// SigmaWindow is the half-width, in units of the Doppler parameter b,
	// of the velocity window a particle is integrated over. The Gaussian
	// tail beyond it is dropped. Default 5.
	SigmaWindow float64
	// ProjectionSamples is the resolution of the projected-kernel table.
	// Default sph.DefaultProjectionSamples.
	ProjectionSamples int
	// Workers and ChunkSize configure the particle loop; see parallel.For.
	Workers   int
	ChunkSize int
}

func (cfg Config) withDefaults() Config {
	if cfg.SigmaWindow == 0 { cfg.SigmaWindow = 5 }
	if cfg.ProjectionSamples == 0 {
		cfg.ProjectionSamples = sph.DefaultProjectionSamples
	}
	return cfg
}

// Spectrum computes the optical depth per unit velocity in nbins bins
// spanning velExtent along the line of sight at losPos. b0 is the thermal
// broadening coefficient (the Doppler parameter is b0*sqrt(Temp)), xsec the
// absorption cross section, and period > 0 enables periodic wrapping of the
// transverse plane.
func Spectrum(
	p *Particles, losPos [2]float64, velExtent [2]float64, nbins int,
	b0, xsec float64, shape sph.Shape, period float64, cfg Config,
) ([]float64, error) {
	cfg = cfg.withDefaults()

	if nbins <= 0 {
		return nil, fmt.Errorf("%w: %d velocity bins",
			binning.ErrInvalidGrid, nbins)
	}
	if velExtent[1] <= velExtent[0] {
		return nil, fmt.Errorf("%w: velocity extent [%g, %g]",
			binning.ErrInvalidGrid, velExtent[0], velExtent[1])
	}
	if err := p.validate(); err != nil { return nil, err }

	kernel, err := sph.New(shape, 3)
	if err != nil { return nil, err }
	kernel.BuildProjection(cfg.ProjectionSamples)

	dv := (velExtent[1] - velExtent[0]) / float64(nbins)
	taus := make([]float64, nbins)

	parallel.For(p.Len(), cfg.ChunkSize, cfg.Workers, func(j int) {
		rj := p.Pos[2*j : 2*j+2]
		hj := p.Hsml[j]

		// projected distance of the particle to the line of sight
		dj := binning.Distance(losPos[:], rj, period)
		if dj >= hj { return }

		vj := p.Vel[j]
		// column density of the particle along the line of sight
		colN := p.N[j] * kernel.ProjValue(dj/hj, hj)

		// fractional bin position of the particle's velocity
		vi := (vj - velExtent[0]) / dv

		b := b0 * math.Sqrt(p.Temp[j])
		w := cfg.SigmaWindow
		if vj+w*b < velExtent[0] || vj-w*b > velExtent[1] {
			// out of bounds; don't pile the tail into an edge bin
			return
		}
		viMin := int(math.Max(0,
			math.Floor((vj-w*b-velExtent[0])/dv)))
		viMax := int(math.Min(float64(nbins-1),
			math.Ceil((vj+w*b-velExtent[0])/dv)))

		if viMin == viMax {
			parallel.AddFloat64(&taus[viMin], colN)
			return
		}
		// The thermal profile is the normalized Gaussian
		// tb(v) = exp(-(v/b)^2) / (b*sqrt(pi)), whose integral over a bin
		// is half an erf difference at the bin edges.
		for i := viMin; i <= viMax; i++ {
			v0 := (float64(i) - vi - 0.5) * dv
			v1 := (float64(i) - vi + 0.5) * dv
			dtb := 0.5 * (math.Erf(v1/b) - math.Erf(v0/b))
			parallel.AddFloat64(&taus[i], dtb*colN)
		}
	})

	// column density per bin -> optical depth per unit velocity
	floats.Scale(xsec/dv, taus)
	return taus, nil
}
