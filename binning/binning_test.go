package binning

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"

	"github.com/tekkamanmaverick/pygad/sph"
)

func mustGrid(t *testing.T, dim int, origin, span [3]float64, pixels [3]int) *Grid {
	g, err := NewGrid(dim, origin, span, pixels)
	if err != nil { t.Fatal(err.Error()) }
	return g
}

// One particle much smaller than a cell lands entirely in the cell
// containing it.
func TestNearestCellFallback2D(t *testing.T) {
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{4, 4}, [3]int{4, 4})
	p := &Particles{
		Pos:  []float64{2, 2},
		Hsml: []float64{0.4},
		DV:   []float64{1},
		Qty:  []float64{10},
	}

	for _, period := range []float64{0, 4} {
		err := Bin2D(p, g, sph.CubicSpline, false, period, Config{})
		assert.NoError(t, err)

		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				want := 0.0
				if i == 2 && j == 2 { want = 10 }
				assert.Equal(t, want, g.Vals[g.Index([3]int{i, j})],
					"period %g cell (%d, %d)", period, i, j)
			}
		}
	}
}

func TestNearestCellFallbackOffGridIsDropped(t *testing.T) {
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{4, 4}, [3]int{4, 4})
	p := &Particles{
		Pos:  []float64{-3, 2},
		Hsml: []float64{0.1},
		DV:   []float64{1},
		Qty:  []float64{10},
	}
	err := Bin2D(p, g, sph.CubicSpline, false, 0, Config{})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, floats.Sum(g.Vals))
}

// A fully resolved interior particle deposits exactly dV*Qty, because the
// per-cell weights are normalized by their own midpoint integral.
func TestInteriorConservation2D(t *testing.T) {
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{16, 16}, [3]int{64, 64})
	p := &Particles{
		Pos:  []float64{8, 8},
		Hsml: []float64{2},
		DV:   []float64{3},
		Qty:  []float64{7},
	}

	for _, shape := range []sph.Shape{sph.CubicSpline, sph.WendlandC4} {
		err := Bin2D(p, g, shape, false, 0, Config{})
		assert.NoError(t, err)
		total := floats.Sum(g.Vals) * g.CellVolume()
		assert.InDelta(t, 21.0, total, 1e-9, "shape %s", shape)
	}
}

func TestInteriorConservation3D(t *testing.T) {
	g := mustGrid(t, 3,
		[3]float64{0, 0, 0}, [3]float64{8, 8, 8}, [3]int{32, 32, 32})
	p := &Particles{
		Pos:  []float64{4, 4, 4},
		Hsml: []float64{1},
		DV:   []float64{2},
		Qty:  []float64{5},
	}
	err := Bin3D(p, g, sph.CubicSpline, false, 0, Config{})
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, floats.Sum(g.Vals)*g.CellVolume(), 1e-9)
}

func TestNearestCellFallback3D(t *testing.T) {
	g := mustGrid(t, 3,
		[3]float64{0, 0, 0}, [3]float64{8, 8, 8}, [3]int{8, 8, 8})
	// h smaller than the distance to any cell center: nothing resolves
	p := &Particles{
		Pos:  []float64{4, 4, 4},
		Hsml: []float64{0.3},
		DV:   []float64{1},
		Qty:  []float64{6},
	}
	err := Bin3D(p, g, sph.CubicSpline, false, 0, Config{})
	assert.NoError(t, err)
	assert.Equal(t, 6.0, g.Vals[g.Index([3]int{4, 4, 4})])
	assert.Equal(t, 6.0, floats.Sum(g.Vals))
}

// A particle far larger than its grid takes the boundary fast path: the
// kernel integral is assumed to be 1, so only the fraction of the kernel
// inside the grid is deposited.
func TestBoundaryFastPath(t *testing.T) {
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{4, 4}, [3]int{4, 4})
	p := &Particles{
		Pos:  []float64{2, 2},
		Hsml: []float64{3},
		DV:   []float64{1},
		Qty:  []float64{1},
	}
	err := Bin2D(p, g, sph.CubicSpline, false, 0, Config{HLim: 2})
	assert.NoError(t, err)

	total := floats.Sum(g.Vals) * g.CellVolume()
	// most of the kernel lies inside the grid, the clipped corners do not
	assert.InDelta(t, 1.0, total, 0.1)
	assert.LessOrEqual(t, total, 1.0+1e-9)
}

func TestProjectedConservation(t *testing.T) {
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{8, 8}, [3]int{32, 32})
	p := &Particles{
		Pos:  []float64{4, 4},
		Hsml: []float64{1},
		DV:   []float64{2},
		Qty:  []float64{3},
	}
	err := Bin2D(p, g, sph.CubicSpline, true, 0, Config{})
	assert.NoError(t, err)
	assert.InDelta(t, 6.0, floats.Sum(g.Vals)*g.CellVolume(), 1e-9)
}

func TestPeriodicTranslationInvariance(t *testing.T) {
	box := 8.0
	g1 := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{8, 8}, [3]int{16, 16})
	g2 := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{8, 8}, [3]int{16, 16})

	p1 := &Particles{
		Pos:  []float64{1, 7},
		Hsml: []float64{1.5},
		DV:   []float64{1},
		Qty:  []float64{2},
	}
	p2 := &Particles{
		Pos:  []float64{1 + box, 7 - box},
		Hsml: []float64{1.5},
		DV:   []float64{1},
		Qty:  []float64{2},
	}

	assert.NoError(t, Bin2D(p1, g1, sph.CubicSpline, false, box, Config{}))
	assert.NoError(t, Bin2D(p2, g2, sph.CubicSpline, false, box, Config{}))
	assert.Equal(t, g1.Vals, g2.Vals)
	assert.Greater(t, floats.Sum(g1.Vals), 0.0)
}

func TestOrderIndependence(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	n := 60
	fwd := &Particles{
		Pos:  make([]float64, 2*n),
		Hsml: make([]float64, n),
		DV:   make([]float64, n),
		Qty:  make([]float64, n),
	}
	for j := 0; j < n; j++ {
		fwd.Pos[2*j] = rnd.Float64() * 8
		fwd.Pos[2*j+1] = rnd.Float64() * 8
		fwd.Hsml[j] = 0.2 + rnd.Float64()
		fwd.DV[j] = rnd.Float64()
		fwd.Qty[j] = rnd.Float64()
	}
	rev := &Particles{
		Pos:  make([]float64, 2*n),
		Hsml: make([]float64, n),
		DV:   make([]float64, n),
		Qty:  make([]float64, n),
	}
	for j := 0; j < n; j++ {
		r := n - 1 - j
		rev.Pos[2*j], rev.Pos[2*j+1] = fwd.Pos[2*r], fwd.Pos[2*r+1]
		rev.Hsml[j], rev.DV[j], rev.Qty[j] = fwd.Hsml[r], fwd.DV[r], fwd.Qty[r]
	}

	g1 := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{8, 8}, [3]int{32, 32})
	g2 := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{8, 8}, [3]int{32, 32})
	assert.NoError(t, Bin2D(fwd, g1, sph.CubicSpline, false, 0, Config{}))
	assert.NoError(t, Bin2D(rev, g2, sph.CubicSpline, false, 0, Config{}))

	for i := range g1.Vals {
		if math.Abs(g1.Vals[i]-g2.Vals[i]) > 1e-9*(1+math.Abs(g1.Vals[i])) {
			t.Fatalf("cell %d: %g != %g", i, g1.Vals[i], g2.Vals[i])
		}
	}
}

func TestValidation(t *testing.T) {
	good := func() *Particles {
		return &Particles{
			Pos:  []float64{2, 2},
			Hsml: []float64{1},
			DV:   []float64{1},
			Qty:  []float64{1},
		}
	}
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{4, 4}, [3]int{4, 4})

	_, err := NewGrid(2, [3]float64{0, 0}, [3]float64{4, 4}, [3]int{4, -1})
	assert.ErrorIs(t, err, ErrInvalidGrid, "negative pixel count")

	_, err = NewGrid(2, [3]float64{0, 0}, [3]float64{4, 0}, [3]int{4, 4})
	assert.ErrorIs(t, err, ErrInvalidGrid, "non-positive span")

	bad := *g
	bad.Vals = make([]float64, 3)
	err = Bin2D(good(), &bad, sph.CubicSpline, false, 0, Config{})
	assert.ErrorIs(t, err, ErrInvalidGrid, "wrong value array length")

	g3 := mustGrid(t, 3,
		[3]float64{0, 0, 0}, [3]float64{4, 4, 4}, [3]int{4, 4, 4})
	err = Bin2D(good(), g3, sph.CubicSpline, false, 0, Config{})
	assert.ErrorIs(t, err, ErrInvalidGrid, "dimension mismatch")

	p := good()
	p.Qty = []float64{1, 2}
	err = Bin2D(p, g, sph.CubicSpline, false, 0, Config{})
	assert.ErrorIs(t, err, ErrInvalidGrid, "mismatched array lengths")

	p = good()
	p.Hsml[0] = 0
	err = Bin2D(p, g, sph.CubicSpline, false, 0, Config{})
	assert.ErrorIs(t, err, ErrInvalidParticle, "non-positive h")

	err = Bin2D(good(), g, sph.Shape(99), false, 0, Config{})
	assert.ErrorIs(t, err, sph.ErrUnknownShape)
}

// Failed validation must not touch the output array.
func TestValidationLeavesGridAlone(t *testing.T) {
	g := mustGrid(t, 2, [3]float64{0, 0}, [3]float64{4, 4}, [3]int{4, 4})
	for i := range g.Vals { g.Vals[i] = 7 }

	p := &Particles{
		Pos:  []float64{2, 2},
		Hsml: []float64{-1},
		DV:   []float64{1},
		Qty:  []float64{1},
	}
	err := Bin2D(p, g, sph.CubicSpline, false, 0, Config{})
	assert.ErrorIs(t, err, ErrInvalidParticle)
	for i := range g.Vals { assert.Equal(t, 7.0, g.Vals[i]) }
}

func BenchmarkBin2D(b *testing.B) {
	rnd := rand.New(rand.NewSource(7))
	n := 1000
	p := &Particles{
		Pos:  make([]float64, 2*n),
		Hsml: make([]float64, n),
		DV:   make([]float64, n),
		Qty:  make([]float64, n),
	}
	for j := 0; j < n; j++ {
		p.Pos[2*j] = rnd.Float64() * 16
		p.Pos[2*j+1] = rnd.Float64() * 16
		p.Hsml[j] = 0.2 + rnd.Float64()
		p.DV[j] = 1
		p.Qty[j] = 1
	}
	g, _ := NewGrid(2, [3]float64{0, 0}, [3]float64{16, 16}, [3]int{256, 256})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Bin2D(p, g, sph.CubicSpline, false, 0, Config{}); err != nil {
			b.Fatal(err.Error())
		}
	}
}
