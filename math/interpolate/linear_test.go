package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(x float64) float64 { return 2*x + 1 }

func TestUniformLinear(t *testing.T) {
	n := 11
	vals := make([]float64, n)
	for i := range vals { vals[i] = line(float64(i) * 0.1) }
	lin := NewUniformLinear(0, 0.1, vals)

	// points on the table should be exact
	assert.InDelta(t, line(0.5), lin.Eval(0.5), 1e-14, "on table")
	// points between table entries lie on the connecting line
	assert.InDelta(t, line(0.55), lin.Eval(0.55), 1e-14, "between entries")
	// the table edges should work
	assert.InDelta(t, line(0), lin.Eval(0), 1e-14, "left edge")
	assert.InDelta(t, line(1), lin.Eval(1), 1e-14, "right edge")
}

func TestLinear(t *testing.T) {
	xs := []float64{0, 0.25, 0.75, 1}
	vals := make([]float64, len(xs))
	for i, x := range xs { vals[i] = line(x) }
	lin := NewLinear(xs, vals)

	assert.InDelta(t, line(0.25), lin.Eval(0.25), 1e-14, "on table")
	assert.InDelta(t, line(0.5), lin.Eval(0.5), 1e-14, "between entries")
	assert.InDelta(t, line(1), lin.Eval(1), 1e-14, "right edge")
}

func TestLinearClamps(t *testing.T) {
	lin := NewUniformLinear(0, 0.5, []float64{0, 1, 2})
	// out-of-range values extrapolate from the nearest interval instead of
	// panicking
	assert.InDelta(t, -0.2, lin.Eval(-0.1), 1e-14)
	assert.InDelta(t, 2.2, lin.Eval(1.1), 1e-14)
}

func TestEvalAll(t *testing.T) {
	lin := NewUniformLinear(0, 1, []float64{0, 2, 4})
	out := lin.EvalAll([]float64{0, 0.5, 1.5})
	assert.Equal(t, []float64{0, 1, 3}, out)
}
