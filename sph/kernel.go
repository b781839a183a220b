/*package sph evaluates the compactly supported smoothing kernels used to
spread particle quantities over space.

A Kernel is built for a fixed dimension and shape. Value gives the full
d-dimensional kernel weight. For column-density style maps the kernel can
additionally be integrated along one axis into a tabulated projected kernel
with BuildProjection, after which ProjValue gives the "seen along a line of
sight" weight. All kernels take normalized radii q = r/h in [0, 1).
*/
package sph

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/tekkamanmaverick/pygad/math/interpolate"
)

var (
	// ErrUnknownShape reports a kernel shape outside the supported family.
	ErrUnknownShape = errors.New("unknown kernel shape")
	// ErrProjectionNotBuilt reports use of the projected kernel before
	// BuildProjection.
	ErrProjectionNotBuilt = errors.New("kernel projection table not built")
)

// Shape selects one of the supported kernel families.
type Shape int

const (
	CubicSpline Shape = iota
	QuarticSpline
	QuinticSpline
	WendlandC2
	WendlandC4
	WendlandC6
)

var shapeNames = map[Shape]string{
	CubicSpline:   "cubic",
	QuarticSpline: "quartic",
	QuinticSpline: "quintic",
	WendlandC2:    "Wendland C2",
	WendlandC4:    "Wendland C4",
	WendlandC6:    "Wendland C6",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok { return name }
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ShapeFromName converts a kernel name, as it appears in config files, into
// a Shape. It fails with ErrUnknownShape for unrecognized names.
func ShapeFromName(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name { return s, nil }
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

const (
	// DefaultProjectionSamples is the resolution of the tabulated projected
	// kernel.
	DefaultProjectionSamples = 1024

	// quadNodes is the Gauss-Legendre node count used for the normalization
	// and projection integrals. The integrands are low-order piecewise
	// polynomials, so this is far into diminishing returns already.
	quadNodes = 128
)

// Kernel evaluates one kernel shape in a fixed dimension. A Kernel is
// immutable after construction (and, if used, after BuildProjection) and may
// be shared freely between goroutines.
type Kernel struct {
	shape Shape
	dim   int
	w     func(q float64) float64
	norm  float64
	proj  *interpolate.Linear
}

// New creates a kernel of the given shape for dim-dimensional space,
// dim in {1, 2, 3}. The kernel is normalized so that its integral over all
// of space is 1 for h = 1.
func New(shape Shape, dim int) (*Kernel, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("kernel dimension %d not in {1, 2, 3}", dim)
	}
	w := shapeFunc(shape)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}

	k := &Kernel{shape: shape, dim: dim, w: w}
	intg := piecewise(func(q float64) float64 {
		return w(q) * math.Pow(q, float64(dim-1))
	}, 0, 1, shapeBreaks(shape))
	k.norm = 1 / (solidAngle(dim) * intg)

	return k, nil
}

// piecewise integrates f over [lo, hi], splitting the range at the given
// breakpoints so Gauss-Legendre quadrature only ever sees smooth pieces.
func piecewise(f func(float64) float64, lo, hi float64, breaks []float64) float64 {
	sum := 0.0
	for _, b := range breaks {
		if b <= lo || b >= hi { continue }
		sum += quad.Fixed(f, lo, b, quadNodes, nil, 0)
		lo = b
	}
	return sum + quad.Fixed(f, lo, hi, quadNodes, nil, 0)
}

// Shape returns the kernel's shape and Dim the dimension it was built for.
func (k *Kernel) Shape() Shape { return k.shape }
func (k *Kernel) Dim() int     { return k.dim }

// Value returns the kernel weight at normalized radius q = r/h. The h^-dim
// scaling makes the integral over all space 1 for any h.
func (k *Kernel) Value(q, h float64) float64 {
	if q >= 1 { return 0 }
	return k.norm * k.w(q) / hPow(h, k.dim)
}

// BuildProjection integrates the kernel along one axis and tabulates the
// result over normalized radii [0, 1] at the given sample count
// (DefaultProjectionSamples if samples <= 0). It must be called before
// ProjValue, and must not be called concurrently with kernel use.
func (k *Kernel) BuildProjection(samples int) {
	if samples <= 1 { samples = DefaultProjectionSamples }

	dq := 1 / float64(samples-1)
	vals := make([]float64, samples)
	breaks := shapeBreaks(k.shape)
	for i := range vals {
		b := float64(i) * dq
		zMax := math.Sqrt(1 - b*b)

		// The integrand kinks where the ray crosses a shape breakpoint.
		zBreaks := make([]float64, 0, len(breaks))
		for _, br := range breaks {
			if br > b { zBreaks = append(zBreaks, math.Sqrt(br*br-b*b)) }
		}

		vals[i] = 2 * k.norm * piecewise(func(z float64) float64 {
			return k.w(math.Sqrt(b*b + z*z))
		}, 0, zMax, zBreaks)
	}
	vals[samples-1] = 0

	k.proj = interpolate.NewUniformLinear(0, dq, vals)
}

// Projected reports whether BuildProjection has been called.
func (k *Kernel) Projected() bool { return k.proj != nil }

// ProjValue returns the kernel integrated along one axis at normalized
// transverse radius q = r/h, scaled by h^-(dim-1). Calling it before
// BuildProjection is a contract violation and panics with
// ErrProjectionNotBuilt.
func (k *Kernel) ProjValue(q, h float64) float64 {
	if k.proj == nil { panic(ErrProjectionNotBuilt) }
	if q >= 1 { return 0 }
	return k.proj.Eval(q) / hPow(h, k.dim-1)
}

// solidAngle returns the surface of the unit sphere in dim dimensions, the
// factor turning a radial integral into a volume integral.
func solidAngle(dim int) float64 {
	switch dim {
	case 1:
		return 2
	case 2:
		return 2 * math.Pi
	default:
		return 4 * math.Pi
	}
}

func hPow(h float64, dim int) float64 {
	switch dim {
	case 0:
		return 1
	case 1:
		return h
	case 2:
		return h * h
	default:
		return h * h * h
	}
}

// shapeBreaks lists the interior points where a shape's polynomial pieces
// meet. The Wendland kernels are a single polynomial over the support.
func shapeBreaks(s Shape) []float64 {
	switch s {
	case CubicSpline:
		return []float64{0.5}
	case QuarticSpline:
		return []float64{1.0 / 5, 3.0 / 5}
	case QuinticSpline:
		return []float64{1.0 / 3, 2.0 / 3}
	}
	return nil
}

func shapeFunc(s Shape) func(q float64) float64 {
	switch s {
	case CubicSpline:
		return cubic
	case QuarticSpline:
		return quartic
	case QuinticSpline:
		return quintic
	case WendlandC2:
		return wendlandC2
	case WendlandC4:
		return wendlandC4
	case WendlandC6:
		return wendlandC6
	}
	return nil
}

// The B-spline kernels below are written for support radius 1 rather than
// the textbook support of (order+1)/2, so the breakpoints land at fractions
// of 1.

func cubic(q float64) float64 {
	if q < 0.5 {
		return 1 + 6*q*q*(q-1)
	}
	u := 1 - q
	return 2 * u * u * u
}

func quartic(q float64) float64 {
	w := pow4(1 - q)
	if q < 3.0/5 { w -= 5 * pow4(3.0/5-q) }
	if q < 1.0/5 { w += 10 * pow4(1.0/5-q) }
	return w
}

func quintic(q float64) float64 {
	w := pow5(1 - q)
	if q < 2.0/3 { w -= 6 * pow5(2.0/3-q) }
	if q < 1.0/3 { w += 15 * pow5(1.0/3-q) }
	return w
}

// The Wendland kernels use the l = 3 polynomials, appropriate for two and
// three dimensions.

func wendlandC2(q float64) float64 {
	return pow4(1-q) * (1 + 4*q)
}

func wendlandC4(q float64) float64 {
	return pow4(1-q) * (1 - q) * (1 - q) * (1 + 6*q + 35.0/3*q*q)
}

func wendlandC6(q float64) float64 {
	u := pow4(1 - q)
	return u * u * (1 + 8*q + 25*q*q + 32*q*q*q)
}

func pow4(x float64) float64 {
	x2 := x * x
	return x2 * x2
}

func pow5(x float64) float64 {
	x2 := x * x
	return x2 * x2 * x
}
