/*package render turns binned 2D grids into images and holds the config
layer of the pygad-map tool.
*/
package render

import (
	"fmt"

	"gopkg.in/gcfg.v1"

	"github.com/tekkamanmaverick/pygad/sph"
)

const ExampleMapFile = `[Map]

#######################
# Required Parameters #
#######################

# Whitespace-separated particle table with one particle per row and columns
# x, y, smoothing length, volume, quantity.
Particles = path/to/particles.txt

# Output image file.
Output = map.png

# Extent of the map.
XMin = 0
XMax = 100
YMin = 0
YMax = 100

# Pixel counts along each axis.
PixelsX = 512
PixelsY = 512

#######################
# Optional Parameters #
#######################

# Kernel shape. One of cubic, quartic, quintic, "Wendland C2",
# "Wendland C4", "Wendland C6". Default is cubic.
# Kernel = cubic

# Treat the particles as 3D and accumulate column quantity through the
# projected kernel. Default is false.
# Projected = false

# Periodic box size; 0 disables wrapping.
# Periodic = 0

# Smoothing lengths above HLim times the smallest cell size skip the
# per-cell kernel integration when the particle reaches past the grid edge.
# HLim = 3`

type MapConfig struct {
	// Required
	Particles    string
	Output       string
	XMin, XMax   float64
	YMin, YMax   float64
	PixelsX      int
	PixelsY      int

	// Optional
	Kernel    string
	Projected bool
	Periodic  float64
	HLim      float64
}

type MapWrapper struct {
	Map MapConfig
}

func DefaultMapWrapper() *MapWrapper {
	mc := MapConfig{}
	mc.Kernel = sph.CubicSpline.String()
	return &MapWrapper{mc}
}

// ReadMapConfig parses and validates a [Map] config file.
func ReadMapConfig(fname string) (*MapConfig, error) {
	wrap := DefaultMapWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	con := &wrap.Map

	switch {
	case con.Particles == "":
		return nil, fmt.Errorf("%s does not set Particles", fname)
	case con.Output == "":
		return nil, fmt.Errorf("%s does not set Output", fname)
	case con.XMax <= con.XMin:
		return nil, fmt.Errorf("%s needs XMax > XMin", fname)
	case con.YMax <= con.YMin:
		return nil, fmt.Errorf("%s needs YMax > YMin", fname)
	case con.PixelsX <= 0 || con.PixelsY <= 0:
		return nil, fmt.Errorf("%s needs positive pixel counts", fname)
	case con.Periodic < 0:
		return nil, fmt.Errorf("%s needs Periodic >= 0", fname)
	}
	if _, err := sph.ShapeFromName(con.Kernel); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return con, nil
}
