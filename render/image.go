package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tekkamanmaverick/pygad/binning"
)

// gridXYZ adapts a 2D binning grid to the plotter.GridXYZ interface.
type gridXYZ struct {
	g *binning.Grid
}

func (g gridXYZ) Dims() (c, r int) { return g.g.Pixels[0], g.g.Pixels[1] }
func (g gridXYZ) X(c int) float64  { return g.g.CellCenter(0, c) }
func (g gridXYZ) Y(r int) float64  { return g.g.CellCenter(1, r) }
func (g gridXYZ) Z(c, r int) float64 {
	return g.g.Vals[g.g.Index([3]int{c, r})]
}

// SaveHeatmap renders a 2D grid as a heatmap and writes it to file. The
// image format follows the file extension (png, pdf, svg, ...).
func SaveHeatmap(g *binning.Grid, file, title string) error {
	if g.Dim != 2 {
		return fmt.Errorf("cannot draw a heatmap of a %dD grid", g.Dim)
	}

	pal := moreland.SmoothBlueRed().Palette(255)
	h := plotter.NewHeatMap(gridXYZ{g}, pal)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(h)

	return p.Save(8*vg.Inch, 8*vg.Inch, file)
}
