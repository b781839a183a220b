// Plots the radial profile of a kernel shape together with its projected
// (line-of-sight integrated) profile.
//
//	$ go run kernel_profile.go "Wendland C2"
package main

import (
	"log"
	"os"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/tekkamanmaverick/pygad/sph"
)

func main() {
	name := "cubic"
	if len(os.Args) > 1 { name = os.Args[1] }
	shape, err := sph.ShapeFromName(name)
	if err != nil { log.Fatal(err.Error()) }

	kernel, err := sph.New(shape, 3)
	if err != nil { log.Fatal(err.Error()) }
	kernel.BuildProjection(sph.DefaultProjectionSamples)

	n := 200
	qs := make([]float64, n)
	ws, projWs := make([]float64, n), make([]float64, n)
	for i := range qs {
		qs[i] = float64(i) / float64(n)
		ws[i] = kernel.Value(qs[i], 1)
		projWs[i] = kernel.ProjValue(qs[i], 1)
	}

	plt.Reset()
	plt.Plot(qs, ws, "b", plt.LW(2))
	plt.Plot(qs, projWs, "r", plt.LW(2))
	plt.Show()
}
