/*pygad-map renders a 2D SPH map from a particle table.

	$ pygad-map -Config map.txt
	$ pygad-map -ExampleConfig > map.txt

The config file layout is documented by -ExampleConfig. The particle table
is whitespace separated with one particle per row and columns x, y,
smoothing length, volume, quantity.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/phil-mansfield/table"

	"github.com/tekkamanmaverick/pygad/binning"
	"github.com/tekkamanmaverick/pygad/render"
	"github.com/tekkamanmaverick/pygad/sph"
)

func main() {
	var (
		config        string
		threads       int
		exampleConfig bool
	)
	flag.StringVar(&config, "Config", "", "Map config file.")
	flag.IntVar(&threads, "Threads", runtime.NumCPU(),
		"Number of worker threads used for binning.")
	flag.BoolVar(&exampleConfig, "ExampleConfig", false,
		"Print an example config file and exit.")
	flag.Parse()

	if exampleConfig {
		fmt.Println(render.ExampleMapFile)
		return
	}
	if config == "" {
		log.Fatalf("No config file given. Run %s -ExampleConfig for the "+
			"expected layout.", flag.CommandLine.Name())
	}

	con, err := render.ReadMapConfig(config)
	if err != nil { log.Fatal(err.Error()) }
	shape, err := sph.ShapeFromName(con.Kernel)
	if err != nil { log.Fatal(err.Error()) }

	parts, err := readParticles(con.Particles)
	if err != nil { log.Fatal(err.Error()) }
	log.Printf("Read %d particles from %s", parts.Len(), con.Particles)

	grid, err := binning.NewGrid(
		2,
		[3]float64{con.XMin, con.YMin},
		[3]float64{con.XMax - con.XMin, con.YMax - con.YMin},
		[3]int{con.PixelsX, con.PixelsY},
	)
	if err != nil { log.Fatal(err.Error()) }

	cfg := binning.Config{HLim: con.HLim, Workers: threads}
	t0 := time.Now()
	err = binning.Bin2D(parts, grid, shape, con.Projected, con.Periodic, cfg)
	if err != nil { log.Fatal(err.Error()) }
	log.Printf("Binned onto %dx%d grid in %v",
		con.PixelsX, con.PixelsY, time.Since(t0))

	if err := render.SaveHeatmap(grid, con.Output, con.Particles); err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Wrote %s", con.Output)
}

func readParticles(file string) (*binning.Particles, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3, 4}, nil)
	if err != nil { return nil, err }

	xs, ys := cols[0], cols[1]
	p := &binning.Particles{
		Pos:  make([]float64, 2*len(xs)),
		Hsml: cols[2],
		DV:   cols[3],
		Qty:  cols[4],
	}
	for i := range xs {
		p.Pos[2*i] = xs[i]
		p.Pos[2*i+1] = ys[i]
	}
	return p, nil
}
