// Command ratview is a pure consumer of the §6 step stream: it contains no
// simulation logic, reading STEP/END/DONE blocks from stdin (piped from
// ratsim) and rendering a per-node rat-density heatmap. Its game loop is
// grounded on the teacher's view_ebiten.go, generalized from a fixed
// fish/shark palette to a density gradient since this simulation has one
// quantity per node rather than three cell kinds.
package main

import (
	"image/color"
	"log"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"ratswarm/internal/ioformat"
)

const pixelScale = 8

var (
	colBg   = color.RGBA{15, 15, 20, 255}
	colCold = color.RGBA{30, 60, 120, 255}
	colHot  = color.RGBA{230, 80, 40, 255}
)

// game holds the latest step snapshot, refreshed by a background reader
// goroutine and drawn on every frame.
type game struct {
	mu     sync.Mutex
	width  int
	height int
	counts []int
	done   bool
}

func (g *game) setStep(s ioformat.Step) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.width, g.height, g.counts = s.Width, s.Height, s.NodeCounts
}

func (g *game) setDone() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.done = true
}

func (g *game) snapshot() (width, height int, counts []int, done bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width, g.height, g.counts, g.done
}

func (g *game) Update() error {
	_, _, _, done := g.snapshot()
	if done {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colBg)
	width, height, counts, _ := g.snapshot()
	if width == 0 || height == 0 {
		return
	}

	max := 1
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := counts[y*width+x]
			if n == 0 {
				continue
			}
			c := densityColor(n, max)
			for dy := 0; dy < pixelScale; dy++ {
				for dx := 0; dx < pixelScale; dx++ {
					screen.Set(x*pixelScale+dx, y*pixelScale+dy, c)
				}
			}
		}
	}
}

func (g *game) Layout(outW, outH int) (int, int) {
	width, height, _, _ := g.snapshot()
	if width == 0 {
		width, height = 1, 1
	}
	return width * pixelScale, height * pixelScale
}

// densityColor interpolates between colCold and colHot by n/max.
func densityColor(n, max int) color.Color {
	t := float64(n) / float64(max)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + t*(float64(b)-float64(a)))
	}
	return color.RGBA{
		R: lerp(colCold.R, colHot.R),
		G: lerp(colCold.G, colHot.G),
		B: lerp(colCold.B, colHot.B),
		A: 255,
	}
}

// pump reads the step stream from stdin and feeds g until DONE or an error.
func pump(g *game) {
	r := ioformat.NewStepReader(os.Stdin)
	for {
		step, done, err := r.ReadStep()
		if err != nil {
			log.Printf("ratview: step stream error: %v", err)
			g.setDone()
			return
		}
		if done {
			g.setDone()
			return
		}
		g.setStep(step)
	}
}

func main() {
	g := &game{}
	go pump(g)

	ebiten.SetWindowSize(640, 640)
	ebiten.SetWindowTitle("ratview | density heatmap")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("ratview: %v", err)
	}
}
