// Command icongen draws the tray and app icons into internal/assets.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
)

var (
	bgColor   = color.RGBA{32, 33, 35, 255}    // Dark bg
	barColor  = color.RGBA{88, 140, 236, 255}  // Docked bar
	textColor = color.RGBA{237, 237, 237, 255} // Ticker text dashes
)

func main() {
	out := flag.String("out", filepath.Join("internal", "assets"), "output directory")
	size := flag.Int("size", 64, "icon size in pixels")
	flag.Parse()

	img := render(*size)

	if err := os.MkdirAll(*out, 0755); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	for _, name := range []string{"tray.png", "app.png"} {
		if err := savePNG(img, filepath.Join(*out, name)); err != nil {
			log.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// render draws a dark rounded square with a bar docked along its top edge
// carrying three text dashes
func render(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size) / 64

	fillRounded(img, 2*s, 2*s, 60*s, 60*s, 12*s, bgColor)
	fillRounded(img, 8*s, 10*s, 48*s, 16*s, 4*s, barColor)
	for i, w := range []float64{10, 14, 8} {
		x := 12 + float64(i)*15
		fillRounded(img, x*s, 16*s, w*s, 4*s, 2*s, textColor)
	}
	return img
}

func fillRounded(img *image.RGBA, x, y, w, h, r float64, c color.Color) {
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			if inRoundedRect(float64(px)+0.5, float64(py)+0.5, x, y, w, h, r) {
				img.Set(px, py, c)
			}
		}
	}
}

func inRoundedRect(px, py, rx, ry, rw, rh, radius float64) bool {
	if px < rx || px >= rx+rw || py < ry || py >= ry+rh {
		return false
	}

	// Distance to the nearest corner centre only matters inside the corner squares
	cx := math.Max(rx+radius, math.Min(px, rx+rw-radius))
	cy := math.Max(ry+radius, math.Min(py, ry+rh-radius))
	return math.Hypot(px-cx, py-cy) <= radius
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
