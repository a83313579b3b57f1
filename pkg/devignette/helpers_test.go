package devignette

import(
	"image"
	"image/color"
	"testing"

	"github.com/abworrall/devignette/pkg/lens"
)

const testDatabase = `
lenses:
  - maker: Samyang
    model: 35mm f/1.4 AS UMC
    cropfactor: 1.0
    vignetting:
      - {model: pa, focal: 35, aperture: 1.4, distance: 1000, terms: [-0.6, 0.2, -0.05]}
      - {model: pa, focal: 35, aperture: 4, distance: 1000, terms: [-0.3, 0.05, 0]}
`

func testCalibration() lens.VignettingCalibration {
	return lens.VignettingCalibration{
		Model:    lens.VignettingModelPA,
		Focal:    35,
		Aperture: 4,
		Distance: 1000,
		Terms:    lens.Terms{-0.3, 0.05, 0},
	}
}

func testConfig(t *testing.T, format string) Config {
	t.Helper()
	cfg := NewConfig()
	cfg.PixelFormat = format
	cfg.Calibration = testCalibration()
	cfg.Workers = 3
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func grayImage(w, h int, v uint16) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			img.SetRGBA64(x, y, color.RGBA64{v, v, v, 0xFFFF})
		}
	}
	return img
}

func grayPhoto(w, h int) Photo {
	return Photo{LoadFilename: "gray.tif", Image: grayImage(w, h, 0x8000)}
}
