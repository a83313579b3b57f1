package devignette

import(
	"fmt"
	"log"

	"github.com/abworrall/devignette/pkg/emath"
	"github.com/abworrall/devignette/pkg/lens"
	"github.com/abworrall/devignette/pkg/vignette"
)

// Maps are kept to roughly this many cells along the long edge.
const mapCells = 512

// VignettingMap samples the gain that a calibration applies across a w x h image. Each cell
// of the grid covers step x step pixels, and holds the gain at its top-left pixel.
func VignettingMap(crop float64, w, h int, vc lens.VignettingCalibration, reverse bool) (emath.FloatGrid, int, error) {
	step := 1
	if w > mapCells || h > mapCells {
		step = (maxInt(w, h) + mapCells - 1) / mapCells
	}

	// Run the reverse kernel over a row of ones to read out c directly.
	m := vignette.NewModifier(crop, w, h, vignette.PixelFormatF64, true)
	m.CPUFeatures = nil
	defer m.Close()
	if !m.EnableVignettingCorrection(vc) {
		return emath.FloatGrid{}, 0, fmt.Errorf("VignettingMap: calibration %s rejected", vc)
	}

	fg := emath.NewFloatGrid((w+step-1)/step, (h+step-1)/step)
	row := make([]float64, w)
	for gy:=0; gy<fg.Dy(); gy++ {
		for i := range row {
			row[i] = 1.0
		}
		vignette.ApplyColorModificationTo(m, row, 0, float32(gy*step), w, 1, vignette.RolesIntensity, w*8)
		for gx:=0; gx<fg.Dx(); gx++ {
			c := row[gx*step]
			if !reverse && c != 0 {
				c = 1.0 / c
			}
			fg.Set(gx, gy, c)
		}
	}

	return fg, step, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// WriteVignettingMap renders the gain applied to a result's photo as a heatmap PNG.
func WriteVignettingMap(filename string, r Result) error {
	if r.Input == nil {
		return fmt.Errorf("WriteVignettingMap: no image")
	}
	reverse := r.Modifier != nil && r.Modifier.Reverse
	fg, step, err := VignettingMap(r.CropFactor, r.Input.Width, r.Input.Height, r.Calibration, reverse)
	if err != nil {
		return err
	}

	lo, hi := fg.MinMax()
	title := fmt.Sprintf("%s: gain %.3f - %.3f", r.Calibration.Model, lo, hi)
	log.Printf("vignetting map %s, 1:%d, %s\n", filename, step, fg.Stats())

	return fg.ToImg(title, filename, true)
}
