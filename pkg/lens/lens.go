package lens

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

const defaultAspectRatio = 1.5 // 3:2, the 35mm frame

// A Lens is a lens model plus everything it was calibrated with.
type Lens struct {
	Maker       string                  `yaml:"maker"`
	Model       string                  `yaml:"model"`
	CropFactor  float64                 `yaml:"cropfactor"`
	AspectRatio float64                 `yaml:"aspectratio,omitempty"`
	CenterX     float64                 `yaml:"centerx,omitempty"`
	CenterY     float64                 `yaml:"centery,omitempty"`
	Vignetting  []VignettingCalibration `yaml:"vignetting"`
}

func (l Lens) String() string {
	return fmt.Sprintf("%s %s (crop %.2f, %d vignetting records)", l.Maker, l.Model, l.CropFactor, len(l.Vignetting))
}

func (l Lens) Name() string { return l.Maker + " " + l.Model }

// attr fills in whatever a calibration record left unset from the lens defaults.
func (l *Lens) attr(a CalibAttributes) CalibAttributes {
	if a.CropFactor == 0 {
		a.CropFactor = l.CropFactor
	}
	if a.AspectRatio == 0 {
		a.AspectRatio = l.AspectRatio
	}
	if a.AspectRatio == 0 {
		a.AspectRatio = defaultAspectRatio
	}
	if a.CenterX == 0 && a.CenterY == 0 {
		a.CenterX, a.CenterY = l.CenterX, l.CenterY
	}
	return a
}

// reciprocal maps apertures and distances into a space where nearness
// means something: f/1.4 vs f/2 is a bigger step than f/16 vs f/22, and
// anything past ~100m is infinity. Non-positive values mean infinity.
func reciprocal(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return 1.0 / v
}

// nearest returns the value from vals closest to want, comparing reciprocals.
func nearest(vals []float64, want float64) float64 {
	best, bestDist := vals[0], math.MaxFloat64
	for _, v := range vals {
		if d := math.Abs(reciprocal(v) - reciprocal(want)); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// InterpolateVignetting builds a calibration record for the requested
// shooting parameters. It settles on the nearest calibrated aperture and
// distance, then interpolates each term over focal length. Requests
// outside the calibrated focal range get the value at the nearest end.
// It returns false if the lens has no usable vignetting data.
func (l *Lens) InterpolateVignetting(focal, aperture, distance float64) (VignettingCalibration, bool) {
	candidates := []VignettingCalibration{}
	for _, vc := range l.Vignetting {
		if !vc.IsZero() {
			candidates = append(candidates, vc)
		}
	}
	if len(candidates) == 0 {
		return VignettingCalibration{}, false
	}

	apertures := []float64{}
	for _, vc := range candidates {
		apertures = append(apertures, vc.Aperture)
	}
	bestAperture := nearest(apertures, aperture)

	distances := []float64{}
	for _, vc := range candidates {
		if vc.Aperture == bestAperture {
			distances = append(distances, vc.Distance)
		}
	}
	bestDistance := nearest(distances, distance)

	// Never mix polynomial conventions; the first matching record decides.
	model := VignettingModelNone
	byFocal := map[float64]VignettingCalibration{}
	for _, vc := range candidates {
		if vc.Aperture != bestAperture || vc.Distance != bestDistance {
			continue
		}
		if model == VignettingModelNone {
			model = vc.Model
		}
		if vc.Model != model {
			continue
		}
		if _, exists := byFocal[vc.Focal]; !exists {
			byFocal[vc.Focal] = vc
		}
	}

	focals := []float64{}
	for f := range byFocal {
		focals = append(focals, f)
	}
	sort.Float64s(focals)

	if focal <= 0 {
		focal = focals[0]
	}

	// Attributes (and the record's identity) come from the nearest measured focal length.
	nearestFocal := focals[0]
	for _, f := range focals {
		if math.Abs(f-focal) < math.Abs(nearestFocal-focal) {
			nearestFocal = f
		}
	}
	ret := byFocal[nearestFocal]
	ret.Attr = l.attr(ret.Attr)
	ret.Focal = focal
	ret.Aperture = aperture
	ret.Distance = distance

	if len(focals) == 1 {
		return ret, true
	}

	clamped := math.Max(focals[0], math.Min(focals[len(focals)-1], focal))
	for i := 0; i < len(ret.Terms); i++ {
		ys := make([]float64, len(focals))
		for j, f := range focals {
			ys[j] = byFocal[f].Terms[i]
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(focals, ys); err != nil {
			// Fit only fails on unsorted or duplicate focals, which we have ruled out.
			return VignettingCalibration{}, false
		}
		ret.Terms[i] = pl.Predict(clamped)
	}

	return ret, true
}
