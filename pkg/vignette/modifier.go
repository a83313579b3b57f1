// Package vignette removes (or adds) lens vignetting in pixel buffers.
//
// A Modifier is built for one image: its size, its pixel format, the crop
// factor of the camera that took it and the direction of the correction.
// Corrections are enabled on it from lens calibration records, which
// registers a kernel per correction; ApplyColorModification then walks a
// region of the image and runs every registered kernel over each scanline.
//
// The modifier works in a normalized coordinate system where 1.0 is half
// the smaller image dimension and (0,0) is the image center. Vignetting
// calibrations use other conventions, and each registered correction
// carries the scalar that maps between the two.
package vignette

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/abworrall/devignette/pkg/cpufeat"
	"github.com/abworrall/devignette/pkg/lens"
)

// ModifyFlags records which kinds of correction a modifier has enabled.
type ModifyFlags int

const (
	ModifyTCA        ModifyFlags = 0x01
	ModifyVignetting ModifyFlags = 0x02
	ModifyDistortion ModifyFlags = 0x08
	ModifyGeometry   ModifyFlags = 0x10
	ModifyScale      ModifyFlags = 0x20
)

func (mf ModifyFlags) String() string {
	names := []string{}
	for _, f := range []struct {
		flag ModifyFlags
		name string
	}{
		{ModifyTCA, "tca"},
		{ModifyVignetting, "vignetting"},
		{ModifyDistortion, "distortion"},
		{ModifyGeometry, "geometry"},
		{ModifyScale, "scale"},
	} {
		if mf&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// A Modifier holds the per-image state, and the corrections enabled on it.
type Modifier struct {
	Crop        float64 // crop factor of the camera the image came from
	Width       float64 // measured between the outermost pixel centers
	Height      float64
	PixelFormat PixelFormat
	Reverse     bool // add vignetting, rather than remove it

	NormScale   float64 // one pixel, in normalized units
	NormUnScale float64
	CenterX     float64 // image center, in normalized units
	CenterY     float64

	// CPUFeatures is asked which vector extensions exist when a kernel
	// with a vector variant is selected. Leave it nil for scalar kernels.
	CPUFeatures func() cpufeat.Flags

	Verbosity int

	enabledMods ModifyFlags
	callbacks   []*colorCallback // ordered, see colorCallback.less
	nextSeq     int
}

// NewModifier sets up a modifier for an image of width x height pixels,
// taken on a camera with the given crop factor.
func NewModifier(crop float64, width, height int, format PixelFormat, reverse bool) *Modifier {
	m := &Modifier{
		Crop:        crop,
		PixelFormat: format,
		Reverse:     reverse,
		CPUFeatures: cpufeat.Detect,
	}

	// The -1 is because we measure between pixel centers. Avoid zero sizes.
	m.Width, m.Height = 1, 1
	if width >= 2 {
		m.Width = float64(width - 1)
	}
	if height >= 2 {
		m.Height = float64(height - 1)
	}

	size := math.Min(m.Width, m.Height)
	m.NormScale = 2.0 / size
	m.NormUnScale = size * 0.5
	m.CenterX = m.Width / size
	m.CenterY = m.Height / size

	return m
}

func (m *Modifier) String() string {
	str := fmt.Sprintf("Modifier[%.0fx%.0f %s crop %.3f reverse=%v, mods=%s]", m.Width+1, m.Height+1,
		m.PixelFormat, m.Crop, m.Reverse, m.enabledMods)
	for _, cb := range m.callbacks {
		str += fmt.Sprintf("\n  %4d %-28s cc=%.6f terms=%v", cb.priority, cb.name, cb.coordinateCorrection, cb.terms)
	}
	return str
}

// EnabledModifications reports which corrections have been enabled so far.
func (m *Modifier) EnabledModifications() ModifyFlags { return m.enabledMods }

// Calibrations returns the enabled vignetting records, in the order they
// are applied.
func (m *Modifier) Calibrations() []lens.VignettingCalibration {
	var vcs []lens.VignettingCalibration
	for _, cb := range m.callbacks {
		vcs = append(vcs, cb.calib)
	}
	return vcs
}

// Close drops all registered corrections. The modifier can be reused.
func (m *Modifier) Close() {
	m.callbacks = nil
	m.enabledMods = 0
}

// coordinateCorrection computes the scalar that maps the modifier's
// normalized coordinates into the calibration record's.
func (m *Modifier) coordinateCorrection(vc lens.VignettingCalibration) float64 {
	if vc.Model == lens.VignettingModelACM {
		// ACM measures radius in focal lengths, on a frame of the record's
		// aspect ratio scaled to the 35mm diagonal.
		ar := vc.Attr.AspectRatio
		return math.Sqrt(36.0*36.0+24.0*24.0) / math.Sqrt(ar*ar+1) / (m.Crop * 2.0 * vc.Focal)
	}

	// Hugin's vignetting model has 1.0 = half the image diagonal, where we
	// have 1.0 = half the smaller side.
	imageAspectRatio := m.Width / m.Height
	if m.Width < m.Height {
		imageAspectRatio = m.Height / m.Width
	}
	return vc.Attr.CropFactor / m.Crop / math.Sqrt(imageAspectRatio*imageAspectRatio+1)
}

// EnableVignettingCorrection registers a kernel for the calibration
// record. It returns false, and changes nothing, if the record's model or
// the modifier's pixel format is not supported, or if the record's
// geometry yields no usable coordinate mapping.
func (m *Modifier) EnableVignettingCorrection(vc lens.VignettingCalibration) bool {
	switch vc.Model {
	case lens.VignettingModelPA, lens.VignettingModelACM:
	default:
		return false
	}

	sk, ok := selectVignettingKernel(m.Reverse, m.PixelFormat, m.CPUFeatures)
	if !ok {
		return false
	}

	cc := m.coordinateCorrection(vc)
	if math.IsNaN(cc) || math.IsInf(cc, 0) || cc == 0 {
		return false
	}

	m.addColorVignCallback(vc, sk, cc)
	m.enabledMods |= ModifyVignetting

	if m.Verbosity > 0 {
		log.Printf("vignette: enabled %s (%s, cc=%.6f)\n", sk.name, vc, cc)
	}
	return true
}

// EnableVignettingCorrectionForLens interpolates the lens's calibration
// data for the shooting parameters and enables the result. If the lens
// has no matching data nothing happens. Returns all the corrections
// enabled so far.
func (m *Modifier) EnableVignettingCorrectionForLens(l *lens.Lens, focal, aperture, distance float64) ModifyFlags {
	if l == nil {
		return m.enabledMods
	}
	if vc, ok := l.InterpolateVignetting(focal, aperture, distance); ok {
		m.EnableVignettingCorrection(vc)
	}
	return m.enabledMods
}

func (m *Modifier) addColorVignCallback(vc lens.VignettingCalibration, sk selectedKernel, cc float64) {
	cb := &colorCallback{
		kernel:               sk.fn,
		name:                 sk.name,
		priority:             sk.priority,
		seq:                  m.nextSeq,
		coordinateCorrection: float32(cc),
		normScale:            float32(m.NormScale),
		centerX:              float32(vc.Attr.CenterX),
		centerY:              float32(vc.Attr.CenterY),
		calib:                vc,
	}
	for i, t := range vc.Terms {
		cb.terms[i] = float32(t)
	}
	m.nextSeq++

	i := sort.Search(len(m.callbacks), func(i int) bool { return cb.less(m.callbacks[i]) })
	m.callbacks = append(m.callbacks, nil)
	copy(m.callbacks[i+1:], m.callbacks[i:])
	m.callbacks[i] = cb
}

// less orders callbacks by priority, then by their parameters. Two passes
// at the same priority don't commute bit-exactly once their results are
// rounded to fixed point, so ordering by parameters is what keeps the
// output independent of the order corrections were enabled in. Fully
// identical registrations keep the order they were added in.
func (a *colorCallback) less(b *colorCallback) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	ka := [...]float32{a.coordinateCorrection, a.centerX, a.centerY, a.terms[0], a.terms[1], a.terms[2]}
	kb := [...]float32{b.coordinateCorrection, b.centerX, b.centerY, b.terms[0], b.terms[1], b.terms[2]}
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return a.seq < b.seq
}
