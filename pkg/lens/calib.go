// Package lens holds lens calibration data: the vignetting records a
// lens was measured with, a YAML database of lenses, and the lookup that
// turns (focal, aperture, distance) into a single calibration record.
package lens

import (
	"fmt"
	"strings"
)

// VignettingModel identifies the polynomial convention a calibration
// record was measured in.
type VignettingModel int

const (
	VignettingModelNone VignettingModel = iota

	// VignettingModelPA is the Pablo d'Angelo polynomial model (the one hugin
	// uses): c = 1 + k1*r^2 + k2*r^4 + k3*r^6, where r = 1.0 is half the
	// image diagonal.
	VignettingModelPA

	// VignettingModelACM is the Adobe camera model. Same polynomial, but r is
	// measured in units of focal length, against a reference frame described
	// by the calibration's aspect ratio.
	VignettingModelACM
)

func (m VignettingModel) String() string {
	switch m {
	case VignettingModelPA:
		return "pa"
	case VignettingModelACM:
		return "acm"
	default:
		return "none"
	}
}

// ParseVignettingModel accepts the names used in lens database files.
func ParseVignettingModel(s string) (VignettingModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return VignettingModelNone, nil
	case "pa", "poly6":
		return VignettingModelPA, nil
	case "acm":
		return VignettingModelACM, nil
	}
	return VignettingModelNone, fmt.Errorf("unknown vignetting model '%s'", s)
}

func (m VignettingModel) MarshalYAML() (interface{}, error) { return m.String(), nil }

func (m *VignettingModel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseVignettingModel(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Terms are the coefficients of r^2, r^4 and r^6. Database files may
// list fewer than three; the rest are zero.
type Terms [3]float64

func (t Terms) MarshalYAML() (interface{}, error) { return t[:], nil }

func (t *Terms) UnmarshalYAML(unmarshal func(interface{}) error) error {
	vals := []float64{}
	if err := unmarshal(&vals); err != nil {
		return err
	}
	if len(vals) > len(t) {
		return fmt.Errorf("at most %d vignetting terms, got %d", len(t), len(vals))
	}
	*t = Terms{}
	copy(t[:], vals)
	return nil
}

// CalibAttributes describe the sensor geometry a calibration was made on.
// CenterX and CenterY are the optical center offset, in the calibration's
// own normalized coordinates.
type CalibAttributes struct {
	CenterX     float64 `yaml:"centerx,omitempty"`
	CenterY     float64 `yaml:"centery,omitempty"`
	CropFactor  float64 `yaml:"cropfactor,omitempty"`
	AspectRatio float64 `yaml:"aspectratio,omitempty"`
}

// VignettingCalibration is one measured vignetting record.
type VignettingCalibration struct {
	Model    VignettingModel `yaml:"model"`
	Focal    float64         `yaml:"focal"`
	Aperture float64         `yaml:"aperture"`
	Distance float64         `yaml:"distance"`
	Terms    Terms           `yaml:"terms,flow"`
	Attr     CalibAttributes `yaml:"attr,omitempty"`
}

func (vc VignettingCalibration) String() string {
	return fmt.Sprintf("%s@%gmm f/%g %gm [%g, %g, %g]",
		vc.Model, vc.Focal, vc.Aperture, vc.Distance, vc.Terms[0], vc.Terms[1], vc.Terms[2])
}

// IsZero is true for a record that carries no usable model.
func (vc VignettingCalibration) IsZero() bool { return vc.Model == VignettingModelNone }
