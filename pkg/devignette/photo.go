package devignette

import(
	"fmt"
	"image"
)

// A Photo is a loaded image, plus the shooting parameters that pick its vignetting calibration.
type Photo struct {
	LoadFilename   string
	Image          image.Image

	FocalLength    float64 // mm
	FocalLength35  float64 // mm, 35mm equivalent
	Aperture       float64 // f-number
	Distance       float64 // subject distance, in meters

	Make           string
	Model          string
	LensModel      string
}

func (p Photo)String() string {
	str := fmt.Sprintf("Photo[%s", p.LoadFilename)
	if p.Image != nil {
		str += fmt.Sprintf(" %dx%d", p.Image.Bounds().Dx(), p.Image.Bounds().Dy())
	}
	str += fmt.Sprintf(", %.1fmm f/%.1f @%.2fm", p.FocalLength, p.Aperture, p.Distance)
	if p.Model != "" {
		str += fmt.Sprintf(", %s %s", p.Make, p.Model)
	}
	if p.LensModel != "" {
		str += fmt.Sprintf(", lens '%s'", p.LensModel)
	}
	return str + "]"
}

// CropFactor derives the camera's crop factor from the two focal lengths in the EXIF, or
// returns 0 if it can't.
func (p Photo)CropFactor() float64 {
	if p.FocalLength <= 0 || p.FocalLength35 <= 0 {
		return 0
	}
	return p.FocalLength35 / p.FocalLength
}
