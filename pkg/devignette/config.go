package devignette

import(
	"fmt"
	"log"
	"math"
	"runtime"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/devignette/pkg/lens"
	"github.com/abworrall/devignette/pkg/vignette"
)

// DefaultDistance is used when neither the config nor the EXIF say how far away the subject was.
const DefaultDistance = 1000.0

type Config struct {
	Verbosity      int

	PixelFormat    string  // u8, u16, u32, f32, f64; what the image is processed as
	Reverse        bool    // add vignetting instead of removing it
	CropFactor     float64 // 0 means take it from EXIF, or the lens

	LensDatabase   string  // YAML file of lens calibrations
	Lens           string  // lens to look up; defaults to the EXIF LensModel

	// Shooting parameters; zero values mean take them from EXIF
	FocalLength    float64
	Aperture       float64
	Distance       float64

	// An explicit calibration record, used instead of the database when set
	Calibration    lens.VignettingCalibration `yaml:",omitempty"`

	Workers        int     // 0 means one per CPU

	OutputFilename string
	HDRFilename    string
	MapFilename    string

	format         vignette.PixelFormat
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.UnmarshalStrict(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func NewConfig() Config {
	return Config{
		PixelFormat: "u16",
	}
}

// Finalize validates the config, and fills in defaults. It should be called once all
// overrides have been applied.
func (c *Config)Finalize() error {
	if c.PixelFormat == "" {
		c.PixelFormat = "u16"
	}
	pf, err := vignette.ParsePixelFormat(c.PixelFormat)
	if err != nil {
		return fmt.Errorf("config: %v", err)
	}
	c.format = pf

	for name, v := range map[string]float64{
		"cropfactor": c.CropFactor,
		"focallength": c.FocalLength,
		"aperture": c.Aperture,
		"distance": c.Distance,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: bad %s '%v'", name, v)
		}
	}

	if c.Calibration.IsZero() && c.LensDatabase == "" {
		return fmt.Errorf("config: need either a lensdatabase or a calibration")
	}

	if c.Workers < 0 {
		return fmt.Errorf("config: bad workers '%d'", c.Workers)
	} else if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	return nil
}

// Format is the parsed PixelFormat; only valid after Finalize.
func (c Config)Format() vignette.PixelFormat { return c.format }
