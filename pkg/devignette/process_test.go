package devignette

import(
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/abworrall/devignette/pkg/lens"
	"github.com/abworrall/devignette/pkg/vignette"
)

func TestProcessUniformGray(t *testing.T) {
	cfg := testConfig(t, "u16")
	res, err := Process(cfg, grayPhoto(300, 200))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	center := res.Output.RGB(150, 100)[0]
	corner := res.Output.RGB(0, 0)[0]
	in := res.Input.RGB(0, 0)[0]
	if d := center - in; d < 0 || d > 0.001 {
		t.Errorf("center changed too much: %f -> %f", in, center)
	}
	if corner < in*1.3 {
		t.Errorf("corner %f should be ~1.33x brighter than %f", corner, in)
	}

	if res.Stats.N() != 300*200 {
		t.Errorf("stats over %d pixels", res.Stats.N())
	}
	if g := res.Stats.Gain(0); g < 0.999 {
		t.Errorf("min gain %f, want >= 1", g)
	}
	if g := res.Stats.Gain(100); g < 1.3 || g > 1.36 {
		t.Errorf("max gain %f, want ~1.33", g)
	}
	if res.Bands < 2 {
		t.Errorf("only %d bands", res.Bands)
	}
	if res.Calibration.Terms != testCalibration().Terms {
		t.Errorf("applied calibration %s", res.Calibration)
	}
}

func TestProcessBandsMatchSingleCall(t *testing.T) {
	for _, format := range []string{"u8", "u16", "f32"} {
		cfg := testConfig(t, format)
		photo := Photo{Image: grayImage(123, 77, 0x9999)}

		cfg.Workers = 1
		one, err := Process(cfg, photo)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		cfg.Workers = 7
		many, err := Process(cfg, photo)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !bytes.Equal(one.Output.Pix, many.Output.Pix) {
			t.Errorf("%s: 1 worker and 7 workers disagree", format)
		}

		// And both match one call over the whole image.
		whole := one.Input.Copy()
		m := vignette.NewModifier(1.0, whole.Width, whole.Height, cfg.Format(), false)
		vc := testCalibration()
		vc.Attr.CropFactor = 1.0
		m.EnableVignettingCorrection(vc)
		m.ApplyColorModification(whole.Pix, 0, 0, whole.Width, whole.Height, whole.Roles, whole.Stride)

		// Each band starts from its own y, rather than one accumulated row by row, so
		// allow for last-bit differences.
		tol := 1e-5
		if whole.Format == vignette.PixelFormatU8 {
			tol = 1.01/255
		} else if whole.Format == vignette.PixelFormatU16 {
			tol = 1.01/65535
		}
		for y:=0; y<whole.Height; y++ {
			for x:=0; x<whole.Width; x++ {
				a, b := whole.RGB(x, y), many.Output.RGB(x, y)
				if math.Abs(a[0]-b[0]) > tol {
					t.Fatalf("%s: (%d,%d) single pass %f, banded %f", format, x, y, a[0], b[0])
				}
			}
		}
	}
}

func TestProcessReverse(t *testing.T) {
	cfg := testConfig(t, "f64")
	cfg.Reverse = true
	res, err := Process(cfg, grayPhoto(300, 200))
	if err != nil {
		t.Fatal(err)
	}
	if res.Output.RGB(0, 0)[0] >= res.Input.RGB(0, 0)[0] {
		t.Errorf("reverse should darken the corners")
	}
}

func writeDatabase(t *testing.T) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "lenses.yaml")
	if err := os.WriteFile(filename, []byte(testDatabase), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestProcessWithDatabase(t *testing.T) {
	cfg := NewConfig()
	cfg.LensDatabase = writeDatabase(t)
	cfg.Workers = 2
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	// The lens and shooting params come from the photo's EXIF.
	photo := grayPhoto(300, 200)
	photo.LensModel = "35mm f/1.4"
	photo.FocalLength = 35
	photo.Aperture = 4

	res, err := Process(cfg, photo)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Calibration.Terms != (lens.Terms{-0.3, 0.05, 0}) {
		t.Errorf("picked calibration %s, want the f/4 one", res.Calibration)
	}
	if res.CropFactor != 1.0 {
		t.Errorf("crop factor %f, want the lens's 1.0", res.CropFactor)
	}

	// Config overrides win over EXIF.
	cfg.Aperture = 1.4
	res, err = Process(cfg, photo)
	if err != nil {
		t.Fatal(err)
	}
	if res.Calibration.Terms[0] != -0.6 {
		t.Errorf("aperture override ignored: %s", res.Calibration)
	}
}

func TestProcessErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.LensDatabase = writeDatabase(t)
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	photo := grayPhoto(30, 20)
	photo.LensModel = "Canon EF 50mm"
	if _, err := Process(cfg, photo); err == nil {
		t.Errorf("unknown lens should fail")
	}

	if _, err := Process(cfg, Photo{LoadFilename: "empty"}); err == nil {
		t.Errorf("photo without an image should fail")
	}

	cfg.LensDatabase = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Process(cfg, grayPhoto(30, 20)); err == nil {
		t.Errorf("missing database should fail")
	}
}

func TestShootingParams(t *testing.T) {
	p := Photo{FocalLength: 50, Aperture: 2.8}
	cfg := Config{Aperture: 8}
	focal, aperture, distance := shootingParams(cfg, p)
	if focal != 50 || aperture != 8 || distance != DefaultDistance {
		t.Errorf("got %f,%f,%f", focal, aperture, distance)
	}

	if got := (Photo{FocalLength: 24, FocalLength35: 36}).CropFactor(); got != 1.5 {
		t.Errorf("CropFactor %f, want 1.5", got)
	}
	if got := (Photo{FocalLength: 24}).CropFactor(); got != 0 {
		t.Errorf("CropFactor without 35mm focal %f, want 0", got)
	}
}
