package devignette

import(
	"fmt"
	"log"
	"sync"

	"github.com/abworrall/devignette/pkg/lens"
	"github.com/abworrall/devignette/pkg/vignette"
)

// Result is what came out of correcting one photo.
type Result struct {
	Photo       Photo
	Input       *Buffer
	Output      *Buffer
	Modifier    *vignette.Modifier
	CropFactor  float64
	Calibration lens.VignettingCalibration // as applied, after interpolation
	Bands       int
	Stats       Stats
}

func (r Result)String() string {
	return fmt.Sprintf("Result[%s, crop %.3f, %s, %d bands, %s]", r.Photo.LoadFilename,
		r.CropFactor, r.Calibration, r.Bands, r.Stats)
}

// Process corrects the vignetting in a photo. The config must have been finalized.
func Process(cfg Config, p Photo) (Result, error) {
	var db *lens.Database
	if cfg.Calibration.IsZero() {
		var err error
		if db, err = lens.LoadDatabase(cfg.LensDatabase); err != nil {
			return Result{}, err
		}
	}
	return ProcessWithDatabase(cfg, db, p)
}

// ProcessWithDatabase is Process with an already loaded lens database, which may be nil if
// the config carries its own calibration.
func ProcessWithDatabase(cfg Config, db *lens.Database, p Photo) (Result, error) {
	res := Result{Photo: p}

	if p.Image == nil {
		return res, fmt.Errorf("process '%s': no image", p.LoadFilename)
	}
	in, err := NewBufferFromImage(p.Image, cfg.Format())
	if err != nil {
		return res, fmt.Errorf("process '%s': %v", p.LoadFilename, err)
	}
	res.Input = in
	res.Output = in.Copy()

	m, err := newModifier(cfg, db, p, in.Width, in.Height)
	if err != nil {
		return res, fmt.Errorf("process '%s': %v", p.LoadFilename, err)
	}
	res.Modifier = m
	res.CropFactor = m.Crop
	res.Calibration = m.Calibrations()[0]

	if cfg.Verbosity > 0 {
		log.Printf("%s\n", m)
	}

	res.Bands, err = applyBands(m, res.Output, cfg.Workers)
	if err != nil {
		return res, fmt.Errorf("process '%s': %v", p.LoadFilename, err)
	}

	res.Stats = GainStats(res.Input, res.Output)
	if cfg.Verbosity > 0 {
		log.Printf(" -- %s: %s\n", p.LoadFilename, res.Stats)
	}
	if cfg.Verbosity > 1 {
		log.Printf(" -- %s: gain histogram (percent):\n%v\n", p.LoadFilename, res.Stats.Hist)
	}

	return res, nil
}

// shootingParams picks each value from the config, falling back to the photo's EXIF.
func shootingParams(cfg Config, p Photo) (focal, aperture, distance float64) {
	pick := func(override, exif, dflt float64) float64 {
		if override > 0 {
			return override
		} else if exif > 0 {
			return exif
		}
		return dflt
	}
	return pick(cfg.FocalLength, p.FocalLength, 0), pick(cfg.Aperture, p.Aperture, 0),
		pick(cfg.Distance, p.Distance, DefaultDistance)
}

func newModifier(cfg Config, db *lens.Database, p Photo, w, h int) (*vignette.Modifier, error) {
	focal, aperture, distance := shootingParams(cfg, p)

	if !cfg.Calibration.IsZero() {
		crop := firstPositive(cfg.CropFactor, p.CropFactor(), 1.0)
		vc := cfg.Calibration
		if vc.Attr.CropFactor == 0 {
			vc.Attr.CropFactor = crop // calibrated on this camera
		}
		m := vignette.NewModifier(crop, w, h, cfg.Format(), cfg.Reverse)
		m.Verbosity = cfg.Verbosity
		if !m.EnableVignettingCorrection(vc) {
			return nil, fmt.Errorf("calibration %s rejected", vc)
		}
		return m, nil
	}

	if db == nil {
		return nil, fmt.Errorf("no lens database")
	}
	name := cfg.Lens
	if name == "" {
		name = p.LensModel
	}
	l := db.FindLens(name)
	if l == nil {
		return nil, fmt.Errorf("lens '%s' not in database", name)
	}

	crop := firstPositive(cfg.CropFactor, p.CropFactor(), l.CropFactor, 1.0)
	m := vignette.NewModifier(crop, w, h, cfg.Format(), cfg.Reverse)
	m.Verbosity = cfg.Verbosity
	if m.EnableVignettingCorrectionForLens(l, focal, aperture, distance)&vignette.ModifyVignetting == 0 {
		return nil, fmt.Errorf("no vignetting calibration for %s at %.1fmm f/%.1f", l.Name(), focal, aperture)
	}
	return m, nil
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

// Band boundaries don't depend on the number of workers, so neither does the output.
const bandHeight = 16

type band struct {
	Y0, Y1 int
	OK     bool
}

// applyBands splits the buffer into horizontal bands, and corrects them from a pool of
// goroutines. Bands don't overlap, and the modifier is only read.
func applyBands(m *vignette.Modifier, b *Buffer, nWorkers int) (int, error) {
	if nWorkers < 1 {
		nWorkers = 1
	}
	nBands := (b.Height + bandHeight - 1) / bandHeight

	var wg sync.WaitGroup
	jobsChan    := make(chan band, nBands)
	resultsChan := make(chan band, nBands)

	// Kick off worker pool
	for i:=0; i<nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				pix := b.Pix[job.Y0*b.Stride:]
				job.OK = m.ApplyColorModification(pix, 0, float32(job.Y0), b.Width, job.Y1-job.Y0, b.Roles, b.Stride)
				resultsChan<- job
			}
		}()
	}

	// Feed in jobs
	for y:=0; y<b.Height; y+=bandHeight {
		job := band{Y0: y, Y1: y+bandHeight}
		if job.Y1 > b.Height {
			job.Y1 = b.Height
		}
		jobsChan<- job
	}

	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	for result := range resultsChan {
		if !result.OK {
			return nBands, fmt.Errorf("band [%d,%d) was not corrected", result.Y0, result.Y1)
		}
	}

	return nBands, nil
}
