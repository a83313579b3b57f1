package main

import(
	"flag"
	"log"

	"github.com/abworrall/devignette/pkg/cpufeat"
	"github.com/abworrall/devignette/pkg/devignette"
)

var(
	fVerbosity int
	fPixelFormat string
	fReverse bool
	fCropFactor float64
	fLensDatabase string
	fLens string
	fFocalLength float64
	fAperture float64
	fDistance float64
	fWorkers int
	fOutputFilename string
	fHDRFilename string
	fMapFilename string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fPixelFormat, "format", "", "pixel format to process in: u8, u16, u32, f32, f64 (default u16)")
	flag.BoolVar(&fReverse, "reverse", false, "add vignetting, instead of removing it")
	flag.Float64Var(&fCropFactor, "crop", 0, "camera crop factor (default from EXIF, or the lens)")

	flag.StringVar(&fLensDatabase, "lensdb", "", "YAML file of lens vignetting calibrations")
	flag.StringVar(&fLens, "lens", "", "lens to look up in the database (default EXIF LensModel)")
	flag.Float64Var(&fFocalLength, "focal", 0, "focal length in mm (default from EXIF)")
	flag.Float64Var(&fAperture, "aperture", 0, "aperture f-number (default from EXIF)")
	flag.Float64Var(&fDistance, "distance", 0, "subject distance in meters (default from EXIF)")

	flag.IntVar(&fWorkers, "workers", 0, "number of goroutines (default one per CPU)")
	flag.StringVar(&fOutputFilename, "o", "", "output image, .tif/.png/.hdr (default <input>-devignetted.tif)")
	flag.StringVar(&fHDRFilename, "hdr", "", "also write a Radiance HDR file")
	flag.StringVar(&fMapFilename, "map", "", "also write a PNG heatmap of the applied gain")
	flag.Parse()

	log.Printf("devignette starting (%s)\n", cpufeat.Detect())
}

func main() {
	b := devignette.NewBatch()
	b.Verbosity = fVerbosity
	if err := b.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}

	// Flags override whatever config file was loaded
	if fVerbosity != 0 { b.Verbosity = fVerbosity }
	if fPixelFormat != "" { b.PixelFormat = fPixelFormat }
	if fReverse { b.Reverse = true }
	if fCropFactor != 0 { b.CropFactor = fCropFactor }
	if fLensDatabase != "" { b.LensDatabase = fLensDatabase }
	if fLens != "" { b.Lens = fLens }
	if fFocalLength != 0 { b.FocalLength = fFocalLength }
	if fAperture != 0 { b.Aperture = fAperture }
	if fDistance != 0 { b.Distance = fDistance }
	if fWorkers != 0 { b.Workers = fWorkers }
	if fOutputFilename != "" { b.OutputFilename = fOutputFilename }
	if fHDRFilename != "" { b.HDRFilename = fHDRFilename }
	if fMapFilename != "" { b.MapFilename = fMapFilename }

	if err := b.Finalize(); err != nil {
		log.Fatal(err)
	}

	if b.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", b.Config.AsYaml())
	}

	results, err := b.Run()
	if err != nil {
		log.Fatal(err)
	}
	for _, res := range results {
		log.Printf("%s\n", res)
	}
}
