package devignette

import(
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/tiff"

	"github.com/abworrall/devignette/pkg/lens"
)

// WriteImage picks an encoder from the filename's extension: .tif, .png or .hdr.
func WriteImage(filename string, b *Buffer) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff": return WriteTIFF(filename, b.ToImage())
	case ".png":          return WritePNG(filename, b.ToImage())
	case ".hdr":          return WriteHDR(filename, b)
	default:
		return fmt.Errorf("WriteImage '%s': unknown file extension", filename)
	}
}

func WriteTIFF(filename string, img image.Image) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WriteTIFF, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		if err := tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
			return fmt.Errorf("WriteTIFF, encoding '%s': %v", filename, err)
		}
		return nil
	}
}

func WritePNG(filename string, img image.Image) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WritePNG, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		if err := png.Encode(writer, img); err != nil {
			return fmt.Errorf("WritePNG, encoding '%s': %v", filename, err)
		}
		return nil
	}
}

// WriteHDR outputs a Radiance HDR image. You can load this into photoshop or other HDR tools.
func WriteHDR(filename string, b *Buffer) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WriteHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		err := rgbe.Encode(writer, b.HDR())
		if err != nil {
			log.Printf("WriteHDR, encoding RGBE file: %v\n", err)
		}
		return err
	}
}

// outputFilename works out where to write a photo's output. With more than one photo in the
// batch, names are made unique by prefixing the photo's own basename.
func outputFilename(name, dflt string, p Photo, nPhotos int) string {
	if name == "" {
		if dflt == "" {
			return ""
		}
		base := strings.TrimSuffix(filepath.Base(p.LoadFilename), filepath.Ext(p.LoadFilename))
		return base + "-" + dflt
	}
	if nPhotos > 1 {
		base := strings.TrimSuffix(filepath.Base(p.LoadFilename), filepath.Ext(p.LoadFilename))
		return filepath.Join(filepath.Dir(name), base+"-"+filepath.Base(name))
	}
	return name
}

// Run corrects every photo in the batch, and writes the outputs the config asks for. The
// config must have been finalized.
func (b *Batch)Run() ([]Result, error) {
	if len(b.Photos) == 0 {
		return nil, fmt.Errorf("no photos loaded")
	}

	var db *lens.Database
	if b.Config.Calibration.IsZero() {
		var err error
		if db, err = lens.LoadDatabase(b.Config.LensDatabase); err != nil {
			return nil, err
		}
	}

	results := []Result{}
	for _, p := range b.Photos {
		res, err := ProcessWithDatabase(b.Config, db, p)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if f := outputFilename(b.OutputFilename, "devignetted.tif", p, len(b.Photos)); f != "" {
			if err := WriteImage(f, res.Output); err != nil {
				return results, err
			}
			log.Printf("wrote %s\n", f)
		}
		if f := outputFilename(b.HDRFilename, "", p, len(b.Photos)); f != "" {
			if err := WriteHDR(f, res.Output); err != nil {
				return results, err
			}
			log.Printf("wrote %s\n", f)
		}
		if f := outputFilename(b.MapFilename, "", p, len(b.Photos)); f != "" {
			if err := WriteVignettingMap(f, res); err != nil {
				return results, err
			}
			log.Printf("wrote %s\n", f)
		}
	}

	return results, nil
}
