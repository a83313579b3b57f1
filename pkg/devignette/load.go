package devignette

import(
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
	"gopkg.in/yaml.v2"
)

// A Batch is a set of photos to correct, and the config to correct them with.
type Batch struct {
	Config
	Photos []Photo

	configFile   string // where Config came from, if anywhere
	databaseFile string // lens database found among the inputs
}

func NewBatch() Batch {
	return Batch{Config: NewConfig()}
}

func (b *Batch)LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := b.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %v", arg, err)
				}
			}

		default: // is a file, load it
			if err := b.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	return nil
}

func (b *Batch)loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".tif", ".tiff":
		p, err := LoadTIFF(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as TIFF failed: %v", filename, err)
		}
		b.Photos = append(b.Photos, p)
		if b.Verbosity > 0 {
			log.Printf("Loaded %s\n", p)
		}

	case ".yaml":
		contents, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("read %s: %v", filename, err)
		}

		if isLensDatabase(contents) {
			if b.databaseFile != "" {
				return fmt.Errorf("%s: already found lens database %s", filename, b.databaseFile)
			}
			b.databaseFile = filename
			if b.LensDatabase == "" {
				b.LensDatabase = filename
			}
			log.Printf("Found lens database %s\n", filename)
			return nil
		}

		if b.configFile != "" {
			return fmt.Errorf("%s: already loaded config from %s", filename, b.configFile)
		}
		cfg, err := newConfigFromYaml(contents)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %v", filename, err)
		}
		if cfg.LensDatabase == "" {
			cfg.LensDatabase = b.databaseFile
		}
		b.Config = cfg
		b.configFile = filename
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

// isLensDatabase reports whether a YAML file looks like a lens database,
// rather than a config; databases have a top-level lenses: list.
func isLensDatabase(contents []byte) bool {
	top := map[string]interface{}{}
	if err := yaml.Unmarshal(contents, &top); err != nil {
		return false
	}
	_, ok := top["lenses"]
	return ok
}

func LoadTIFF(filename string) (Photo, error) {
	p := Photo{LoadFilename: filename}

	// First, try to load the EXIF metadata. Plenty of TIFFs don't carry any, so
	// only a tag that is present but unreadable counts as an error.
	if reader, err := os.Open(filename); err != nil {
		return p, fmt.Errorf("open+r exif '%s': %v", filename, err)

	} else {
		ex, err := exif.Decode(reader)
		reader.Close()
		if err != nil {
			log.Printf("no EXIF in '%s' (%v), shooting params must come from config\n", filename, err)
		} else if err := readExif(ex, &p); err != nil {
			return p, fmt.Errorf("exif '%s': %v", filename, err)
		}
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return p, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else {
		defer reader.Close()
		if img, err := tiff.Decode(reader); err != nil {
			return p, fmt.Errorf("tiff loading '%s': %v", filename, err)
		} else {
			p.Image = img
		}
	}

	return p, nil
}

func readExif(ex *exif.Exif, p *Photo) error {
	var err error

	if p.FocalLength, err = exifRat(ex, exif.FocalLength); err != nil {
		return err
	}
	if p.Aperture, err = exifRat(ex, exif.FNumber); err != nil {
		return err
	}
	if p.Distance, err = exifRat(ex, exif.SubjectDistance); err != nil {
		return err
	}

	if tag, err := ex.Get(exif.FocalLengthIn35mmFilm); err == nil {
		if val, err := tag.Int(0); err != nil {
			return fmt.Errorf("%s: %v", exif.FocalLengthIn35mmFilm, err)
		} else {
			p.FocalLength35 = float64(val)
		}
	}

	p.Make = exifString(ex, exif.Make)
	p.Model = exifString(ex, exif.Model)
	p.LensModel = exifString(ex, exif.LensModel)

	return nil
}

// exifRat reads a rational tag as a float. A missing tag is zero.
func exifRat(ex *exif.Exif, name exif.FieldName) (float64, error) {
	tag, err := ex.Get(name)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %v", name, err)
	}

	num, denom, err := tag.Rat2(0)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", name, err)
	} else if denom == 0 {
		return 0, nil // cameras write 0/0 for "unknown"
	}
	return float64(num) / float64(denom), nil
}

func exifString(ex *exif.Exif, name exif.FieldName) string {
	if tag, err := ex.Get(name); err != nil {
		return ""
	} else if s, err := tag.StringVal(); err != nil {
		return ""
	} else {
		return strings.TrimSpace(strings.TrimRight(s, "\x00"))
	}
}
