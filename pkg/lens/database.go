package lens

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

/* Example lens database file ...

lenses:
  - maker: Nikon
    model: AF-S Nikkor 24-70mm f/2.8G ED
    cropfactor: 1.0
    aspectratio: 1.5
    vignetting:
      - {model: pa, focal: 24, aperture: 2.8, distance: 1000, terms: [-0.6513, 0.2744, -0.0788]}
      - {model: pa, focal: 70, aperture: 2.8, distance: 1000, terms: [-0.3907, 0.0465, -0.0141]}

*/

// A Database is a list of calibrated lenses.
type Database struct {
	Lenses []Lens `yaml:"lenses"`
}

func NewDatabaseFromYaml(b []byte) (*Database, error) {
	db := Database{}
	if err := yaml.Unmarshal(b, &db); err != nil {
		return nil, err
	}
	for i := range db.Lenses {
		if err := db.Lenses[i].validate(); err != nil {
			return nil, fmt.Errorf("lens #%d '%s': %v", i, db.Lenses[i].Name(), err)
		}
	}
	return &db, nil
}

func LoadDatabase(filename string) (*Database, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("lensdb read '%s': %v", filename, err)
	}
	db, err := NewDatabaseFromYaml(contents)
	if err != nil {
		return nil, fmt.Errorf("lensdb parse '%s': %v", filename, err)
	}
	return db, nil
}

func (l *Lens) validate() error {
	if l.CropFactor <= 0 {
		return fmt.Errorf("cropfactor must be positive, got %g", l.CropFactor)
	}
	for i, vc := range l.Vignetting {
		if vc.Model == VignettingModelACM && vc.Focal <= 0 {
			return fmt.Errorf("vignetting #%d: acm model needs a focal length", i)
		}
	}
	return nil
}

// FindLens looks a lens up by "maker model". An exact (case-insensitive)
// match wins; otherwise the first lens whose name contains the query is
// returned. Returns nil if nothing matches.
func (db *Database) FindLens(name string) *Lens {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	for i := range db.Lenses {
		if strings.ToLower(db.Lenses[i].Name()) == query || strings.ToLower(db.Lenses[i].Model) == query {
			return &db.Lenses[i]
		}
	}
	for i := range db.Lenses {
		if strings.Contains(strings.ToLower(db.Lenses[i].Name()), query) {
			return &db.Lenses[i]
		}
	}
	return nil
}
