package lens

import "testing"

const testDatabase = `
lenses:
  - maker: Nikon
    model: AF-S Nikkor 24-70mm f/2.8G ED
    cropfactor: 1.0
    vignetting:
      - {model: pa, focal: 24, aperture: 2.8, distance: 1000, terms: [-0.6513, 0.2744, -0.0788]}
      - {model: pa, focal: 70, aperture: 2.8, distance: 1000, terms: [-0.3907]}
  - maker: Sony
    model: E 16mm f/2.8
    cropfactor: 1.534
    aspectratio: 1.5
    vignetting:
      - model: acm
        focal: 16
        aperture: 2.8
        distance: 10
        terms: [-0.1, 0.01, 0]
        attr: {centerx: 0.01, centery: -0.02}
`

func TestNewDatabaseFromYaml(t *testing.T) {
	db, err := NewDatabaseFromYaml([]byte(testDatabase))
	if err != nil {
		t.Fatalf("NewDatabaseFromYaml: %v", err)
	}
	if len(db.Lenses) != 2 {
		t.Fatalf("got %d lenses, want 2", len(db.Lenses))
	}

	nikon := db.Lenses[0]
	if got := nikon.Vignetting[1].Terms; got != (Terms{-0.3907, 0, 0}) {
		t.Errorf("short terms list not zero-padded: %v", got)
	}

	sony := db.Lenses[1]
	vc := sony.Vignetting[0]
	if vc.Model != VignettingModelACM {
		t.Errorf("model = %s, want acm", vc.Model)
	}
	if vc.Attr.CenterX != 0.01 || vc.Attr.CenterY != -0.02 {
		t.Errorf("center not parsed: %+v", vc.Attr)
	}
}

func TestNewDatabaseFromYamlErrors(t *testing.T) {
	tests := map[string]string{
		"bad model":  "lenses:\n  - {maker: a, model: b, cropfactor: 1, vignetting: [{model: cubic, focal: 10}]}\n",
		"many terms": "lenses:\n  - {maker: a, model: b, cropfactor: 1, vignetting: [{model: pa, focal: 10, terms: [1, 2, 3, 4]}]}\n",
		"no crop":    "lenses:\n  - {maker: a, model: b}\n",
		"acm focal":  "lenses:\n  - {maker: a, model: b, cropfactor: 1, vignetting: [{model: acm}]}\n",
	}
	for name, doc := range tests {
		if _, err := NewDatabaseFromYaml([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestFindLens(t *testing.T) {
	db, err := NewDatabaseFromYaml([]byte(testDatabase))
	if err != nil {
		t.Fatalf("NewDatabaseFromYaml: %v", err)
	}

	tests := []struct {
		query string
		want  string
	}{
		{"Sony E 16mm f/2.8", "E 16mm f/2.8"},
		{"e 16mm f/2.8", "E 16mm f/2.8"},
		{"24-70", "AF-S Nikkor 24-70mm f/2.8G ED"},
		{"nikon", "AF-S Nikkor 24-70mm f/2.8G ED"},
	}
	for _, tc := range tests {
		l := db.FindLens(tc.query)
		if l == nil {
			t.Errorf("FindLens(%q) = nil", tc.query)
			continue
		}
		if l.Model != tc.want {
			t.Errorf("FindLens(%q) = %s, want %s", tc.query, l.Model, tc.want)
		}
	}

	if l := db.FindLens("Canon"); l != nil {
		t.Errorf("FindLens(Canon) = %s, want nil", l)
	}
	if l := db.FindLens(""); l != nil {
		t.Errorf("FindLens(\"\") = %s, want nil", l)
	}
}

func TestParseVignettingModel(t *testing.T) {
	tests := map[string]VignettingModel{
		"pa": VignettingModelPA, "PA": VignettingModelPA, "poly6": VignettingModelPA,
		"acm": VignettingModelACM, "": VignettingModelNone,
	}
	for in, want := range tests {
		got, err := ParseVignettingModel(in)
		if err != nil || got != want {
			t.Errorf("ParseVignettingModel(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
}
