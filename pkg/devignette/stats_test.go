package devignette

import(
	"math"
	"strings"
	"testing"

	"github.com/abworrall/devignette/pkg/emath"
	"github.com/abworrall/devignette/pkg/vignette"
)

func TestGainStats(t *testing.T) {
	in, _ := NewBufferFromImage(grayImage(10, 10, 0x2000), vignette.PixelFormatF64)
	out := in.Copy()
	for x:=0; x<10; x++ {
		out.SetRGB(x, 0, in.RGB(x, 0).Scale(2))
	}
	in.SetRGB(9, 9, emath.Vec3{0, 0, 0})

	s := GainStats(in, out)
	if s.N() != 99 || s.Skipped != 1 {
		t.Fatalf("n=%d skipped=%d, want 99,1", s.N(), s.Skipped)
	}
	if got := s.Gain(50); math.Abs(got-1.0) > 0.002 {
		t.Errorf("median gain %f, want 1", got)
	}
	if got := s.Gain(100); math.Abs(got-2.0) > 0.002 {
		t.Errorf("max gain %f, want 2", got)
	}
	if got := s.Mean(); math.Abs(got-1.1) > 0.01 {
		t.Errorf("mean gain %f, want ~1.1", got)
	}
	if !strings.Contains(s.String(), "n=99") {
		t.Errorf("String() = %s", s)
	}
}

func TestStatsEmpty(t *testing.T) {
	var s Stats
	if s.N() != 0 || s.Gain(50) != 0 || s.String() != "gain[none]" {
		t.Errorf("zero Stats misbehaves: %s", s)
	}
}

func TestStatsClamps(t *testing.T) {
	s := NewStats()
	s.Add(-1)
	s.Add(1e9)
	if s.Gain(0) != 0 || s.Gain(100) < 99 {
		t.Errorf("out of range gains not clamped: %s", s)
	}
}
