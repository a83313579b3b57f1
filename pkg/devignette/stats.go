package devignette

import(
	"fmt"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"
)

// Gains are recorded in thousandths.
const (
	gainScale = 1000
	maxGain   = 100 * gainScale
	minLum    = 1e-4 // darker input pixels don't give a meaningful gain

	histMaxPct = 400
)

// Stats summarizes how much each pixel's luminance was changed by.
type Stats struct {
	Hist       histogram.Histogram    // gain, in percent
	Quantiles  *hdrhistogram.Histogram // gain, in thousandths
	Skipped    int
}

func NewStats() Stats {
	return Stats{
		Hist:      histogram.Histogram{NumBuckets:100, ValMin:0, ValMax:histMaxPct},
		Quantiles: hdrhistogram.New(0, maxGain, 3),
	}
}

// GainStats compares two buffers of the same size, pixel by pixel.
func GainStats(in, out *Buffer) Stats {
	s := NewStats()
	for y:=0; y<in.Height && y<out.Height; y++ {
		for x:=0; x<in.Width && x<out.Width; x++ {
			lumIn := in.RGB(x, y).Luminance()
			if lumIn < minLum {
				s.Skipped++
				continue
			}
			s.Add(out.RGB(x, y).Luminance() / lumIn)
		}
	}
	return s
}

func (s *Stats)Add(gain float64) {
	g := int64(gain*gainScale + 0.5)
	if g < 0 {
		g = 0
	} else if g > maxGain {
		g = maxGain
	}
	s.Quantiles.RecordValue(g)

	pct := int(g / (gainScale/100))
	if pct >= histMaxPct {
		pct = histMaxPct - 1
	}
	s.Hist.Add(histogram.ScalarVal(pct))
}

func (s Stats)N() int64 {
	if s.Quantiles == nil {
		return 0
	}
	return s.Quantiles.TotalCount()
}

// Gain returns the gain at the given percentile (0-100).
func (s Stats)Gain(percentile float64) float64 {
	if s.N() == 0 {
		return 0
	}
	return float64(s.Quantiles.ValueAtQuantile(percentile)) / gainScale
}

func (s Stats)Mean() float64 {
	if s.N() == 0 {
		return 0
	}
	return s.Quantiles.Mean() / gainScale
}

func (s Stats)String() string {
	if s.N() == 0 {
		return "gain[none]"
	}
	return fmt.Sprintf("gain[n=%d, skipped=%d, min=%.3f, p50=%.3f, mean=%.3f, p99=%.3f, max=%.3f]",
		s.N(), s.Skipped, s.Gain(0), s.Gain(50), s.Mean(), s.Gain(99), s.Gain(100))
}
