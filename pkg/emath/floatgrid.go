package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"github.com/lucasb-eyer/go-colorful"
)

// A FloatGrid is a grid of floats, with some operations
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0  * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToGray renders a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision
func (fg *FloatGrid)ToGray() *image.RGBA64 {
	min, max := fg.MinMax()

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := GammaExpand_F64(Normalize(fg.Get(x,y), min, max))
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.SetRGBA64(x, y, col)
		}
	}
	return img
}

// ToHeatmap colours each value by its place in the grid's range, from blue (min) to red (max).
func (fg *FloatGrid)ToHeatmap() *image.RGBA {
	min, max := fg.MinMax()

	img := image.NewRGBA(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			f := Normalize(fg.Get(x,y), min, max)
			r, g, b := colorful.Hsv(240.0 * (1.0 - f), 0.85, 0.95).Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{r, g, b, 0xFF})
		}
	}
	return img
}

// ToImg saves the grid as a PNG, with a title written onto it. If heatmap is false, a
// gamma-expanded grayscale is used instead.
func (fg *FloatGrid)ToImg(title, filename string, heatmap bool) error {
	var img image.Image
	if heatmap {
		img = fg.ToHeatmap()
	} else {
		img = fg.ToGray()
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 10, 20)
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("FloatGrid.ToImg '%s': %v", filename, err)
	}
	return nil
}
