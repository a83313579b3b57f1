package devignette

import(
	"fmt"
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/devignette/pkg/emath"
	"github.com/abworrall/devignette/pkg/vignette"
)

// A Buffer is an interleaved RGB image, in the layout the vignette package works on.
// Integer formats use their full range; float formats hold linear values where 1.0 is white.
type Buffer struct {
	Format vignette.PixelFormat
	Width  int
	Height int
	Stride int    // bytes per row
	Pix    []byte // native byte order
	Roles  vignette.ComponentRole
}

const channels = 3

func NewBuffer(format vignette.PixelFormat, w, h int) *Buffer {
	return &Buffer{
		Format: format,
		Width:  w,
		Height: h,
		Stride: w * channels * format.Size(),
		Pix:    vignette.Alloc(format, w*h*channels),
		Roles:  vignette.RolesRGB,
	}
}

// NewBufferFromImage converts any image into a buffer. HDR images keep their float values
// when the format is a float one.
func NewBufferFromImage(img image.Image, format vignette.PixelFormat) (*Buffer, error) {
	if format.Size() == 0 {
		return nil, fmt.Errorf("NewBufferFromImage: bad format %s", format)
	}
	bounds := img.Bounds()
	b := NewBuffer(format, bounds.Dx(), bounds.Dy())

	hdrImg, isHDR := img.(hdr.Image)
	for y:=0; y<b.Height; y++ {
		for x:=0; x<b.Width; x++ {
			if isHDR {
				r, g, bl, _ := hdrImg.HDRAt(bounds.Min.X+x, bounds.Min.Y+y).HDRRGBA()
				b.SetRGB(x, y, emath.Vec3{r, g, bl})
			} else {
				r, g, bl, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				b.set16(x, y, r, g, bl)
			}
		}
	}

	return b, nil
}

func (b *Buffer)String() string {
	return fmt.Sprintf("Buffer[%dx%d %s, stride %d]", b.Width, b.Height, b.Format, b.Stride)
}

func (b *Buffer)Copy() *Buffer {
	b2 := *b
	b2.Pix = vignette.Alloc(b.Format, len(b.Pix)/b.Format.Size())
	copy(b2.Pix, b.Pix)
	return &b2
}

func (b *Buffer)offset(x, y int) int { return y*b.Stride/b.Format.Size() + x*channels }

// set16 stores 16 bit channel values, as returned by color.Color.RGBA.
func (b *Buffer)set16(x, y int, r, g, bl uint32) {
	i := b.offset(x, y)
	switch b.Format {
	case vignette.PixelFormatU8:
		p := b.Pix
		p[i], p[i+1], p[i+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
	case vignette.PixelFormatU16:
		p := vignette.View[uint16](b.Pix)
		p[i], p[i+1], p[i+2] = uint16(r), uint16(g), uint16(bl)
	case vignette.PixelFormatU32:
		p := vignette.View[uint32](b.Pix)
		p[i], p[i+1], p[i+2] = r*0x10001, g*0x10001, bl*0x10001
	default:
		b.SetRGB(x, y, emath.Vec3{float64(r)/0xFFFF, float64(g)/0xFFFF, float64(bl)/0xFFFF})
	}
}

// SetRGB stores a linear RGB value, where 1.0 is the top of the integer ranges.
func (b *Buffer)SetRGB(x, y int, v emath.Vec3) {
	i := b.offset(x, y)
	switch b.Format {
	case vignette.PixelFormatF32:
		p := vignette.View[float32](b.Pix)
		p[i], p[i+1], p[i+2] = float32(v[0]), float32(v[1]), float32(v[2])
	case vignette.PixelFormatF64:
		p := vignette.View[float64](b.Pix)
		p[i], p[i+1], p[i+2] = v[0], v[1], v[2]
	default:
		v.FloorAt(0)
		v.CeilingAt(1)
		b.set16(x, y, uint32(v[0]*0xFFFF+0.5), uint32(v[1]*0xFFFF+0.5), uint32(v[2]*0xFFFF+0.5))
	}
}

// RGB returns the pixel as linear RGB, scaled so that 1.0 is the top of the integer ranges.
func (b *Buffer)RGB(x, y int) emath.Vec3 {
	i := b.offset(x, y)
	switch b.Format {
	case vignette.PixelFormatU8:
		p := b.Pix
		return emath.Vec3{float64(p[i]), float64(p[i+1]), float64(p[i+2])}.Scale(1.0/0xFF)
	case vignette.PixelFormatU16:
		p := vignette.View[uint16](b.Pix)
		return emath.Vec3{float64(p[i]), float64(p[i+1]), float64(p[i+2])}.Scale(1.0/0xFFFF)
	case vignette.PixelFormatU32:
		p := vignette.View[uint32](b.Pix)
		return emath.Vec3{float64(p[i]), float64(p[i+1]), float64(p[i+2])}.Scale(1.0/0xFFFFFFFF)
	case vignette.PixelFormatF32:
		p := vignette.View[float32](b.Pix)
		return emath.Vec3{float64(p[i]), float64(p[i+1]), float64(p[i+2])}
	default:
		p := vignette.View[float64](b.Pix)
		return emath.Vec3{p[i], p[i+1], p[i+2]}
	}
}

// ToImage returns the buffer as an ordinary image: *image.RGBA for u8, *image.RGBA64 for
// u16 and u32, and an hdr.Image for the float formats.
func (b *Buffer)ToImage() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)

	switch b.Format {
	case vignette.PixelFormatU8:
		img := image.NewRGBA(rect)
		for y:=0; y<b.Height; y++ {
			for x:=0; x<b.Width; x++ {
				i := b.offset(x, y)
				img.SetRGBA(x, y, color.RGBA{b.Pix[i], b.Pix[i+1], b.Pix[i+2], 0xFF})
			}
		}
		return img

	case vignette.PixelFormatU16, vignette.PixelFormatU32:
		img := image.NewRGBA64(rect)
		for y:=0; y<b.Height; y++ {
			for x:=0; x<b.Width; x++ {
				v := b.RGB(x, y)
				img.SetRGBA64(x, y, color.RGBA64{to16(v[0]), to16(v[1]), to16(v[2]), 0xFFFF})
			}
		}
		return img
	}

	return b.HDR()
}

func to16(f float64) uint16 {
	if f <= 0 { return 0 }
	if f >= 1 { return 0xFFFF }
	return uint16(f*0xFFFF + 0.5)
}

// HDR views the buffer as an hdr.Image, whatever its format.
func (b *Buffer)HDR() hdr.Image { return hdrView{b} }

type hdrView struct {
	b *Buffer
}

// Implement image.Image
func (v hdrView)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (v hdrView)Bounds() image.Rectangle       { return image.Rect(0, 0, v.b.Width, v.b.Height) }
func (v hdrView)At(x, y int) color.Color       { return v.HDRAt(x, y) }

// Implement hdr.Image
func (v hdrView)HDRAt(x, y int) hdrcolor.Color {
	rgb := v.b.RGB(x, y)
	return hdrcolor.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}
}
func (v hdrView)Size() int                     { return v.b.Width * v.b.Height }
