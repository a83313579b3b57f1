package vignette

import (
	"fmt"
	"strings"
	"unsafe"
)

// PixelFormat is the storage type of a single channel value.
type PixelFormat int

const (
	PixelFormatU8 PixelFormat = iota
	PixelFormatU16
	PixelFormatU32
	PixelFormatF32
	PixelFormatF64
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatU8:  "u8",
	PixelFormatU16: "u16",
	PixelFormatU32: "u32",
	PixelFormatF32: "f32",
	PixelFormatF64: "f64",
}

func (pf PixelFormat) String() string {
	if name, exists := pixelFormatNames[pf]; exists {
		return name
	}
	return fmt.Sprintf("PixelFormat(%d)", int(pf))
}

// Size is the number of bytes in one channel value; 0 for unknown formats.
func (pf PixelFormat) Size() int {
	switch pf {
	case PixelFormatU8:
		return 1
	case PixelFormatU16:
		return 2
	case PixelFormatU32, PixelFormatF32:
		return 4
	case PixelFormatF64:
		return 8
	}
	return 0
}

func ParsePixelFormat(s string) (PixelFormat, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for pf, name := range pixelFormatNames {
		if name == want {
			return pf, nil
		}
	}
	return 0, fmt.Errorf("unknown pixel format '%s'", s)
}

// Element is the set of Go types a pixel buffer can hold.
type Element interface {
	~uint8 | ~uint16 | ~uint32 | ~float32 | ~float64
}

// FormatOf returns the PixelFormat that stores values of type T.
func FormatOf[T Element]() PixelFormat {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return PixelFormatU8
	case uint16:
		return PixelFormatU16
	case uint32:
		return PixelFormatU32
	case float32:
		return PixelFormatF32
	case float64:
		return PixelFormatF64
	}
	// Named types (~uint8 etc.) fall back to their size and kind.
	switch unsafe.Sizeof(zero) {
	case 1:
		return PixelFormatU8
	case 2:
		return PixelFormatU16
	case 8:
		return PixelFormatF64
	}
	half := 0.5
	if T(half) != 0 {
		return PixelFormatF32
	}
	return PixelFormatU32
}

// elements views a byte slice as a slice of T. b must be aligned for T;
// ApplyColorModification checks this before any kernel runs.
func elements[T Element](b []byte) []T {
	var zero T
	n := len(b) / int(unsafe.Sizeof(zero))
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// aligned reports whether b starts on a multiple of size bytes, so that
// elements can view it.
func aligned(b []byte, size int) bool {
	return len(b) == 0 || uintptr(unsafe.Pointer(&b[0]))%uintptr(size) == 0
}

// bytesOf is the inverse of elements.
func bytesOf[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// View returns b as a slice of T sharing the same memory.
func View[T Element](b []byte) []T { return elements[T](b) }

// Alloc returns a zeroed buffer for n channel values of the given format,
// aligned for that format's element type.
func Alloc(format PixelFormat, n int) []byte {
	switch format {
	case PixelFormatU8:
		return make([]byte, n)
	case PixelFormatU16:
		return bytesOf(make([]uint16, n))
	case PixelFormatU32:
		return bytesOf(make([]uint32, n))
	case PixelFormatF32:
		return bytesOf(make([]float32, n))
	case PixelFormatF64:
		return bytesOf(make([]float64, n))
	}
	return nil
}
