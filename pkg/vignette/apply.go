package vignette

// ApplyColorModification runs the enabled corrections over a rectangle of
// pixels. pixels holds height rows of width pixels each, rowStride bytes
// apart; (x, y) is the image position of the first pixel, and role
// describes the channels of each pixel.
//
// It returns false, without touching the buffer, if nothing is enabled,
// if height is not positive, or if the buffer is too small for the
// described region. pixels and rowStride must be aligned to the pixel
// format's element size.
func (m *Modifier) ApplyColorModification(pixels []byte, x, y float32, width, height int, role ComponentRole, rowStride int) bool {
	if len(m.callbacks) == 0 || height <= 0 {
		return false
	}
	if !m.fits(len(pixels), width, height, role, rowStride) || !aligned(pixels, m.PixelFormat.Size()) {
		return false
	}

	x = float32(float64(x)*m.NormScale - m.CenterX)
	y = float32(float64(y)*m.NormScale - m.CenterY)

	for off := 0; height > 0; height-- {
		row := pixels[off:]
		for _, cb := range m.callbacks {
			cb.kernel(cb, x, y, row, role, width)
		}
		y = float32(float64(y) + m.NormScale)
		off += rowStride
	}

	return true
}

// fits checks that every row of the region lies within n bytes, that rows
// don't overlap, and that each row starts on an element boundary. Nothing
// here multiplies height by rowStride, so huge values can't wrap around.
func (m *Modifier) fits(n, width, height int, role ComponentRole, rowStride int) bool {
	size := m.PixelFormat.Size()
	if size == 0 || width < 0 || rowStride < 0 || rowStride%size != 0 {
		return false
	}
	// A pixel spans at least one element unless the role mask selects
	// nothing, so wider rows can't be backed by the buffer.
	if width > n {
		return false
	}

	rowBytes := elementsSpanned(role, width) * size
	if rowBytes > n {
		return false
	}
	if height == 1 || rowBytes == 0 {
		return true
	}
	if rowStride < rowBytes {
		return false
	}
	return height-1 <= (n-rowBytes)/rowStride
}

// ApplyColorModificationTo is ApplyColorModification for a typed buffer.
// rowStride is still measured in bytes. T must match the modifier's pixel
// format, or nothing is done.
func ApplyColorModificationTo[T Element](m *Modifier, pixels []T, x, y float32, width, height int, role ComponentRole, rowStride int) bool {
	if FormatOf[T]() != m.PixelFormat {
		return false
	}
	return m.ApplyColorModification(bytesOf(pixels), x, y, width, height, role, rowStride)
}
