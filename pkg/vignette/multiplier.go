package vignette

// The multipliers scale one pixel: starting at pix[i], they walk the
// channels described by the role cursor cr, scaling color channels by c,
// and return the index of the first element after the pixel. cr is
// consumed as they go.
type multiplierFunc[T Element] func(pix []T, i int, c float64, cr *ComponentRole) int

// Upper clamping bounds for the generic path; 0 means no upper bound.
const (
	maxU32    = 4294967295.0
	noCeiling = 0.0
)

// clampd converts x to T, clamped to [lo, hi]. A zero hi disables the
// upper clamp, which is what the float formats want.
func clampd[T uint32 | float32 | float64](x, lo, hi float64) T {
	if x < lo {
		return T(lo)
	}
	if hi != noCeiling && x > hi {
		return T(hi)
	}
	return T(x)
}

// clampbits saturates x into an unsigned n-bit range: anything with bits
// set above bit n becomes 2^n-1, negative values become 0.
func clampbits(x int32, n uint) uint32 {
	if y := uint32(x >> n); y != 0 {
		return ^y >> (32 - n)
	}
	return uint32(x)
}

// fixedPoint turns c into a fixed point multiplier with frac fractional
// bits, capped at maxInt<<frac. The conversion truncates toward zero.
func fixedPoint(c float64, frac uint, maxInt int32) int32 {
	f := c * float64(int32(1)<<frac)
	lim := float64(maxInt << frac)
	switch {
	case f > lim:
		return maxInt << frac
	case f >= -lim:
		return int32(f)
	default: // very negative, or NaN; clampbits takes it to zero
		return -(maxInt << frac)
	}
}

func applyMultiplier[T uint32 | float32 | float64](pix []T, i int, c, hi float64, cr *ComponentRole) int {
	for {
		switch cr.action() {
		case actionEndPixel:
			return i
		case actionNextPixel:
			*cr >>= 4
			return i
		case actionMultiply:
			pix[i] = clampd[T](float64(pix[i])*c, 0.0, hi)
		}
		i++
		*cr >>= 4
	}
}

func applyMultiplierU32(pix []uint32, i int, c float64, cr *ComponentRole) int {
	return applyMultiplier(pix, i, c, maxU32, cr)
}

func applyMultiplierF32(pix []float32, i int, c float64, cr *ComponentRole) int {
	return applyMultiplier(pix, i, c, noCeiling, cr)
}

func applyMultiplierF64(pix []float64, i int, c float64, cr *ComponentRole) int {
	return applyMultiplier(pix, i, c, noCeiling, cr)
}

// applyMultiplierU8 uses 20.12 fixed point math, which leaves 11 bits
// (a factor of 2048) for the multiplier.
func applyMultiplierU8(pix []uint8, i int, c float64, cr *ComponentRole) int {
	c12 := fixedPoint(c, 12, 2047)

	for {
		switch cr.action() {
		case actionEndPixel:
			return i
		case actionNextPixel:
			*cr >>= 4
			return i
		case actionMultiply:
			r := (int32(pix[i])*c12 + 2048) >> 12
			pix[i] = uint8(clampbits(r, 8))
		}
		i++
		*cr >>= 4
	}
}

// applyMultiplierU16 uses 22.10 fixed point math, which leaves 6 bits
// (a factor of 32) for the multiplier.
func applyMultiplierU16(pix []uint16, i int, c float64, cr *ComponentRole) int {
	c10 := fixedPoint(c, 10, 31)

	for {
		switch cr.action() {
		case actionEndPixel:
			return i
		case actionNextPixel:
			*cr >>= 4
			return i
		case actionMultiply:
			r := (int32(pix[i])*c10 + 512) >> 10
			pix[i] = uint16(clampbits(r, 16))
		}
		i++
		*cr >>= 4
	}
}
