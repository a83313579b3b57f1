package vignette

import "github.com/abworrall/devignette/pkg/lens"

// A colorFunc is a registered kernel. It processes count pixels of one
// scanline, starting at row[0], whose first pixel sits at (x, y) in the
// modifier's normalized coordinates.
type colorFunc func(cb *colorCallback, x, y float32, row []byte, role ComponentRole, count int)

// colorCallback is one registered correction. It is built once, when the
// correction is enabled, and only read after that.
type colorCallback struct {
	kernel   colorFunc
	name     string
	priority int
	seq      int

	// Maps the modifier's normalized coordinates into the calibration's.
	coordinateCorrection float32
	normScale            float32
	centerX, centerY     float32
	terms                [3]float32

	calib lens.VignettingCalibration
}

// radialWalk tracks r^2 along a scanline. Stepping one pixel to the right
// moves x by step = cc*ns, and
//
//	((x+step)^2 + y^2) - (x^2 + y^2) = 2*step*x + step^2
//
// so r^2 is advanced by a delta rather than recomputed. The explicit
// float32 conversions pin the rounding of every product, so the compiler
// cannot fuse them into multiply-adds.
type radialWalk struct {
	x, r2  float32
	d1, d2 float32
	step   float32
	terms  [3]float32
}

func (cb *colorCallback) walk(x, y float32) radialWalk {
	cc := cb.coordinateCorrection
	ns := cb.normScale

	x = float32(x*cc) - cb.centerX
	y = float32(y*cc) - cb.centerY

	return radialWalk{
		x:     x,
		r2:    float32(x*x) + float32(y*y),
		d1:    float32(2.0 * float64(cc) * float64(ns)),
		d2:    float32(float32(float32(cc*ns)*cc) * ns),
		step:  float32(cc * ns),
		terms: cb.terms,
	}
}

// factor is the vignetting polynomial at the current position:
// 1 + k1*r^2 + k2*r^4 + k3*r^6, summed in double precision.
func (w *radialWalk) factor() float32 {
	r2 := w.r2
	r4 := r2 * r2
	r6 := r4 * r2
	return float32(1.0 + float64(w.terms[0]*r2) + float64(w.terms[1]*r4) + float64(w.terms[2]*r6))
}

func (w *radialWalk) advance() {
	w.r2 += float32(w.d1*w.x) + w.d2
	w.x += w.step
}

// vignettingKernel multiplies pixels by the polynomial: it adds the lens
// vignetting to an image (the reverse direction).
func vignettingKernel[T Element](apply multiplierFunc[T]) colorFunc {
	return func(cb *colorCallback, x, y float32, row []byte, role ComponentRole, count int) {
		pix := elements[T](row)
		w := cb.walk(x, y)
		i := 0
		cr := ComponentRole(0)

		for ; count > 0; count-- {
			c := w.factor()
			if cr == 0 {
				cr = role
			}
			i = apply(pix, i, float64(c), &cr)
			w.advance()
		}
	}
}

// deVignettingKernel divides pixels by the polynomial, removing the lens
// vignetting from an image.
func deVignettingKernel[T Element](apply multiplierFunc[T]) colorFunc {
	return func(cb *colorCallback, x, y float32, row []byte, role ComponentRole, count int) {
		pix := elements[T](row)
		w := cb.walk(x, y)
		i := 0
		cr := ComponentRole(0)

		for ; count > 0; count-- {
			c := 1.0 / w.factor()
			if cr == 0 {
				cr = role
			}
			i = apply(pix, i, float64(c), &cr)
			w.advance()
		}
	}
}

const laneWidth = 4

// deVignettingLanes is deVignettingKernel in batch form: the polynomial
// and its reciprocal are evaluated for laneWidth pixels at a time before
// any pixel is touched. It is plain Go and runs at scalar speed; the
// batching only keeps the data layout a vector unit would want. The
// radius walk is the same sequence of operations, so the output is
// bit-identical to the scalar kernel.
func deVignettingLanes[T Element](apply multiplierFunc[T]) colorFunc {
	return func(cb *colorCallback, x, y float32, row []byte, role ComponentRole, count int) {
		pix := elements[T](row)
		w := cb.walk(x, y)
		i := 0
		cr := ComponentRole(0)

		var lanes [laneWidth]float32
		for count > 0 {
			n := laneWidth
			if count < n {
				n = count
			}

			for l := 0; l < n; l++ {
				lanes[l] = w.factor()
				w.advance()
			}
			for l := 0; l < n; l++ {
				lanes[l] = 1.0 / lanes[l]
			}
			for l := 0; l < n; l++ {
				if cr == 0 {
					cr = role
				}
				i = apply(pix, i, float64(lanes[l]), &cr)
			}

			count -= n
		}
	}
}
