package vignette

import "github.com/abworrall/devignette/pkg/cpufeat"

// Callback priorities. Lower runs first. Removing vignetting happens late
// in a correction chain, adding it back happens early.
const (
	PriorityVignetting   = 250
	PriorityDeVignetting = 750
)

type kernelKey struct {
	reverse bool
	format  PixelFormat
}

// kernelVariants lists the implementations available for one
// (direction, pixel format) pair.
type kernelVariants struct {
	scalar   colorFunc
	lanes    colorFunc     // nil if there is no vector variant
	needs    cpufeat.Flags // CPU support the lanes variant wants
	priority int
}

var vignettingKernels = map[kernelKey]kernelVariants{
	{false, PixelFormatU8}: {
		scalar:   deVignettingKernel[uint8](applyMultiplierU8),
		priority: PriorityDeVignetting,
	},
	{false, PixelFormatU16}: {
		scalar:   deVignettingKernel[uint16](applyMultiplierU16),
		lanes:    deVignettingLanes[uint16](applyMultiplierU16),
		needs:    cpufeat.SSE2,
		priority: PriorityDeVignetting,
	},
	{false, PixelFormatU32}: {
		scalar:   deVignettingKernel[uint32](applyMultiplierU32),
		priority: PriorityDeVignetting,
	},
	{false, PixelFormatF32}: {
		scalar:   deVignettingKernel[float32](applyMultiplierF32),
		lanes:    deVignettingLanes[float32](applyMultiplierF32),
		needs:    cpufeat.SSE,
		priority: PriorityDeVignetting,
	},
	{false, PixelFormatF64}: {
		scalar:   deVignettingKernel[float64](applyMultiplierF64),
		priority: PriorityDeVignetting,
	},

	{true, PixelFormatU8}:  {scalar: vignettingKernel[uint8](applyMultiplierU8), priority: PriorityVignetting},
	{true, PixelFormatU16}: {scalar: vignettingKernel[uint16](applyMultiplierU16), priority: PriorityVignetting},
	{true, PixelFormatU32}: {scalar: vignettingKernel[uint32](applyMultiplierU32), priority: PriorityVignetting},
	{true, PixelFormatF32}: {scalar: vignettingKernel[float32](applyMultiplierF32), priority: PriorityVignetting},
	{true, PixelFormatF64}: {scalar: vignettingKernel[float64](applyMultiplierF64), priority: PriorityVignetting},
}

// selectedKernel is the outcome of a table lookup.
type selectedKernel struct {
	fn       colorFunc
	name     string
	priority int
}

// selectVignettingKernel picks the kernel for a direction and pixel
// format. The lanes variant is used only if probe is set and reports the
// CPU support it needs. ok is false for pixel formats we have no kernel for.
func selectVignettingKernel(reverse bool, format PixelFormat, probe func() cpufeat.Flags) (selectedKernel, bool) {
	kv, exists := vignettingKernels[kernelKey{reverse, format}]
	if !exists {
		return selectedKernel{}, false
	}

	name := "devignetting"
	if reverse {
		name = "vignetting"
	}
	name += "/" + format.String()

	if kv.lanes != nil && probe != nil && probe().Has(kv.needs) {
		return selectedKernel{fn: kv.lanes, name: name + "/" + kv.needs.String(), priority: kv.priority}, true
	}
	return selectedKernel{fn: kv.scalar, name: name, priority: kv.priority}, true
}
