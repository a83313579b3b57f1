// Package cpufeat answers one question for the kernel selector: is a
// given vector extension available on the running CPU?
package cpufeat

import (
	"os"
	"strconv"
	"strings"
)

// Flags is a set of CPU capabilities.
type Flags uint32

const (
	SSE Flags = 1 << iota
	SSE2
	ASIMD // arm64 Advanced SIMD (NEON)
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{SSE, "sse"},
	{SSE2, "sse2"},
	{ASIMD, "asimd"},
}

// Has reports whether all the capabilities in f are present.
func (fl Flags) Has(f Flags) bool { return f != 0 && fl&f == f }

func (fl Flags) String() string {
	names := []string{}
	for _, fn := range flagNames {
		if fl&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "scalar"
	}
	return strings.Join(names, "+")
}

// NoSimdEnv checks the DEVIGNETTE_NO_SIMD environment variable. When set,
// Detect reports no capabilities and every kernel falls back to scalar.
func NoSimdEnv() bool {
	val := os.Getenv("DEVIGNETTE_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// Detect returns the capabilities of the running CPU.
func Detect() Flags {
	if NoSimdEnv() {
		return 0
	}
	return detect()
}
