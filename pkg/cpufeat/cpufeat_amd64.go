//go:build amd64

package cpufeat

import "golang.org/x/sys/cpu"

func detect() Flags {
	var fl Flags
	// SSE is part of the amd64 baseline; x/sys/cpu only reports SSE2 and up.
	fl |= SSE
	if cpu.X86.HasSSE2 {
		fl |= SSE2
	}
	return fl
}
