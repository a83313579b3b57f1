//go:build arm64

package cpufeat

import "golang.org/x/sys/cpu"

func detect() Flags {
	var fl Flags
	if cpu.ARM64.HasASIMD {
		fl |= ASIMD
	}
	return fl
}
