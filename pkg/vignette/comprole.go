package vignette

// A ComponentRole mask describes, one nibble per channel in storage order,
// what each channel of a pixel is. The lowest nibble is the first channel.
// A mask holds at most eight roles.
type ComponentRole uint32

const (
	// RoleEnd terminates the pixel. The mask is exhausted and will be
	// re-seeded for the next pixel.
	RoleEnd ComponentRole = iota
	// RoleNext ends this pixel, but the remaining nibbles describe the
	// next one.
	RoleNext
	// RoleUnknown channels (alpha, depth, ...) are left untouched.
	RoleUnknown
	RoleIntensity
	RoleRed
	RoleGreen
	RoleBlue
)

var (
	RolesRGB       = Roles(RoleRed, RoleGreen, RoleBlue)
	RolesRGBA      = Roles(RoleRed, RoleGreen, RoleBlue, RoleUnknown)
	RolesIntensity = Roles(RoleIntensity)
)

// Roles packs channel roles into a mask.
func Roles(roles ...ComponentRole) ComponentRole {
	var cr ComponentRole
	for i, r := range roles {
		if i == 8 {
			break
		}
		cr |= (r & 15) << (4 * i)
	}
	return cr
}

// roleAction is what the multiplier does with the current channel.
type roleAction int

const (
	actionEndPixel  roleAction = iota // stop, don't consume
	actionNextPixel                   // stop, consume the nibble
	actionSkip                        // leave the channel, move on
	actionMultiply                    // scale the channel, move on
)

func (cr ComponentRole) action() roleAction {
	switch cr & 15 {
	case RoleEnd:
		return actionEndPixel
	case RoleNext:
		return actionNextPixel
	case RoleUnknown:
		return actionSkip
	}
	return actionMultiply
}

// elementsSpanned counts the channel values that count pixels described
// by role occupy, following the same re-seeding rules as the kernels.
func elementsSpanned(role ComponentRole, count int) int {
	n := 0
	cr := ComponentRole(0)
	for ; count > 0; count-- {
		if cr == 0 {
			cr = role
		}
	pixel:
		for {
			switch cr.action() {
			case actionEndPixel:
				break pixel
			case actionNextPixel:
				cr >>= 4
				break pixel
			}
			n++
			cr >>= 4
		}
	}
	return n
}
