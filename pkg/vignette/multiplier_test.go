package vignette

import "testing"

func TestClampbits(t *testing.T) {
	tests := []struct {
		x    int32
		n    uint
		want uint32
	}{
		{0, 8, 0},
		{200, 8, 200},
		{255, 8, 255},
		{256, 8, 255},
		{765, 8, 255},
		{-1, 8, 0},
		{-70000, 16, 0},
		{65535, 16, 65535},
		{65536, 16, 65535},
		{1 << 30, 16, 65535},
	}
	for _, tc := range tests {
		if got := clampbits(tc.x, tc.n); got != tc.want {
			t.Errorf("clampbits(%d, %d) = %d, want %d", tc.x, tc.n, got, tc.want)
		}
	}
}

func TestFixedPoint(t *testing.T) {
	tests := []struct {
		c      float64
		frac   uint
		maxInt int32
		want   int32
	}{
		{1.0, 12, 2047, 4096},
		{0.5, 12, 2047, 2048},
		{0.99999, 12, 2047, 4095}, // truncates
		{3000, 12, 2047, 2047 << 12},
		{1.0, 10, 31, 1024},
		{40, 10, 31, 31 << 10},
		{-1e9, 10, 31, -(31 << 10)},
	}
	for _, tc := range tests {
		if got := fixedPoint(tc.c, tc.frac, tc.maxInt); got != tc.want {
			t.Errorf("fixedPoint(%g, %d, %d) = %d, want %d", tc.c, tc.frac, tc.maxInt, got, tc.want)
		}
	}
}

func TestApplyMultiplierU8(t *testing.T) {
	tests := []struct {
		in   uint8
		c    float64
		want uint8
	}{
		{255, 3.0, 255}, // saturates, never wraps
		{255, 1.0, 255},
		{100, 0.5, 50},
		{101, 0.5, 51}, // 50.5 rounds up
		{200, 1.5, 255},
		{10, 5000, 255},
		{200, -2.0, 0},
		{0, 2.0, 0},
	}
	for _, tc := range tests {
		pix := []uint8{tc.in}
		cr := RolesIntensity
		if next := applyMultiplierU8(pix, 0, tc.c, &cr); next != 1 {
			t.Errorf("%d*%g: next index %d, want 1", tc.in, tc.c, next)
		}
		if pix[0] != tc.want {
			t.Errorf("%d*%g = %d, want %d", tc.in, tc.c, pix[0], tc.want)
		}
	}
}

func TestApplyMultiplierU16(t *testing.T) {
	tests := []struct {
		in   uint16
		c    float64
		want uint16
	}{
		{65535, 1.0, 65535},
		{65535, 1.5, 65535},
		{65535, 31.9, 65535},
		{65535, 100, 65535},
		{1000, 0.5, 500},
		{1001, 0.5, 501},
		{3, 1.25, 4}, // 3.75
		{30000, -1, 0},
	}
	for _, tc := range tests {
		pix := []uint16{tc.in}
		cr := RolesIntensity
		applyMultiplierU16(pix, 0, tc.c, &cr)
		if pix[0] != tc.want {
			t.Errorf("%d*%g = %d, want %d", tc.in, tc.c, pix[0], tc.want)
		}
	}
}

func TestApplyMultiplierGeneric(t *testing.T) {
	cr := RolesIntensity
	u32 := []uint32{4000000000}
	applyMultiplierU32(u32, 0, 2.0, &cr)
	if u32[0] != 4294967295 {
		t.Errorf("u32 did not clamp: %d", u32[0])
	}

	cr = RolesIntensity
	u32[0] = 1001
	applyMultiplierU32(u32, 0, 0.5, &cr)
	if u32[0] != 500 {
		t.Errorf("u32 should truncate: got %d, want 500", u32[0])
	}

	cr = RolesIntensity
	f32 := []float32{0.5}
	applyMultiplierF32(f32, 0, -1.0, &cr)
	if f32[0] != 0 {
		t.Errorf("f32 negative result not clamped to zero: %g", f32[0])
	}

	cr = RolesIntensity
	f64 := []float64{1e6}
	applyMultiplierF64(f64, 0, 10, &cr)
	if f64[0] != 1e7 {
		t.Errorf("f64 has no upper bound: got %g, want 1e7", f64[0])
	}
}

func TestApplyMultiplierRespectsRoles(t *testing.T) {
	pix := []uint8{100, 200, 100}
	cr := Roles(RoleRed, RoleUnknown, RoleBlue)
	next := applyMultiplierU8(pix, 0, 0.5, &cr)

	if pix[0] != 50 || pix[1] != 200 || pix[2] != 50 {
		t.Errorf("got %v, want [50 200 50]", pix)
	}
	if next != 3 {
		t.Errorf("next index %d, want 3", next)
	}
	if cr != 0 {
		t.Errorf("role mask not consumed: %#x", uint32(cr))
	}

	f := []float64{100, 200, 100}
	cr = Roles(RoleRed, RoleUnknown, RoleBlue)
	applyMultiplierF64(f, 0, 0.5, &cr)
	if f[0] != 50 || f[1] != 200 || f[2] != 50 {
		t.Errorf("f64: got %v, want [50 200 50]", f)
	}
}

func TestApplyMultiplierNext(t *testing.T) {
	// Two single-channel pixels described by one mask.
	pix := []uint16{1000, 1000, 1000}
	cr := Roles(RoleRed, RoleNext, RoleGreen)

	i := applyMultiplierU16(pix, 0, 2.0, &cr)
	if i != 1 || cr != Roles(RoleGreen) {
		t.Fatalf("first pixel: index %d, mask %#x", i, uint32(cr))
	}
	i = applyMultiplierU16(pix, i, 0.5, &cr)
	if i != 2 || cr != 0 {
		t.Fatalf("second pixel: index %d, mask %#x", i, uint32(cr))
	}
	if pix[0] != 2000 || pix[1] != 500 || pix[2] != 1000 {
		t.Errorf("got %v, want [2000 500 1000]", pix)
	}
}

func TestElementsSpanned(t *testing.T) {
	tests := []struct {
		role  ComponentRole
		count int
		want  int
	}{
		{RolesRGB, 10, 30},
		{RolesRGBA, 10, 40},
		{RolesIntensity, 7, 7},
		{Roles(RoleRed, RoleNext, RoleGreen), 3, 3},
		{RolesRGB, 0, 0},
		{0, 5, 0},
	}
	for _, tc := range tests {
		if got := elementsSpanned(tc.role, tc.count); got != tc.want {
			t.Errorf("elementsSpanned(%#x, %d) = %d, want %d", uint32(tc.role), tc.count, got, tc.want)
		}
	}
}
