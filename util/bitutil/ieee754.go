package bitutil

import (
	"math"
)

// IEEE-754 binary16 layout
const (
	f16ExpBits  = 5
	f16MantBits = 10
	f16Bias     = 15
	f16ExpMask  = 1<<f16ExpBits - 1
	f16MantMask = 1<<f16MantBits - 1
)

// IEEE-754 binary32 layout
const (
	f32MantBits = 23
	f32Bias     = 127
	f32ExpMask  = 0xff
	f32MantMask = 1<<f32MantBits - 1
)

// IEEE-754 binary64 layout
const (
	f64MantBits = 52
	f64Bias     = 1023
	f64ExpMask  = 0x7ff
	f64MantMask = 1<<f64MantBits - 1
)

// Float16NaN is the canonical half precision quiet NaN.
const Float16NaN uint16 = 0x7e00

// Float16FromBits decodes an IEEE-754 half precision bit pattern:
//   - exponent 0: signed zero or subnormal mantissa * 2^-24
//   - exponent 0x1f: ±Inf if the mantissa is 0, NaN otherwise
//   - otherwise: (-1)^sign * 2^(exp-15) * (1 + mantissa/1024)
//
// Every half precision value is exactly representable as a float64.
func Float16FromBits(h uint16) float64 {
	exp := int(h>>f16MantBits) & f16ExpMask
	mant := float64(h & f16MantMask)
	return compose(h>>15 != 0, exp, mant, f16ExpMask, f16MantBits, f16Bias)
}

// Float32FromBits decodes an IEEE-754 single precision bit pattern with the
// same rules as Float16FromBits (bias 127, 23 bit mantissa).
func Float32FromBits(u uint32) float64 {
	exp := int(u>>f32MantBits) & f32ExpMask
	mant := float64(u & f32MantMask)
	return compose(u>>31 != 0, exp, mant, f32ExpMask, f32MantBits, f32Bias)
}

// Float64FromBits decodes an IEEE-754 double precision bit pattern with the
// same rules as Float16FromBits (bias 1023, 52 bit mantissa).
func Float64FromBits(u uint64) float64 {
	exp := int(u>>f64MantBits) & f64ExpMask
	mant := float64(u & f64MantMask)
	return compose(u>>63 != 0, exp, mant, f64ExpMask, f64MantBits, f64Bias)
}

// compose assembles a float from its decoded fields. mant holds the raw
// mantissa bits as an integer valued float, which is exact for all three
// formats.
func compose(neg bool, exp int, mant float64, expMask int, mantBits int, bias int) float64 {
	var f float64
	switch exp {
	case 0:
		// zero or subnormal: mant * 2^(1-bias-mantBits)
		f = math.Ldexp(mant, 1-bias-mantBits)
	case expMask:
		if mant != 0 {
			return math.NaN()
		}
		f = math.Inf(1)
	default:
		f = math.Ldexp(1+math.Ldexp(mant, -mantBits), exp-bias)
	}
	if neg {
		return math.Copysign(f, -1)
	}
	return f
}

// Float16Bits returns the half precision bit pattern of f and true if f can
// be represented exactly in half precision. All NaNs map to Float16NaN.
// Returns false if the conversion would lose precision or range.
func Float16Bits(f float64) (uint16, bool) {
	var sign uint16
	if math.Signbit(f) {
		sign = 1 << 15
	}
	switch {
	case math.IsNaN(f):
		return Float16NaN, true
	case math.IsInf(f, 0):
		return sign | f16ExpMask<<f16MantBits, true
	case f == 0:
		return sign, true
	}

	a := math.Abs(f)
	frac, e := math.Frexp(a) // a = frac * 2^e, frac in [0.5, 1)
	e--                      // a = 2*frac * 2^e, 2*frac in [1, 2)

	if e >= 1-f16Bias && e <= f16Bias {
		m := (2*frac - 1) * (1 << f16MantBits)
		if m != math.Trunc(m) {
			return 0, false
		}
		return sign | uint16(e+f16Bias)<<f16MantBits | uint16(m), true
	}

	// subnormal: a = m * 2^-24 with 0 < m < 1024
	m := math.Ldexp(a, f16Bias-1+f16MantBits)
	if m >= 1<<f16MantBits || m != math.Trunc(m) {
		return 0, false
	}
	return sign | uint16(m), true
}

// Float32Bits returns the single precision bit pattern of f and true if f can
// be represented exactly in single precision. NaNs are always representable.
func Float32Bits(f float64) (uint32, bool) {
	if math.IsNaN(f) {
		return math.Float32bits(float32(f)), true
	}
	f32 := float32(f)
	if float64(f32) != f {
		return 0, false
	}
	return math.Float32bits(f32), true
}
