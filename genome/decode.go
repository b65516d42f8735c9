package genome

import "math"

// BinaryFraction decodes bits as a big-endian binary fraction:
//
//	sum(bit_i * 2^(n-1-i)) / (2^n - 1)
//
// The result lies in [0, 1]; all ones decode to exactly 1.
func BinaryFraction(bits []uint8) float64 {
	if len(bits) == 0 {
		return 0
	}
	var num float64
	for _, b := range bits {
		num = num*2 + float64(b)
	}
	return num / (math.Exp2(float64(len(bits))) - 1)
}
