package renderer

import (
	"image/color"
	"math"

	"github.com/achilleasa/go-chunktrace/types"
)

// Inverse of the display gamma applied by the Reinhard operator.
const invGamma = 1.0 / 2.2

// Maps a linear radiance value to a displayable color.
type ToneMapper func(c types.Vec3) color.RGBA

// Scale radiance by exposure and clamp each channel to [0, 1].
func ClampToneMap(exposure float32) ToneMapper {
	return func(c types.Vec3) color.RGBA {
		return color.RGBA{
			R: toByte(c[0] * exposure),
			G: toByte(c[1] * exposure),
			B: toByte(c[2] * exposure),
			A: 255,
		}
	}
}

// Apply simple Reinhard tone-mapping followed by gamma correction.
func ReinhardToneMap(exposure float32) ToneMapper {
	return func(c types.Vec3) color.RGBA {
		var out [3]uint8
		for i := 0; i < 3; i++ {
			x := c[i] * exposure
			if !(x > 0) {
				continue
			}
			x = x / (1 + x)
			out[i] = toByte(float32(math.Pow(float64(x), invGamma)))
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
	}
}

// Look up a tone mapper by name.
func ToneMapperByName(name string, exposure float32) (ToneMapper, bool) {
	switch name {
	case "clamp":
		return ClampToneMap(exposure), true
	case "reinhard":
		return ReinhardToneMap(exposure), true
	}
	return nil, false
}

func toByte(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
