package scene

import "github.com/achilleasa/go-chunktrace/types"

// Defines a flat surface material. The color tints the throughput of any ray
// that hits a surface using this material. Light sources use the same
// material type; whether a surface emits is decided by the scene collection
// that holds its triangles.
type Material struct {
	Color types.Vec3
}

// Create a new material with the given linear RGB color.
func NewMaterial(color types.Vec3) Material {
	return Material{Color: color}
}
