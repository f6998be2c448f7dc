package scene

import "github.com/achilleasa/go-chunktrace/types"

// A world-space triangle with a flat material.
type Triangle struct {
	V0, V1, V2 types.Vec3
	Material   Material
}

// Create new triangle.
func NewTriangle(v0, v1, v2 types.Vec3, material Material) Triangle {
	return Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}
}

// Get the two triangle edges that share V0.
func (t *Triangle) Edges() (types.Vec3, types.Vec3) {
	return t.V1.Sub(t.V0), t.V2.Sub(t.V0)
}

// Get the unit normal of the triangle plane. Its orientation follows the
// vertex winding which is not guaranteed to be consistent across a mesh.
// Degenerate triangles yield a zero normal.
func (t *Triangle) Normal() types.Vec3 {
	e1, e2 := t.Edges()
	return e1.Cross(e2).Normalize()
}

// Get triangle area.
func (t *Triangle) Area() float32 {
	e1, e2 := t.Edges()
	return 0.5 * e1.Cross(e2).Len()
}

// Get the triangle bounding box as a [min, max] pair.
func (t *Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(types.MinVec3(t.V0, t.V1), t.V2),
		types.MaxVec3(types.MaxVec3(t.V0, t.V1), t.V2),
	}
}
