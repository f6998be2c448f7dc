package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/go-chunktrace/types"
)

// Frustrum corner indices.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// Stores the world-space position of the four corners of the camera's near
// image plane. Per pixel rays are generated by bilinear interpolation of the
// corner points.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Corners:\nTL : %v\nTR : %v\nBL : %v\nBR : %v",
		fr[TopLeft], fr[TopRight], fr[BottomLeft], fr[BottomRight],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Camera vertical FOV in degrees.
	FOV float32

	// Distance from the eye to the near image plane.
	Near float32

	Frustrum Frustrum
}

// Create a camera looking down the -Z axis.
func NewCamera(fov float32) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		Near:     1.0,
	}
}

// Create a camera from an eye position and an explicit set of near plane
// corners. This is useful when an external engine already knows its
// viewport geometry.
func NewCameraFromFrustrum(eye types.Vec3, frustrum Frustrum) *Camera {
	center := frustrum[TopLeft].Add(frustrum[TopRight]).Add(frustrum[BottomLeft]).Add(frustrum[BottomRight]).Mul(0.25)
	return &Camera{
		Position: eye,
		LookAt:   center,
		Up:       frustrum[TopLeft].Sub(frustrum[BottomLeft]).Normalize(),
		Near:     center.Sub(eye).Len(),
		Frustrum: frustrum,
	}
}

// Recalculate the frustrum corners for the given viewport aspect ratio. The
// call is a no-op for cameras created from an explicit frustrum.
func (c *Camera) SetupProjection(aspect float32) {
	if c.FOV <= 0 {
		return
	}

	dir := c.LookAt.Sub(c.Position).Normalize()
	right := dir.Cross(c.Up).Normalize()
	up := right.Cross(dir)

	near := c.Near
	if near <= 0 {
		near = 1.0
	}
	halfH := near * float32(math.Tan(float64(c.FOV)*math.Pi/360.0))
	halfW := halfH * aspect

	center := c.Position.Add(dir.Mul(near))
	r := right.Mul(halfW)
	u := up.Mul(halfH)

	c.Frustrum[TopLeft] = center.Sub(r).Add(u)
	c.Frustrum[TopRight] = center.Add(r).Add(u)
	c.Frustrum[BottomLeft] = center.Sub(r).Sub(u)
	c.Frustrum[BottomRight] = center.Add(r).Sub(u)
}

// Map normalized image coordinates to a world-space point on the near plane.
// The u coordinate grows to the right and v grows downwards so (0, 0) maps to
// the top-left corner.
func (c *Camera) Point(u, v float32) types.Vec3 {
	top := c.Frustrum[TopLeft].Lerp(c.Frustrum[TopRight], u)
	bottom := c.Frustrum[BottomLeft].Lerp(c.Frustrum[BottomRight], u)
	return top.Lerp(bottom, v)
}
