package scene

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/go-chunktrace/types"
	"github.com/olekukonko/tablewriter"
)

// The scene holds the world-space triangles that make up the rendered
// geometry. Triangles in the Lights list terminate any path that hits them
// while triangles in the Reflectors list scatter incoming rays.
//
// A scene is immutable once built; renderers share it between workers without
// any synchronization.
type Scene struct {
	Lights     []Triangle
	Reflectors []Triangle
}

// Get the total number of triangles in the scene.
func (s *Scene) TriangleCount() int {
	return len(s.Lights) + len(s.Reflectors)
}

// Get a printable table with scene statistics.
func (s *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Collection", "Triangles", "Surface area", "BBox min", "BBox max"})

	addRow := func(name string, tris []Triangle) {
		if len(tris) == 0 {
			table.Append([]string{name, "0", "-", "-", "-"})
			return
		}
		var area float32
		bbox := tris[0].BBox()
		for idx := range tris {
			area += tris[idx].Area()
			triBBox := tris[idx].BBox()
			bbox[0] = types.MinVec3(bbox[0], triBBox[0])
			bbox[1] = types.MaxVec3(bbox[1], triBBox[1])
		}
		table.Append([]string{
			name,
			fmt.Sprintf("%d", len(tris)),
			fmt.Sprintf("%3.3f", area),
			bbox[0].String(),
			bbox[1].String(),
		})
	}
	addRow("lights", s.Lights)
	addRow("reflectors", s.Reflectors)
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", s.TriangleCount()), "", "", ""})

	table.Render()
	return buf.String()
}

var (
	ErrInvalidIndexCount = errors.New("scene: mesh index count must be a multiple of 3")
	ErrNegativeColor     = errors.New("scene: material color components must be non-negative")
)

// The builder assembles a scene from indexed world-space vertex data. Callers
// are responsible for transforming mesh vertices into world space before
// handing them to the builder.
type Builder struct {
	lights     []Triangle
	reflectors []Triangle
}

// Create a new scene builder.
func NewBuilder() *Builder {
	return &Builder{
		lights:     make([]Triangle, 0),
		reflectors: make([]Triangle, 0),
	}
}

// Add a light emitting mesh.
func (b *Builder) AddLightMesh(name string, vertices []types.Vec3, indices []uint32, color types.Vec3) error {
	tris, err := triangulate(name, vertices, indices, color)
	if err != nil {
		return err
	}
	b.lights = append(b.lights, tris...)
	return nil
}

// Add a reflective mesh.
func (b *Builder) AddReflectorMesh(name string, vertices []types.Vec3, indices []uint32, color types.Vec3) error {
	tris, err := triangulate(name, vertices, indices, color)
	if err != nil {
		return err
	}
	b.reflectors = append(b.reflectors, tris...)
	return nil
}

// Build the scene. The builder can be reused afterwards without affecting
// the returned scene.
func (b *Builder) Build() *Scene {
	sc := &Scene{
		Lights:     make([]Triangle, len(b.lights)),
		Reflectors: make([]Triangle, len(b.reflectors)),
	}
	copy(sc.Lights, b.lights)
	copy(sc.Reflectors, b.reflectors)
	return sc
}

// Expand an indexed mesh into a list of triangles sharing a flat material.
func triangulate(name string, vertices []types.Vec3, indices []uint32, color types.Vec3) ([]Triangle, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w (mesh %q has %d indices)", ErrInvalidIndexCount, name, len(indices))
	}
	if color[0] < 0 || color[1] < 0 || color[2] < 0 {
		return nil, fmt.Errorf("%w (mesh %q)", ErrNegativeColor, name)
	}

	material := NewMaterial(color)
	tris := make([]Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		for _, index := range indices[i : i+3] {
			if int(index) >= len(vertices) {
				return nil, fmt.Errorf("scene: mesh %q references vertex %d; mesh only defines %d vertices", name, index, len(vertices))
			}
		}
		tris = append(tris, NewTriangle(
			vertices[indices[i]],
			vertices[indices[i+1]],
			vertices[indices[i+2]],
			material,
		))
	}
	return tris, nil
}
