package reader

import (
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/go-chunktrace/log"
	"github.com/achilleasa/go-chunktrace/scene"
	"github.com/achilleasa/go-chunktrace/types"
	"gopkg.in/yaml.v2"
)

// Max depth for nested include directives.
const maxIncludeDepth = 8

// The document layout of a yaml scene file. All vertex data is expressed in
// world space.
type sceneDoc struct {
	Include    []string   `yaml:"include"`
	Camera     *cameraDoc `yaml:"camera"`
	Lights     []meshDoc  `yaml:"lights"`
	Reflectors []meshDoc  `yaml:"reflectors"`
}

type cameraDoc struct {
	Eye    []float32 `yaml:"eye"`
	LookAt []float32 `yaml:"look_at"`
	Up     []float32 `yaml:"up"`
	FOV    float32   `yaml:"fov"`
	Near   float32   `yaml:"near"`

	// Explicit near plane corners; overrides look_at/up/fov when present.
	Frustrum *struct {
		TopLeft     []float32 `yaml:"top_left"`
		TopRight    []float32 `yaml:"top_right"`
		BottomLeft  []float32 `yaml:"bottom_left"`
		BottomRight []float32 `yaml:"bottom_right"`
	} `yaml:"frustrum"`
}

type meshDoc struct {
	Name     string      `yaml:"name"`
	Color    []float32   `yaml:"color"`
	Vertices [][]float32 `yaml:"vertices"`
	Indices  []uint32    `yaml:"indices"`
}

// Parse result for a scene file.
type Result struct {
	Scene *scene.Scene

	// The scene camera; nil if the scene file does not define one.
	Camera *scene.Camera
}

type yamlSceneReader struct {
	logger  log.Logger
	builder *scene.Builder
	camera  *scene.Camera
}

// Read scene from a local file or http(s) URL.
func ReadScene(pathToScene string) (*Result, error) {
	res, err := newResource(pathToScene, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newYamlSceneReader().read(res)
}

// Read scene from a stream. Include directives are resolved relative to the
// current working directory.
func ReadSceneFrom(name string, source io.Reader) (*Result, error) {
	return newYamlSceneReader().read(newResourceFromStream(name, source))
}

func newYamlSceneReader() *yamlSceneReader {
	return &yamlSceneReader{
		logger:  log.New("scene reader"),
		builder: scene.NewBuilder(),
	}
}

func (r *yamlSceneReader) read(res *resource) (*Result, error) {
	r.logger.Infof("parsing scene from %s", res.Path())
	start := time.Now()

	err := r.parse(res, 0)
	if err != nil {
		return nil, err
	}

	sc := r.builder.Build()
	r.logger.Infof("parsed %d triangles in %d ms", sc.TriangleCount(), time.Since(start).Nanoseconds()/1000000)

	return &Result{
		Scene:  sc,
		Camera: r.camera,
	}, nil
}

func (r *yamlSceneReader) parse(res *resource, depth int) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("[%s] error: include depth exceeds %d; check for include cycles", res.Path(), maxIncludeDepth)
	}

	var doc sceneDoc
	err := yaml.NewDecoder(res).Decode(&doc)
	if err != nil && err != io.EOF {
		return fmt.Errorf("[%s] error: %w", res.Path(), err)
	}

	for _, include := range doc.Include {
		incRes, err := newResource(include, res)
		if err != nil {
			return fmt.Errorf("[%s] error: could not include %q: %w", res.Path(), include, err)
		}
		err = r.parse(incRes, depth+1)
		incRes.Close()
		if err != nil {
			return err
		}
	}

	if doc.Camera != nil {
		if r.camera != nil {
			r.logger.Warningf("[%s] camera definition overrides a previously defined camera", res.Path())
		}
		r.camera, err = doc.Camera.toCamera()
		if err != nil {
			return fmt.Errorf("[%s] error: camera: %w", res.Path(), err)
		}
	}

	for index, mesh := range doc.Lights {
		vertices, color, err := mesh.decode()
		if err == nil {
			err = r.builder.AddLightMesh(mesh.label("light", index), vertices, mesh.Indices, color)
		}
		if err != nil {
			return fmt.Errorf("[%s] error: lights[%d]: %w", res.Path(), index, err)
		}
	}

	for index, mesh := range doc.Reflectors {
		vertices, color, err := mesh.decode()
		if err == nil {
			err = r.builder.AddReflectorMesh(mesh.label("reflector", index), vertices, mesh.Indices, color)
		}
		if err != nil {
			return fmt.Errorf("[%s] error: reflectors[%d]: %w", res.Path(), index, err)
		}
	}

	return nil
}

func (m *meshDoc) label(kind string, index int) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("%s-%d", kind, index)
}

func (m *meshDoc) decode() ([]types.Vec3, types.Vec3, error) {
	color, err := parseVec3("color", m.Color)
	if err != nil {
		return nil, color, err
	}

	vertices := make([]types.Vec3, len(m.Vertices))
	for index, v := range m.Vertices {
		vertices[index], err = parseVec3(fmt.Sprintf("vertices[%d]", index), v)
		if err != nil {
			return nil, color, err
		}
	}

	// Meshes without explicit indices are treated as plain triangle lists
	if m.Indices == nil {
		m.Indices = make([]uint32, len(vertices))
		for index := range m.Indices {
			m.Indices[index] = uint32(index)
		}
	}

	return vertices, color, nil
}

func (c *cameraDoc) toCamera() (*scene.Camera, error) {
	eye, err := parseVec3("eye", c.Eye)
	if err != nil {
		return nil, err
	}

	if c.Frustrum != nil {
		var frustrum scene.Frustrum
		corners := [][]float32{c.Frustrum.TopLeft, c.Frustrum.TopRight, c.Frustrum.BottomLeft, c.Frustrum.BottomRight}
		names := []string{"top_left", "top_right", "bottom_left", "bottom_right"}
		for index, corner := range corners {
			frustrum[index], err = parseVec3("frustrum."+names[index], corner)
			if err != nil {
				return nil, err
			}
		}
		return scene.NewCameraFromFrustrum(eye, frustrum), nil
	}

	fov := c.FOV
	if fov == 0 {
		fov = 45.0
	}
	if fov < 0 || fov >= 180 {
		return nil, fmt.Errorf("fov must be in the (0, 180) range; got %f", fov)
	}

	cam := scene.NewCamera(fov)
	cam.Position = eye
	if c.LookAt != nil {
		if cam.LookAt, err = parseVec3("look_at", c.LookAt); err != nil {
			return nil, err
		}
	} else {
		cam.LookAt = eye.Add(types.XYZ(0, 0, -1))
	}
	if c.Up != nil {
		if cam.Up, err = parseVec3("up", c.Up); err != nil {
			return nil, err
		}
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}

	if cam.LookAt.Sub(cam.Position).Len() == 0 {
		return nil, fmt.Errorf("look_at must differ from eye")
	}
	return cam, nil
}

func parseVec3(field string, values []float32) (types.Vec3, error) {
	if len(values) != 3 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", field, len(values))
	}
	return types.XYZ(values[0], values[1], values[2]), nil
}
