package tracer

import (
	"math"

	"github.com/achilleasa/go-chunktrace/scene"
	"github.com/achilleasa/go-chunktrace/types"
)

// The reason a path stopped bouncing.
type Termination uint8

const (
	// The path escaped the scene.
	Miss Termination = iota

	// The path reached a light source.
	LightHit

	// The path ran out of bounces.
	Absorbed
)

func (t Termination) String() string {
	switch t {
	case Miss:
		return "miss"
	case LightHit:
		return "light"
	case Absorbed:
		return "absorbed"
	}
	return "unknown"
}

// Closest intersection along a ray.
type Hit struct {
	Dist     float32
	Triangle *scene.Triangle
	IsLight  bool
}

// Information about a traced path.
type PathInfo struct {
	Termination Termination

	// Number of surface bounces.
	Bounces uint32

	// Number of closest-hit queries.
	Steps uint32
}

// The path tracer estimates the radiance carried along camera rays by
// stochastically bouncing them off scene reflectors until they reach a light,
// escape the scene or exhaust their bounce budget. It is safe for concurrent
// use as long as each goroutine supplies its own sampler.
type PathTracer struct {
	scene *scene.Scene
	opts  Options
}

// Create a path tracer for a scene.
func NewPathTracer(sc *scene.Scene, opts Options) *PathTracer {
	return &PathTracer{
		scene: sc,
		opts:  opts,
	}
}

// Find the closest hit across all light and reflector triangles. Light
// triangles are tested first and a later triangle only replaces the current
// hit if it is strictly closer.
func (pt *PathTracer) NearestHit(ray *Ray) (Hit, bool) {
	hit := Hit{Dist: math.MaxFloat32}
	found := false

	for idx := range pt.scene.Lights {
		dist, ok := Intersect(ray, &pt.scene.Lights[idx], pt.opts.RayEpsilon, pt.opts.ParallelEpsilon)
		if !ok || dist >= hit.Dist {
			continue
		}
		hit = Hit{Dist: dist, Triangle: &pt.scene.Lights[idx], IsLight: true}
		found = true
	}

	for idx := range pt.scene.Reflectors {
		dist, ok := Intersect(ray, &pt.scene.Reflectors[idx], pt.opts.RayEpsilon, pt.opts.ParallelEpsilon)
		if !ok || dist >= hit.Dist {
			continue
		}
		hit = Hit{Dist: dist, Triangle: &pt.scene.Reflectors[idx], IsLight: false}
		found = true
	}

	return hit, found
}

// Trace a ray and return its radiance estimate.
func (pt *PathTracer) Trace(ray Ray, bounces uint32, sampler *Sampler) types.Vec3 {
	color, _ := pt.TracePath(ray, bounces, sampler)
	return color
}

// Trace a ray allowing up to bounces diffuse reflections and return its
// radiance estimate together with information about how the path ended.
//
// Every surface hit tints the ray throughput with the surface color. Light
// hits return the throughput, misses and paths that exhaust their budget
// return black. Diffuse bounces pick a direction in the hemisphere facing
// the incoming ray and attenuate the throughput by the cosine between the
// new direction and the surface normal.
func (pt *PathTracer) TracePath(ray Ray, bounces uint32, sampler *Sampler) (types.Vec3, PathInfo) {
	var info PathInfo
	for {
		info.Steps++

		hit, found := pt.NearestHit(&ray)
		if !found {
			info.Termination = Miss
			return types.Vec3{}, info
		}

		ray.Throughput = ray.Throughput.MulVec(hit.Triangle.Material.Color)
		if hit.IsLight {
			info.Termination = LightHit
			return ray.Throughput, info
		}

		if bounces == 0 {
			info.Termination = Absorbed
			return types.Vec3{}, info
		}

		// Triangle winding is arbitrary; make the normal face the incoming ray
		normal := hit.Triangle.Normal()
		if ray.Dir.Dot(normal) > 0 {
			normal = normal.Neg()
		}

		dir := sampler.HemisphereDir(normal)
		cosTheta := dir.Dot(normal)
		if cosTheta < 0 {
			cosTheta = 0
		}

		ray.Origin = ray.At(hit.Dist)
		ray.Dir = dir
		ray.Throughput = ray.Throughput.Mul(cosTheta)

		bounces--
		info.Bounces++
	}
}
