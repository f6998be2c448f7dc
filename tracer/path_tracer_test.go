package tracer

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/go-chunktrace/scene"
	"github.com/achilleasa/go-chunktrace/types"
)

var bigQuadIndices = []uint32{0, 1, 2, 0, 2, 3}

// A quad spanning [-size, size] on the XY plane at the given depth.
func quadAt(z, size float32) []types.Vec3 {
	return []types.Vec3{
		{-size, -size, z},
		{size, -size, z},
		{size, size, z},
		{-size, size, z},
	}
}

// A scene where every camera ray hits a white light.
func fullViewLightScene(t *testing.T) *scene.Scene {
	b := scene.NewBuilder()
	if err := b.AddLightMesh("sky", quadAt(-5, 100), bigQuadIndices, types.XYZ(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

// A red reflector in front of the camera lit by a white light behind it.
func redWallScene(t *testing.T) *scene.Scene {
	b := scene.NewBuilder()
	if err := b.AddLightMesh("sky", quadAt(5, 100), bigQuadIndices, types.XYZ(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := b.AddReflectorMesh("wall", quadAt(-2, 100), bigQuadIndices, types.XYZ(0.8, 0, 0)); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

func testCamera() *scene.Camera {
	camera := scene.NewCamera(60)
	camera.SetupProjection(1)
	return camera
}

func TestTraceFullViewLight(t *testing.T) {
	pt := NewPathTracer(fullViewLightScene(t), DefaultOptions())
	camera := testCamera()
	sampler := NewSampler(rand.New(rand.NewSource(1)))

	for i := 0; i < 100; i++ {
		ray := sampler.CameraRay(camera, sampler.rng.Float32(), sampler.rng.Float32())
		color, info := pt.TracePath(ray, 0, sampler)
		if color != types.XYZ(1, 1, 1) {
			t.Fatalf("[sample %d] expected white; got %v", i, color)
		}
		if info.Termination != LightHit || info.Bounces != 0 || info.Steps != 1 {
			t.Fatalf("[sample %d] expected a direct light hit; got %+v", i, info)
		}
	}
}

func TestTraceEmptyScene(t *testing.T) {
	pt := NewPathTracer(&scene.Scene{}, DefaultOptions())
	sampler := NewSampler(rand.New(rand.NewSource(1)))

	ray := sampler.CameraRay(testCamera(), 0.5, 0.5)
	color, info := pt.TracePath(ray, 3, sampler)
	if color != (types.Vec3{}) {
		t.Fatalf("expected black; got %v", color)
	}
	if info.Termination != Miss || info.Steps != 1 {
		t.Fatalf("expected a miss after a single step; got %+v", info)
	}
}

func TestTraceAbsorbedWithoutBounces(t *testing.T) {
	pt := NewPathTracer(redWallScene(t), DefaultOptions())
	sampler := NewSampler(rand.New(rand.NewSource(1)))

	ray := sampler.CameraRay(testCamera(), 0.5, 0.5)
	color, info := pt.TracePath(ray, 0, sampler)
	if color != (types.Vec3{}) {
		t.Fatalf("expected black; got %v", color)
	}
	if info.Termination != Absorbed {
		t.Fatalf("expected path to be absorbed; got %v", info.Termination)
	}
}

func TestTraceRedWall(t *testing.T) {
	pt := NewPathTracer(redWallScene(t), DefaultOptions())
	camera := testCamera()
	sampler := NewSampler(rand.New(rand.NewSource(3)))

	var sum types.Vec3
	numSamples := 2000
	for i := 0; i < numSamples; i++ {
		ray := sampler.CameraRay(camera, sampler.rng.Float32(), sampler.rng.Float32())
		color := pt.Trace(ray, 1, sampler)
		if color[1] != 0 || color[2] != 0 {
			t.Fatalf("[sample %d] expected only the red channel to be lit; got %v", i, color)
		}
		sum = sum.Add(color)
	}

	mean := sum.Mul(1 / float32(numSamples))
	if mean[0] <= 0 || mean[0] >= 0.8 {
		t.Fatalf("expected mean red intensity in (0, 0.8); got %f", mean[0])
	}
}

func TestTracePathInvariants(t *testing.T) {
	pt := NewPathTracer(redWallScene(t), DefaultOptions())
	camera := testCamera()
	sampler := NewSampler(rand.New(rand.NewSource(5)))

	for _, bounces := range []uint32{0, 1, 2, 5} {
		for i := 0; i < 200; i++ {
			ray := sampler.CameraRay(camera, sampler.rng.Float32(), sampler.rng.Float32())
			color, info := pt.TracePath(ray, bounces, sampler)
			if !color.IsFiniteNonNegative() {
				t.Fatalf("[bounces %d] expected a finite non-negative color; got %v", bounces, color)
			}
			if info.Steps > bounces+1 {
				t.Fatalf("[bounces %d] expected at most %d steps; got %d", bounces, bounces+1, info.Steps)
			}
			if info.Bounces > bounces {
				t.Fatalf("[bounces %d] expected at most %d bounces; got %d", bounces, bounces, info.Bounces)
			}
		}
	}
}

func TestNearestHitPrefersLightsOnTies(t *testing.T) {
	b := scene.NewBuilder()
	b.AddReflectorMesh("wall", quadAt(-3, 10), bigQuadIndices, types.XYZ(0.5, 0.5, 0.5))
	b.AddLightMesh("lamp", quadAt(-3, 10), bigQuadIndices, types.XYZ(1, 1, 1))
	b.AddReflectorMesh("near", quadAt(-8, 10), bigQuadIndices, types.XYZ(0.5, 0.5, 0.5))
	pt := NewPathTracer(b.Build(), DefaultOptions())

	ray := NewRay(types.XYZ(0.1, 0.2, 0), types.XYZ(0, 0, -1))
	hit, found := pt.NearestHit(&ray)
	if !found {
		t.Fatal("expected ray to hit the scene")
	}
	if !hit.IsLight {
		t.Fatal("expected the light to win the tie with the coplanar reflector")
	}
	if hit.Dist < 2.999 || hit.Dist > 3.001 {
		t.Fatalf("expected hit distance 3; got %f", hit.Dist)
	}
}

func TestTerminationString(t *testing.T) {
	specs := map[Termination]string{
		Miss:            "miss",
		LightHit:        "light",
		Absorbed:        "absorbed",
		Termination(42): "unknown",
	}
	for term, exp := range specs {
		if got := term.String(); got != exp {
			t.Fatalf("expected %q; got %q", exp, got)
		}
	}
}

func TestTraceWithExhaustedHemisphereSampler(t *testing.T) {
	pt := NewPathTracer(redWallScene(t), DefaultOptions())
	sampler := NewSampler(rand.New(zeroSource{}))

	ray := NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1))
	color, info := pt.TracePath(ray, 3, sampler)
	if color != (types.Vec3{}) || !color.IsFiniteNonNegative() {
		t.Fatalf("expected black; got %v", color)
	}
	if info.Termination != Miss {
		t.Fatalf("expected path with a zero bounce direction to miss; got %v", info.Termination)
	}
	if info.Bounces != 1 || info.Steps != 2 {
		t.Fatalf("expected a single bounce followed by a miss; got %+v", info)
	}
}

func TestNearestHitSkipsDegenerateReflectors(t *testing.T) {
	material := scene.NewMaterial(types.XYZ(0.5, 0.5, 0.5))
	lamp := scene.NewMaterial(types.XYZ(1, 1, 1))
	sc := &scene.Scene{
		Lights: []scene.Triangle{
			scene.NewTriangle(types.XYZ(-10, -10, -5), types.XYZ(10, -10, -5), types.XYZ(0, 10, -5), lamp),
		},
		Reflectors: []scene.Triangle{
			scene.NewTriangle(types.XYZ(0, 0, -2), types.XYZ(1, 0, -2), types.XYZ(2, 0, -2), material),
		},
	}
	pt := NewPathTracer(sc, DefaultOptions())

	ray := NewRay(types.XYZ(1, 0, 0), types.XYZ(0, 0, -1))
	hit, found := pt.NearestHit(&ray)
	if !found || !hit.IsLight {
		t.Fatalf("expected the light behind the degenerate reflector to be hit; got %+v (found %t)", hit, found)
	}
	if hit.Dist < 4.999 || hit.Dist > 5.001 {
		t.Fatalf("expected hit distance 5; got %f", hit.Dist)
	}
}
