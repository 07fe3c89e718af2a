package glrender

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/input"
	"github.com/taigrr/meadow/pkg/scene"
)

func TestToggleFor(t *testing.T) {
	tests := []struct {
		key  glfw.Key
		mods glfw.ModifierKey
		want input.Action
	}{
		{glfw.KeySlash, glfw.ModShift, input.ToggleHUD},
		{glfw.KeySlash, 0, noAction},
		{glfw.KeyX, 0, input.ToggleWireframe},
		{glfw.KeyEscape, 0, input.Close},
		{glfw.KeyW, 0, noAction},
	}

	for _, tt := range tests {
		if got := toggleFor(tt.key, tt.mods); got != tt.want {
			t.Errorf("toggleFor(%v, %v) = %v, want %v", tt.key, tt.mods, got, tt.want)
		}
	}
}

func TestHeldKeysCoverMovement(t *testing.T) {
	for _, a := range []input.Action{
		input.OrbitUp, input.OrbitDown, input.OrbitLeft, input.OrbitRight,
		input.ZoomIn, input.ZoomOut, input.Close,
	} {
		if len(heldKeys[a]) == 0 {
			t.Errorf("no key polled for %s", a)
		}
	}
}

func TestHUDTitle(t *testing.T) {
	got := hudTitle("meadow", engine.Stats{FPS: 59.7, Elapsed: 3.24, Entities: 245, Radius: 12, Theta: 0.5, Phi: 0.8})
	want := "meadow | 60 fps | 3.2s | 245 objects | r 12.0 θ 0.50 φ 0.80"
	if got != want {
		t.Errorf("hudTitle = %q, want %q", got, want)
	}
}

func TestGLWrap(t *testing.T) {
	tests := map[scene.WrapMode]int32{
		scene.WrapRepeat:         gl.REPEAT,
		scene.WrapMirroredRepeat: gl.MIRRORED_REPEAT,
		scene.WrapClampToEdge:    gl.CLAMP_TO_EDGE,
	}
	for mode, want := range tests {
		if got := glWrap(mode); got != want {
			t.Errorf("glWrap(%v) = %d, want %d", mode, got, want)
		}
	}
}

func TestFlipNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 3, 5)) // offset origin, 1x2
	img.Set(2, 3, color.NRGBA{255, 0, 0, 255})
	img.Set(2, 4, color.NRGBA{200, 100, 50, 128})

	out := flipNRGBA(img)
	if out.Bounds() != image.Rect(0, 0, 1, 2) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	// Half transparent texels keep their straight color.
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{200, 100, 50, 128}) {
		t.Errorf("row 0 = %v, want unpremultiplied orange", got)
	}
	if got := out.NRGBAAt(0, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("row 1 = %v, want red", got)
	}
}

type fakeResource struct {
	name  string
	freed *[]string
}

func (r fakeResource) Delete() { *r.freed = append(*r.freed, r.name) }

func TestContextRelease(t *testing.T) {
	var freed []string
	c := &Context{}
	for _, name := range []string{"program", "mesh", "texture"} {
		c.own(fakeResource{name: name, freed: &freed})
	}

	c.release()
	want := []string{"texture", "mesh", "program"}
	if !slices.Equal(freed, want) {
		t.Errorf("freed %v, want %v", freed, want)
	}

	c.release()
	if len(freed) != len(want) {
		t.Errorf("second release freed again: %v", freed)
	}
}
