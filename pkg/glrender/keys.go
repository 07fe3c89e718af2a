package glrender

import (
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/input"
)

// heldKeys are the physical keys polled for each continuous action.
var heldKeys = map[input.Action][]glfw.Key{
	input.OrbitUp:    {glfw.KeyW, glfw.KeyUp},
	input.OrbitDown:  {glfw.KeyS, glfw.KeyDown},
	input.OrbitLeft:  {glfw.KeyA, glfw.KeyLeft},
	input.OrbitRight: {glfw.KeyD, glfw.KeyRight},
	input.ZoomIn:     {glfw.KeyEqual, glfw.KeyKPAdd},
	input.ZoomOut:    {glfw.KeyMinus, glfw.KeyKPSubtract},
	input.Close:      {glfw.KeyEscape},
}

// noAction marks a key press with no toggle.
const noAction input.Action = -1

// toggleFor maps a key press to a one-shot action.
func toggleFor(key glfw.Key, mods glfw.ModifierKey) input.Action {
	switch {
	case key == glfw.KeySlash && mods&glfw.ModShift != 0:
		return input.ToggleHUD
	case key == glfw.KeyX:
		return input.ToggleWireframe
	case key == glfw.KeyEscape:
		return input.Close
	}
	return noAction
}

// hudTitle formats the window title overlay.
func hudTitle(title string, s engine.Stats) string {
	return fmt.Sprintf("%s | %.0f fps | %.1fs | %d objects | r %.1f θ %.2f φ %.2f",
		title, s.FPS, s.Elapsed, s.Entities, s.Radius, s.Theta, math.Mod(s.Phi, 2*math.Pi))
}
