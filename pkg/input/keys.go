// Package input turns keyboard state into camera deltas.
package input

import (
	"sync"
	"time"
)

// Action is a logical control, independent of the key that triggers it.
type Action int

const (
	OrbitUp    Action = iota // theta -
	OrbitDown                // theta +
	OrbitLeft                // phi -
	OrbitRight               // phi +
	ZoomIn                   // radius -
	ZoomOut                  // radius +
	Close
	ToggleHUD
	ToggleWireframe
	numActions
)

var actionNames = [...]string{
	OrbitUp:    "orbit-up",
	OrbitDown:  "orbit-down",
	OrbitLeft:  "orbit-left",
	OrbitRight: "orbit-right",
	ZoomIn:     "zoom-in",
	ZoomOut:    "zoom-out",
	Close:      "close",
	ToggleHUD:  "toggle-hud",

	ToggleWireframe: "toggle-wireframe",
}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return "unknown"
	}
	return actionNames[a]
}

// Binding maps a key name, as spelled by the terminal backend, to an action.
type Binding struct {
	Key    string
	Action Action
}

// DefaultBindings returns WASD plus arrow aliases, =/- zoom, escape and
// ctrl+c to quit, ? for the HUD and x for wireframe.
func DefaultBindings() []Binding {
	return []Binding{
		{"w", OrbitUp}, {"up", OrbitUp},
		{"s", OrbitDown}, {"down", OrbitDown},
		{"a", OrbitLeft}, {"left", OrbitLeft},
		{"d", OrbitRight}, {"right", OrbitRight},
		{"=", ZoomIn}, {"+", ZoomIn},
		{"-", ZoomOut}, {"_", ZoomOut},
		{"escape", Close}, {"ctrl+c", Close},
		{"?", ToggleHUD}, {"shift+/", ToggleHUD},
		{"x", ToggleWireframe},
	}
}

// Lookup returns the action bound to key.
func Lookup(bindings []Binding, key string) (Action, bool) {
	for _, b := range bindings {
		if b.Key == key {
			return b.Action, true
		}
	}
	return 0, false
}

// KeyState reports whether an action's key is currently held.
type KeyState interface {
	Down(a Action) bool
}

// Tracker is a KeyState for sources that only report presses and repeats.
// An action stays down for the hold window after its last press. A release
// event, when the source has one, ends it early.
type Tracker struct {
	mu   sync.Mutex
	hold time.Duration
	now  func() time.Time
	last [numActions]time.Time
}

// NewTracker returns a tracker with the given hold window.
func NewTracker(hold time.Duration) *Tracker {
	return &Tracker{hold: hold, now: time.Now}
}

// Press records a press or key repeat.
func (t *Tracker) Press(a Action) {
	if a < 0 || a >= numActions {
		return
	}
	t.mu.Lock()
	t.last[a] = t.now()
	t.mu.Unlock()
}

// Release clears the action immediately.
func (t *Tracker) Release(a Action) {
	if a < 0 || a >= numActions {
		return
	}
	t.mu.Lock()
	t.last[a] = time.Time{}
	t.mu.Unlock()
}

// Down implements KeyState.
func (t *Tracker) Down(a Action) bool {
	if a < 0 || a >= numActions {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	last := t.last[a]
	return !last.IsZero() && t.now().Sub(last) < t.hold
}
