package input

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// held is a KeyState with a fixed set of keys down.
type held map[Action]bool

func (h held) Down(a Action) bool { return h[a] }

func TestUnsmoothedDeltas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Smoothing = false

	tests := []struct {
		name               string
		keys               held
		theta, phi, radius float64
	}{
		{"idle", held{}, 0, 0, 0},
		{"w", held{OrbitUp: true}, -0.15, 0, 0},
		{"s", held{OrbitDown: true}, 0.15, 0, 0},
		{"a", held{OrbitLeft: true}, 0, -0.15, 0},
		{"d", held{OrbitRight: true}, 0, 0.15, 0},
		{"zoom in", held{ZoomIn: true}, 0, 0, -1},
		{"zoom out", held{ZoomOut: true}, 0, 0, 1},
		{"opposing keys cancel", held{OrbitUp: true, OrbitDown: true}, 0, 0, 0},
		{"diagonal", held{OrbitUp: true, OrbitRight: true, ZoomOut: true}, -0.15, 0.15, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(cfg, tt.keys)
			d, closed := c.Update(0.1)
			assert.False(t, closed)
			assert.InDelta(t, tt.theta, d.Theta, 1e-12)
			assert.InDelta(t, tt.phi, d.Phi, 1e-12)
			assert.InDelta(t, tt.radius, d.Radius, 1e-12)
		})
	}
}

func TestCloseRequest(t *testing.T) {
	c := NewController(DefaultConfig(), held{Close: true, OrbitUp: true})
	d, closed := c.Update(0.016)
	assert.True(t, closed)
	assert.True(t, d.IsZero())
}

func TestBadDtIsIgnored(t *testing.T) {
	c := NewController(DefaultConfig(), held{OrbitUp: true})
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		d, closed := c.Update(dt)
		assert.False(t, closed)
		assert.True(t, d.IsZero(), "dt %v", dt)
	}
}

func TestSmoothingEasesTowardTarget(t *testing.T) {
	keys := held{OrbitRight: true}
	c := NewController(DefaultConfig(), keys)

	first, _ := c.Update(1.0 / 60)
	assert.Greater(t, first.Phi, 0.0)
	assert.Less(t, first.Phi, 1.5/60, "first frame should lag the target rate")

	prev := first.Phi
	for range 240 {
		d, _ := c.Update(1.0 / 60)
		// Critically damped: the rate rises monotonically without overshoot.
		assert.GreaterOrEqual(t, d.Phi, prev-1e-12)
		assert.LessOrEqual(t, d.Phi, 1.5/60+1e-9)
		prev = d.Phi
	}
	_, phi, _ := c.Rates()
	assert.InDelta(t, 1.5, phi, 1e-3)

	// Releasing the key decays back to rest.
	delete(keys, OrbitRight)
	for range 240 {
		c.Update(1.0 / 60)
	}
	_, phi, _ = c.Rates()
	assert.InDelta(t, 0, phi, 1e-3)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.RotateSpeed = -1 },
		func(c *Config) { c.ZoomSpeed = math.NaN() },
		func(c *Config) { c.HoldMillis = 0 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
	assert.Equal(t, 150*time.Millisecond, DefaultConfig().Hold())
}

func TestTrackerHoldWindow(t *testing.T) {
	now := time.Unix(100, 0)
	tr := NewTracker(150 * time.Millisecond)
	tr.now = func() time.Time { return now }

	assert.False(t, tr.Down(OrbitUp))

	tr.Press(OrbitUp)
	assert.True(t, tr.Down(OrbitUp))

	now = now.Add(100 * time.Millisecond)
	assert.True(t, tr.Down(OrbitUp))

	// A key repeat extends the window.
	tr.Press(OrbitUp)
	now = now.Add(100 * time.Millisecond)
	assert.True(t, tr.Down(OrbitUp))

	now = now.Add(60 * time.Millisecond)
	assert.False(t, tr.Down(OrbitUp))

	tr.Press(ZoomIn)
	tr.Release(ZoomIn)
	assert.False(t, tr.Down(ZoomIn))
	assert.False(t, tr.Down(Action(99)))
}

func TestDefaultBindingsCoverEveryAction(t *testing.T) {
	seen := map[Action]bool{}
	for _, b := range DefaultBindings() {
		seen[b.Action] = true
	}
	for a := Action(0); a < numActions; a++ {
		assert.True(t, seen[a], "no key for %s", a)
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup(DefaultBindings(), "x")
	assert.True(t, ok)
	assert.Equal(t, ToggleWireframe, a)
	assert.Equal(t, "toggle-wireframe", a.String())

	_, ok = Lookup(DefaultBindings(), "q")
	assert.False(t, ok)
}
