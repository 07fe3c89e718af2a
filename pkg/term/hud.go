package term

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/render"
)

var (
	hudBG = lipgloss.Color("#1e1e28")

	hudBase  = lipgloss.NewStyle().Background(hudBG).Foreground(lipgloss.Color("#e4e4e4"))
	fpsStyle = hudBase.Foreground(lipgloss.Color("#5fff87")).Bold(true).Padding(0, 1)
	camStyle = hudBase.Foreground(lipgloss.Color("#5fd7ff")).Padding(0, 1)
	dimStyle = hudBase.Foreground(lipgloss.Color("#8a8a8a")).Padding(0, 1)
)

// formatHUD renders the one-line overlay.
func formatHUD(s engine.Stats, d render.DrawStats, wireframe bool) string {
	check := "[ ]"
	if wireframe {
		check = "[✓]"
	}
	return strings.Join([]string{
		fpsStyle.Render(fmt.Sprintf("%.0f FPS", s.FPS)),
		hudBase.Render(fmt.Sprintf("%s  %d objects  %d tris", formatElapsed(s.Elapsed), s.Entities, d.Triangles)),
		camStyle.Render(fmt.Sprintf("r %.1f  θ %.0f°  φ %.0f°", s.Radius, degrees(s.Theta), degrees(s.Phi))),
		dimStyle.Render(check + " x-ray  ? hud"),
	}, "")
}

func formatElapsed(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func degrees(rad float64) float64 {
	return math.Mod(rad*180/math.Pi, 360)
}
