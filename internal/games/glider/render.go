package glider

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
	"github.com/vovakirdan/glider-run/internal/games/glider/sim"
)

// Visual characters for rendering
const (
	PlayerChar   = '█'
	WingLeft     = '◄'
	WingRight    = '►'
	ObstacleChar = '▓'
	EmeraldChar  = '◆'
	SparkleChar  = '✦'
	GroundChar   = '═'
	DirtChar     = '░'
)

// sparkle is the feedback left where an emerald was collected.
type sparkle struct {
	bounds core.Rect
	ticks  int
}

// TerminalRenderer implements sim.Renderer for a character screen. It keeps
// a copy of the latest snapshot, so drawing never touches session storage.
type TerminalRenderer struct {
	cfg           config.GliderConfig
	tick          time.Duration
	feedbackTicks int

	snap      sim.Snapshot
	obstacles []sim.Obstacle
	pickups   []sim.Pickup
	sparkles  []sparkle
	message   string
	best      int
}

// NewTerminalRenderer creates a renderer for the given world and tick length.
func NewTerminalRenderer(cfg config.GliderConfig, tick time.Duration) *TerminalRenderer {
	r := &TerminalRenderer{tick: tick}
	r.SetConfig(cfg)
	return r
}

// SetConfig switches the world dimensions and feedback length.
func (r *TerminalRenderer) SetConfig(cfg config.GliderConfig) {
	r.cfg = cfg
	r.feedbackTicks = 0
	if r.tick > 0 {
		r.feedbackTicks = int(cfg.Pickups.Feedback / r.tick)
	}
}

// SetMessage shows a one-line notice on the game over screen.
func (r *TerminalRenderer) SetMessage(msg string) {
	r.message = msg
}

// SetBest sets the best score shown on the game over screen.
func (r *TerminalRenderer) SetBest(best int) {
	r.best = best
}

// Frame implements sim.Renderer.
func (r *TerminalRenderer) Frame(s sim.Snapshot) {
	if s.Phase == sim.Running {
		r.message = ""
		if s.Elapsed == 0 {
			r.sparkles = r.sparkles[:0]
		}
	}

	r.obstacles = append(r.obstacles[:0], s.Obstacles...)
	r.pickups = append(r.pickups[:0], s.Pickups...)
	r.snap = s
	r.snap.Obstacles = r.obstacles
	r.snap.Pickups = r.pickups

	if s.Phase != sim.Running || s.Elapsed == 0 {
		return
	}
	kept := r.sparkles[:0]
	for _, sp := range r.sparkles {
		sp.ticks--
		if sp.ticks > 0 {
			kept = append(kept, sp)
		}
	}
	r.sparkles = kept
}

// Entity implements sim.Renderer.
func (r *TerminalRenderer) Entity(e sim.EntityEvent) {
	if e.Kind == sim.KindPickup && e.Action == sim.Collected && r.feedbackTicks > 0 {
		r.sparkles = append(r.sparkles, sparkle{bounds: e.Bounds, ticks: r.feedbackTicks})
	}
}

// Snapshot returns the latest copied snapshot.
func (r *TerminalRenderer) Snapshot() sim.Snapshot {
	return r.snap
}

// viewport maps world units to screen cells. Row 0 holds the HUD, the ground
// line sits on groundRow and everything above it is sky.
type viewport struct {
	sx, sy    float64
	groundRow int
}

func (r *TerminalRenderer) viewport(dst *core.Screen) viewport {
	groundRow := dst.Height() - 2
	sky := groundRow - 1
	if sky < 1 {
		sky = 1
	}
	return viewport{
		sx:        float64(dst.Width()) / r.cfg.World.Width,
		sy:        float64(sky) / r.cfg.World.Height,
		groundRow: groundRow,
	}
}

// cells converts a world rectangle to the cells it covers. Every visible
// entity gets at least one cell.
func (v viewport) cells(b core.Rect) core.CellRect {
	x0 := int(math.Floor(b.X * v.sx))
	x1 := int(math.Ceil(b.Right() * v.sx))
	top := v.groundRow - int(math.Ceil(b.Top()*v.sy))
	bottom := v.groundRow - 1 - int(math.Floor(b.Y*v.sy))
	return core.NewCellRect(x0, top, max(1, x1-x0), max(1, bottom-top+1))
}

// Draw renders the latest snapshot with the overlay for the given status.
func (r *TerminalRenderer) Draw(dst *core.Screen, st sim.Status, paused bool) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() < 4 {
		return
	}
	v := r.viewport(dst)

	dst.DrawHLine(0, v.groundRow, dst.Width(), GroundChar, core.ColorGreen)
	dst.DrawHLine(0, v.groundRow+1, dst.Width(), DirtChar, core.ColorGray)

	for _, o := range r.snap.Obstacles {
		dst.DrawRect(v.cells(o.Bounds()), ObstacleChar, core.ColorOrange)
	}
	for _, pk := range r.snap.Pickups {
		dst.DrawRect(v.cells(pk.Bounds()), EmeraldChar, core.ColorBrightGreen)
	}
	for _, sp := range r.sparkles {
		c := v.cells(sp.bounds)
		dst.SetColored(c.X+c.W/2, c.Y+c.H/2, SparkleChar, core.ColorBrightYellow)
	}
	r.drawPlayer(dst, v)
	r.drawHUD(dst)

	switch {
	case st.Phase == sim.NotStarted:
		drawCenteredMessage(dst, "G L I D E R   R U N",
			"Space to jump, press again to glide",
			"Collect emeralds, dodge the rocks",
			"Press Space to start")
	case paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case st.Over:
		lines := []string{
			fmt.Sprintf("Emeralds: %d   Best: %d", st.Score, r.best),
			"R restart  S share  Q quit",
		}
		if r.message != "" {
			lines = append(lines, r.message)
		}
		drawCenteredMessage(dst, "GAME OVER", lines...)
	}
}

func (r *TerminalRenderer) drawPlayer(dst *core.Screen, v viewport) {
	box := v.cells(r.snap.PlayerBox)

	color := core.ColorGreen
	switch r.snap.Player.Mode {
	case sim.Jumping:
		color = core.ColorBrightGreen
	case sim.Gliding:
		color = core.ColorBrightCyan
	}
	dst.DrawRect(box, PlayerChar, color)

	if r.snap.Player.Mode == sim.Gliding {
		mid := box.Y + box.H/2
		dst.SetColored(box.X-1, mid, WingLeft, core.ColorCyan)
		dst.SetColored(box.Right(), mid, WingRight, core.ColorCyan)
	}
}

func (r *TerminalRenderer) drawHUD(dst *core.Screen) {
	dst.DrawTextColored(1, 0, fmt.Sprintf(" Emeralds: %d ", r.snap.Score), core.ColorBrightGreen)

	info := fmt.Sprintf(" Spd %.1f  Rocks every %.1fs  %s ",
		r.snap.Speed, r.snap.SpawnPeriod.Seconds(), formatElapsed(r.snap.Elapsed))
	dst.DrawTextColored(dst.Width()-utf8.RuneCountInString(info)-1, 0, info, core.ColorGray)
}

func formatElapsed(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// drawCenteredMessage draws a framed message box in the middle of the screen.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	boxW := utf8.RuneCountInString(title)
	for _, l := range lines {
		boxW = max(boxW, utf8.RuneCountInString(l))
	}
	boxW += 4
	boxH := len(lines) + 4
	box := core.NewCellRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)

	dst.DrawTextCentered(box.Y+1, title, core.ColorBrightYellow)
	for i, l := range lines {
		dst.DrawTextCentered(box.Y+3+i, l, core.ColorDefault)
	}
}
