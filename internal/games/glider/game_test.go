package glider

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
	"github.com/vovakirdan/glider-run/internal/games/glider/sim"
	"github.com/vovakirdan/glider-run/internal/registry"
)

type stubSharer struct {
	scores []int
	err    error
}

func (s *stubSharer) Share(score int) error {
	s.scores = append(s.scores, score)
	return s.err
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}
}

func newTestGame(sharer sim.Sharer) *Game {
	cfg := config.DefaultGliderConfig()
	g := NewWithOptions(Options{Config: &cfg, Sharer: sharer})
	g.Reset(testRuntime())
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func runUntilOver(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 60*30; i++ {
		if g.Step(frame()).State.GameOver {
			return
		}
	}
	t.Fatal("game never ended")
}

func TestGameRegistered(t *testing.T) {
	g, err := registry.Create(ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Title() != "Glider Run" {
		t.Errorf("Title = %q, expected Glider Run", g.Title())
	}
}

func TestGameWaitsForStart(t *testing.T) {
	g := newTestGame(nil)

	for i := 0; i < 10; i++ {
		g.Step(frame())
	}
	if g.State().Running || g.Session().Ticks() != 0 {
		t.Fatalf("game ran before start: %+v", g.State())
	}

	res := g.Step(frame(core.ActionJump))
	if !res.State.Running {
		t.Fatal("Jump on the title screen should start the game")
	}
	if g.Session().Ticks() != 1 {
		t.Errorf("ticks = %d, expected 1", g.Session().Ticks())
	}
	if g.Session().Player().Mode != sim.Grounded {
		t.Errorf("starting press also jumped: %v", g.Session().Player().Mode)
	}
}

func TestGameJumpAndGlide(t *testing.T) {
	g := newTestGame(nil)
	g.Step(frame(core.ActionConfirm))

	g.Step(frame(core.ActionJump))
	if !g.Session().Player().Airborne() {
		t.Fatal("player should be airborne after a jump")
	}

	g.Step(frame(core.ActionJump))
	if g.Session().Player().Mode != sim.Gliding {
		t.Errorf("mode = %v after second press, expected gliding", g.Session().Player().Mode)
	}

	// Press then release in one frame: order matters.
	g.Step(frame(core.ActionRelease, core.ActionJump))
	if g.Session().Player().Mode != sim.Gliding {
		t.Errorf("mode = %v after release+press, expected gliding", g.Session().Player().Mode)
	}
	g.Step(frame(core.ActionJump, core.ActionRelease))
	if g.Session().Player().Mode != sim.Jumping {
		t.Errorf("mode = %v after press+release, expected jumping", g.Session().Player().Mode)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(nil)
	g.Step(frame(core.ActionConfirm))

	g.Step(frame(core.ActionPause))
	ticks := g.Session().Ticks()
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	for i := 0; i < 30; i++ {
		g.Step(frame(core.ActionJump))
	}
	if g.Session().Ticks() != ticks {
		t.Errorf("ticks advanced while paused: %d -> %d", ticks, g.Session().Ticks())
	}
	if g.Session().Player().Airborne() {
		t.Error("jump applied while paused")
	}

	g.Step(frame(core.ActionPause))
	if g.State().Paused || g.Session().Ticks() != ticks+1 {
		t.Errorf("after unpause paused=%v ticks=%d, expected false and %d", g.State().Paused, g.Session().Ticks(), ticks+1)
	}
}

func TestGameRestartAndShare(t *testing.T) {
	sharer := &stubSharer{}
	g := newTestGame(sharer)
	g.Step(frame(core.ActionConfirm))

	g.Step(frame(core.ActionShare))
	if len(sharer.scores) != 0 {
		t.Error("share allowed while running")
	}

	runUntilOver(t, g)

	g.Step(frame(core.ActionShare))
	if len(sharer.scores) != 1 || sharer.scores[0] != g.State().Score {
		t.Errorf("shared %v, expected [%d]", sharer.scores, g.State().Score)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Opened share page") {
		t.Error("share notice missing from the game over screen")
	}

	sharer.err = errors.New("no browser")
	g.Step(frame(core.ActionShare))
	g.Render(screen)
	if !strings.Contains(screen.String(), "Share failed") {
		t.Error("share failure notice missing")
	}

	g.Step(frame(core.ActionRestart))
	st := g.State()
	if !st.Running || st.GameOver || st.Score != 0 {
		t.Errorf("after restart = %+v, expected a fresh running game", st)
	}
}

func TestGameRenderScreens(t *testing.T) {
	g := newTestGame(nil)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.String(), "G L I D E R") {
		t.Error("title screen missing")
	}

	g.Step(frame(core.ActionConfirm))
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Emeralds: 0") {
		t.Error("HUD missing emerald count")
	}
	if strings.Contains(out, "G L I D E R") {
		t.Error("title overlay still shown while running")
	}

	runUntilOver(t, g)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over overlay missing")
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() core.GameState {
		g := newTestGame(nil)
		g.Step(frame(core.ActionConfirm))
		var st core.GameState
		for i := 0; i < 60*40; i++ {
			in := frame()
			if i%45 == 0 {
				in.Set(core.ActionJump)
			}
			if i%45 == 10 {
				in.Set(core.ActionJump)
			}
			if i%45 == 40 {
				in.Set(core.ActionRelease)
			}
			st = g.Step(in).State
			if st.GameOver {
				break
			}
		}
		return st
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
}

func TestGameReloadKeepsGameOverScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glider.yaml")
	if err := os.WriteFile(path, []byte("difficulty:\n  base_speed: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	g := NewWithOptions(Options{ConfigPath: path})
	g.Reset(testRuntime())
	g.Step(frame(core.ActionConfirm))
	g.Session().SpawnObstacle()
	runUntilOver(t, g)

	before := g.renderer.Snapshot()
	speed := g.Session().ScrollSpeed()

	if err := os.WriteFile(path, []byte("world:\n  width: 640\ndifficulty:\n  base_speed: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := g.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	after := g.renderer.Snapshot()
	if !g.State().GameOver {
		t.Fatal("game left the game over screen on reload")
	}
	if len(after.Obstacles) != len(before.Obstacles) || g.Session().ScrollSpeed() != speed {
		t.Errorf("scene changed on reload: obstacles %d -> %d, speed %v -> %v",
			len(before.Obstacles), len(after.Obstacles), speed, g.Session().ScrollSpeed())
	}
	if g.renderer.cfg.World.Width != 800 {
		t.Errorf("renderer world width = %v while over, expected 800", g.renderer.cfg.World.Width)
	}

	g.Step(frame(core.ActionRestart))
	if sp := g.Session().ScrollSpeed(); sp < 3 || sp > 3.01 {
		t.Errorf("speed after restart = %v, expected about 3", sp)
	}
	if g.renderer.cfg.World.Width != 640 {
		t.Errorf("renderer world width after restart = %v, expected 640", g.renderer.cfg.World.Width)
	}
}
