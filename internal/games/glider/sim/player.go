package sim

import "github.com/vovakirdan/glider-run/internal/config"

// Mode is the player's movement mode.
type Mode int

const (
	Grounded Mode = iota
	Jumping
	Gliding
)

// String returns the mode name, also used as the player's visual state.
func (m Mode) String() string {
	switch m {
	case Grounded:
		return "grounded"
	case Jumping:
		return "jumping"
	case Gliding:
		return "gliding"
	default:
		return "unknown"
	}
}

// PlayerState is the player's vertical motion. Y is the height above the
// ground baseline and never negative; VY is positive upwards.
type PlayerState struct {
	Y    float64
	VY   float64
	Mode Mode
}

// Airborne reports whether the player is above the ground.
func (p PlayerState) Airborne() bool {
	return p.Y > 0
}

// Physics integrates PlayerState with per-tick constants.
type Physics struct {
	cfg config.PhysicsConfig
}

// NewPhysics creates a physics integrator.
func NewPhysics(cfg config.PhysicsConfig) Physics {
	return Physics{cfg: cfg}
}

// Step advances the player by one tick. Gliding scales gravity down; it
// never changes the jump impulse itself.
func (ph Physics) Step(p *PlayerState) {
	g := ph.cfg.Gravity
	if p.Mode == Gliding {
		g *= ph.cfg.GlideFactor
	}
	p.VY -= g
	p.Y += p.VY

	if p.Y <= 0 {
		p.Y = 0
		p.VY = 0
		p.Mode = Grounded
	}
}

// Jump applies the jump impulse. Only effective from the ground.
func (ph Physics) Jump(p *PlayerState) bool {
	if p.Mode != Grounded || p.Airborne() {
		return false
	}
	p.VY = ph.cfg.JumpForce
	p.Mode = Jumping
	return true
}

// StartGlide switches a rising or falling jump into a glide.
func (ph Physics) StartGlide(p *PlayerState) bool {
	if p.Mode != Jumping || !p.Airborne() {
		return false
	}
	p.Mode = Gliding
	return true
}

// StopGlide drops back to full gravity. The player stays airborne until the
// ground clamp lands them.
func (ph Physics) StopGlide(p *PlayerState) bool {
	if p.Mode != Gliding {
		return false
	}
	p.Mode = Jumping
	return true
}

// Press handles a jump key press: jump from the ground, glide in the air.
func (ph Physics) Press(p *PlayerState) {
	if !ph.Jump(p) {
		ph.StartGlide(p)
	}
}
