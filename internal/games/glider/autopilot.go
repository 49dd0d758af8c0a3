package glider

import "github.com/vovakirdan/glider-run/internal/games/glider/sim"

// Autopilot plays a session well enough to exercise it headlessly. It jumps
// when the next obstacle is a few ticks from contact, glides while falling
// toward one and stops gliding once nothing is ahead.
type Autopilot struct {
	LeadTicks  float64 // Jump this many ticks before hazard contact
	GlideRange float64 // Glide while an obstacle is this close, in world units
}

// DefaultAutopilot returns an autopilot tuned for the default config.
func DefaultAutopilot() Autopilot {
	return Autopilot{LeadTicks: 8, GlideRange: 150}
}

// Act issues at most one input to the session for the coming tick.
func (a Autopilot) Act(s *sim.Session) {
	if s.Phase() != sim.Running {
		return
	}

	p := s.Player()
	gap, ahead := a.nextGap(s)

	switch p.Mode {
	case sim.Grounded:
		if ahead && gap <= a.LeadTicks*s.ScrollSpeed() {
			s.Press()
		}
	case sim.Jumping:
		if p.VY < 0 && ahead && gap <= a.GlideRange {
			s.Press()
		}
	case sim.Gliding:
		if !ahead || gap > a.GlideRange {
			s.Release()
		}
	}
}

// nextGap returns the horizontal distance between the player's hazard box
// and the nearest obstacle hazard box that has not been passed yet.
func (a Autopilot) nextGap(s *sim.Session) (float64, bool) {
	hits := s.Hitboxes()
	player := hits.PlayerBounds(s.Player().Y)

	best, found := 0.0, false
	for _, o := range s.Obstacles() {
		hp, ho := hits.HazardRects(player, o.Bounds())
		if ho.Right() <= hp.X {
			continue
		}
		gap := ho.X - hp.Right()
		if !found || gap < best {
			best, found = gap, true
		}
	}
	return best, found
}
