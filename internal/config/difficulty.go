package config

import "time"

// DifficultyController derives scroll speed and obstacle spawn cadence from
// the elapsed session time. The spawn period only ever shortens and each
// tier is applied once, so a caller may retune its spawn timer whenever
// Update reports a change without fear of doubling it.
type DifficultyController struct {
	cfg          DifficultyConfig
	initialSpawn time.Duration
	tier         int // index into cfg.Tiers, -1 before the first
	speed        float64
	period       time.Duration
}

// NewDifficultyController creates a controller for the given difficulty and
// the obstacle period used before any tier applies.
func NewDifficultyController(cfg DifficultyConfig, initialSpawn time.Duration) *DifficultyController {
	d := &DifficultyController{cfg: cfg, initialSpawn: initialSpawn}
	d.Reset()
	return d
}

// Reset returns to the state at the start of a session.
func (d *DifficultyController) Reset() {
	d.tier = -1
	d.period = d.initialSpawn
	d.speed = d.cfg.BaseSpeed
	d.Update(0)
}

// SpeedAt returns the scroll speed for a given elapsed time without changing
// the controller. A disabled ramp stays at the base speed.
func (d *DifficultyController) SpeedAt(elapsed time.Duration) float64 {
	if !d.cfg.Enabled {
		return d.cfg.BaseSpeed
	}
	return d.cfg.SpeedAt(elapsed)
}

// Update recomputes speed and cadence for the elapsed time. It reports true
// when the obstacle spawn period just got shorter.
func (d *DifficultyController) Update(elapsed time.Duration) bool {
	d.speed = d.SpeedAt(elapsed)

	if !d.cfg.Enabled {
		return false
	}
	next := d.tier
	for i := d.tier + 1; i < len(d.cfg.Tiers); i++ {
		if elapsed > d.cfg.Tiers[i].After {
			next = i
		}
	}
	if next == d.tier {
		return false
	}
	d.tier = next
	if p := d.cfg.Tiers[next].Period; p < d.period {
		d.period = p
		return true
	}
	return false
}

// Speed returns the scroll speed computed by the last Update.
func (d *DifficultyController) Speed() float64 {
	return d.speed
}

// SpawnPeriod returns the current obstacle spawn period.
func (d *DifficultyController) SpawnPeriod() time.Duration {
	return d.period
}

// Tier returns the index of the active tier, or -1 before the first.
func (d *DifficultyController) Tier() int {
	return d.tier
}
