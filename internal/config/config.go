// Package config provides YAML-based game configuration loading and
// difficulty management for Glider Run.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/glider-run/internal/core"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GliderConfig contains all tuning for Glider Run. Lengths are world units
// (the original game's pixels) and physics constants are per tick.
type GliderConfig struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Pickups    PickupConfig     `yaml:"pickups"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the visible viewport.
type WorldConfig struct {
	Width  float64 `yaml:"width"`  // Entities spawn at this x
	Height float64 `yaml:"height"` // Visible sky above the ground baseline
}

// PhysicsConfig defines vertical motion of the player.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	JumpForce     float64 `yaml:"jump_force"`
	GlideFactor   float64 `yaml:"glide_factor"`    // Gravity multiplier while gliding
	MaxJumpHeight float64 `yaml:"max_jump_height"` // Reach used to place pickups
}

// PlayerConfig defines the player's fixed column and hit boxes.
type PlayerConfig struct {
	X            float64 `yaml:"x"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	HazardInset  float64 `yaml:"hazard_inset"`  // Inset of the box tested against obstacles
	CollectInset float64 `yaml:"collect_inset"` // Inset of the box tested against pickups
}

// ObstacleConfig defines obstacle size and spawn cadence.
type ObstacleConfig struct {
	Width      float64       `yaml:"width"`
	MinHeight  float64       `yaml:"min_height"`
	MaxHeight  float64       `yaml:"max_height"` // Exclusive
	Inset      float64       `yaml:"inset"`      // Horizontal inset of the hazard box
	SpawnEvery time.Duration `yaml:"spawn_every"`
}

// PickupConfig defines emerald size, placement and spawn cadence.
type PickupConfig struct {
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	MinOffset   float64       `yaml:"min_offset"`   // Lowest spawn height above the player
	ReachMargin float64       `yaml:"reach_margin"` // Kept below max_jump_height
	SpawnEvery  time.Duration `yaml:"spawn_every"`
	Feedback    time.Duration `yaml:"feedback"` // How long a collected emerald sparkles
}

// DifficultyConfig defines the speed ramp and the obstacle cadence tiers.
type DifficultyConfig struct {
	Enabled    bool          `yaml:"enabled"`
	BaseSpeed  float64       `yaml:"base_speed"`
	MaxSpeed   float64       `yaml:"max_speed"`
	RampRate   float64       `yaml:"ramp_rate"`   // Speed gained per ramp window
	RampWindow time.Duration `yaml:"ramp_window"` // Elapsed time per ramp_rate gained
	Tiers      []SpawnTier   `yaml:"tiers"`
}

// SpeedAt returns the ramp's scroll speed after elapsed session time,
// capped at MaxSpeed.
func (d DifficultyConfig) SpeedAt(elapsed time.Duration) float64 {
	if d.RampWindow <= 0 {
		return d.BaseSpeed
	}
	gain := elapsed.Seconds() / d.RampWindow.Seconds() * d.RampRate
	return d.BaseSpeed + math.Min(gain, d.MaxSpeed-d.BaseSpeed)
}

// Saturation returns the elapsed time at which the ramp reaches MaxSpeed.
func (d DifficultyConfig) Saturation() time.Duration {
	if d.RampRate <= 0 {
		return 0
	}
	span := d.MaxSpeed - d.BaseSpeed
	return time.Duration(span / d.RampRate * float64(d.RampWindow))
}

// SpawnTier shortens the obstacle spawn period once the session has run
// longer than After.
type SpawnTier struct {
	After  time.Duration `yaml:"after"`
	Period time.Duration `yaml:"period"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. The empty string means
// "use the config file as is".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns how far along the ramp a preset starts,
// from 0.0 (the start) to 1.0 (saturated).
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GliderConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.StartAtLevel(InitialLevelForPreset(preset))
	}
}

// StartAtLevel moves the start of the ramp forward by level × saturation.
// The base speed becomes the speed reached at that point, tiers already
// passed set the initial obstacle period and the remaining tiers start
// earlier by the same amount. Every run still begins at base_speed.
func (c *GliderConfig) StartAtLevel(level float64) {
	d := &c.Difficulty
	head := time.Duration(core.ClampF(level, 0, 1) * float64(d.Saturation()))
	if head <= 0 {
		return
	}

	d.BaseSpeed = d.SpeedAt(head)
	tiers := make([]SpawnTier, 0, len(d.Tiers))
	for _, tier := range d.Tiers {
		if head > tier.After {
			c.Obstacles.SpawnEvery = tier.Period
			continue
		}
		tiers = append(tiers, SpawnTier{After: tier.After - head, Period: tier.Period})
	}
	d.Tiers = tiers
}

// collectBoxHoldsHazardBox reports whether the box tested against pickups
// strictly contains the box tested against obstacles, so a placement that
// barely hits an obstacle would always collect a pickup.
func (c GliderConfig) collectBoxHoldsHazardBox() bool {
	p := c.Player
	box := core.NewRect(p.X, 0, p.Width, p.Height)
	return p.CollectInset < p.HazardInset &&
		box.Inset(p.CollectInset, p.CollectInset).ContainsRect(box.Inset(p.HazardInset, p.HazardInset))
}

// Validate checks that the config describes a playable game.
func (c GliderConfig) Validate() error {
	checks := []struct {
		ok    bool
		field string
		rule  string
	}{
		{c.World.Width > 0, "world.width", "must be positive"},
		{c.World.Height > 0, "world.height", "must be positive"},
		{c.Physics.Gravity > 0, "physics.gravity", "must be positive"},
		{c.Physics.JumpForce > 0, "physics.jump_force", "must be positive"},
		{c.Physics.GlideFactor > 0 && c.Physics.GlideFactor < 1, "physics.glide_factor", "must be in (0, 1)"},
		{c.Player.Width > 0 && c.Player.Height > 0, "player", "width and height must be positive"},
		{c.collectBoxHoldsHazardBox(), "player.collect_inset", "must be smaller than hazard_inset"},
		{2*c.Player.HazardInset < c.Player.Width && 2*c.Player.HazardInset < c.Player.Height, "player.hazard_inset", "leaves an empty hit box"},
		{c.Obstacles.Width > 2*c.Obstacles.Inset, "obstacles.inset", "leaves an empty hit box"},
		{c.Obstacles.MinHeight > 0 && c.Obstacles.MinHeight <= c.Obstacles.MaxHeight, "obstacles.min_height", "must be positive and not above max_height"},
		{c.Obstacles.SpawnEvery > 0, "obstacles.spawn_every", "must be positive"},
		{c.Pickups.Width > 0 && c.Pickups.Height > 0, "pickups", "width and height must be positive"},
		{c.Pickups.MinOffset <= c.Physics.MaxJumpHeight-c.Pickups.ReachMargin, "pickups.min_offset", "must not exceed max_jump_height - reach_margin"},
		{c.Pickups.SpawnEvery > 0, "pickups.spawn_every", "must be positive"},
		{c.Difficulty.BaseSpeed > 0 && c.Difficulty.BaseSpeed <= c.Difficulty.MaxSpeed, "difficulty.base_speed", "must be positive and not above max_speed"},
		{c.Difficulty.RampRate >= 0 && c.Difficulty.RampWindow > 0, "difficulty.ramp_window", "must be positive"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s %s", ErrInvalidConfig, chk.field, chk.rule)
		}
	}

	prev := SpawnTier{Period: c.Obstacles.SpawnEvery}
	for i, tier := range c.Difficulty.Tiers {
		if tier.After <= prev.After && i > 0 {
			return fmt.Errorf("%w: difficulty.tiers[%d] must start after the previous tier", ErrInvalidConfig, i)
		}
		if tier.Period <= 0 || tier.Period >= prev.Period {
			return fmt.Errorf("%w: difficulty.tiers[%d] must shorten the spawn period", ErrInvalidConfig, i)
		}
		prev = tier
	}
	return nil
}
