package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/glider.yaml
var defaultGliderYAML []byte

// DefaultGliderConfig returns the built-in tuning. It mirrors the embedded
// YAML and is the fallback when that fails to parse.
func DefaultGliderConfig() GliderConfig {
	return GliderConfig{
		World: WorldConfig{
			Width:  800,
			Height: 450,
		},
		Physics: PhysicsConfig{
			Gravity:       0.4,
			JumpForce:     18,
			GlideFactor:   0.1,
			MaxJumpHeight: 250,
		},
		Player: PlayerConfig{
			X:            120,
			Width:        100,
			Height:       100,
			HazardInset:  30,
			CollectInset: 5,
		},
		Obstacles: ObstacleConfig{
			Width:      50,
			MinHeight:  40,
			MaxHeight:  65,
			Inset:      15,
			SpawnEvery: 6500 * time.Millisecond,
		},
		Pickups: PickupConfig{
			Width:       50,
			Height:      60,
			MinOffset:   50,
			ReachMargin: 30,
			SpawnEvery:  2 * time.Second,
			Feedback:    500 * time.Millisecond,
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			BaseSpeed:  2.0,
			MaxSpeed:   4.5,
			RampRate:   2.5,
			RampWindow: 90 * time.Second,
			Tiers: []SpawnTier{
				{After: 45 * time.Second, Period: 5500 * time.Millisecond},
				{After: 90 * time.Second, Period: 4500 * time.Millisecond},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultGliderYAML
}
