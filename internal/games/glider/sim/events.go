package sim

import (
	"time"

	"github.com/vovakirdan/glider-run/internal/core"
)

// Phase is the session lifecycle state.
type Phase int

const (
	NotStarted Phase = iota
	Running
	Over
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// EntityKind tells obstacles and pickups apart in events.
type EntityKind int

const (
	KindObstacle EntityKind = iota
	KindPickup
)

// EntityAction is what happened to an entity.
type EntityAction int

const (
	Spawned EntityAction = iota
	Pruned
	Collected
)

// String returns the action name, which doubles as a visual state.
func (a EntityAction) String() string {
	switch a {
	case Spawned:
		return "spawned"
	case Pruned:
		return "pruned"
	case Collected:
		return "collected"
	default:
		return "unknown"
	}
}

// EntityEvent describes a spawn, prune or collect.
type EntityEvent struct {
	Kind   EntityKind
	Action EntityAction
	ID     uint64
	Bounds core.Rect
	At     time.Duration // Virtual time of the event
}

// Snapshot is the state handed to the renderer after every tick. The
// slices alias session storage and are only valid until the next tick.
type Snapshot struct {
	Phase       Phase
	Score       int
	Elapsed     time.Duration
	Speed       float64
	SpawnPeriod time.Duration
	Player      PlayerState
	PlayerBox   core.Rect
	Obstacles   []Obstacle
	Pickups     []Pickup
}

// Status is what the UI shell overlays.
type Status struct {
	Phase   Phase
	Score   int
	Running bool
	Over    bool
}

// Renderer draws the simulation. It must not block.
type Renderer interface {
	Frame(Snapshot)
	Entity(EntityEvent)
}

// Shell shows score and start/game-over overlays.
type Shell interface {
	Status(Status)
	Finished(score int)
}

// Audio is told when a session starts and ends. Errors are logged and
// otherwise ignored.
type Audio interface {
	SessionStarted() error
	SessionEnded() error
}

// Sharer publishes a final score.
type Sharer interface {
	Share(score int) error
}

// Collaborators are the session's outside world. Nil members are replaced
// by no-ops.
type Collaborators struct {
	Renderer Renderer
	Shell    Shell
	Audio    Audio
	Sharer   Sharer
}

type nopRenderer struct{}

func (nopRenderer) Frame(Snapshot)     {}
func (nopRenderer) Entity(EntityEvent) {}

type nopShell struct{}

func (nopShell) Status(Status) {}
func (nopShell) Finished(int)  {}

type nopAudio struct{}

func (nopAudio) SessionStarted() error { return nil }
func (nopAudio) SessionEnded() error   { return nil }

type nopSharer struct{}

func (nopSharer) Share(int) error { return nil }

func (c Collaborators) withDefaults() Collaborators {
	if c.Renderer == nil {
		c.Renderer = nopRenderer{}
	}
	if c.Shell == nil {
		c.Shell = nopShell{}
	}
	if c.Audio == nil {
		c.Audio = nopAudio{}
	}
	if c.Sharer == nil {
		c.Sharer = nopSharer{}
	}
	return c
}
