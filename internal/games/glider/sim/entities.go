package sim

import (
	"math/rand"

	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
)

// Obstacle is a ground hazard the player must clear.
type Obstacle struct {
	ID     uint64
	X      float64 // Left edge
	Width  float64
	Height float64 // Fixed at spawn
}

// Bounds returns the obstacle's nominal box, standing on the ground.
func (o Obstacle) Bounds() core.Rect {
	return core.NewRect(o.X, 0, o.Width, o.Height)
}

// Pickup is a collectible emerald floating at a fixed height.
type Pickup struct {
	ID     uint64
	X      float64 // Left edge
	Y      float64 // Bottom edge, fixed at spawn
	Width  float64
	Height float64
}

// Bounds returns the pickup's visual footprint.
func (p Pickup) Bounds() core.Rect {
	return core.NewRect(p.X, p.Y, p.Width, p.Height)
}

// ObstaclePool holds the live obstacles in spawn order.
type ObstaclePool struct {
	items  []Obstacle
	cfg    config.ObstacleConfig
	spawnX float64
	rng    *rand.Rand
}

// NewObstaclePool creates an empty pool spawning at the viewport's right edge.
func NewObstaclePool(cfg config.ObstacleConfig, spawnX float64, rng *rand.Rand) *ObstaclePool {
	return &ObstaclePool{
		items:  make([]Obstacle, 0, 8),
		cfg:    cfg,
		spawnX: spawnX,
		rng:    rng,
	}
}

// Spawn adds an obstacle with a height drawn from [MinHeight, MaxHeight).
func (p *ObstaclePool) Spawn(id uint64) Obstacle {
	o := Obstacle{
		ID:     id,
		X:      p.spawnX,
		Width:  p.cfg.Width,
		Height: p.cfg.MinHeight + p.rng.Float64()*(p.cfg.MaxHeight-p.cfg.MinHeight),
	}
	p.items = append(p.items, o)
	return o
}

// Advance scrolls every obstacle left by speed.
func (p *ObstaclePool) Advance(speed float64) {
	for i := range p.items {
		p.items[i].X -= speed
	}
}

// PruneOffscreen drops obstacles whose right edge has left the viewport and
// reports each one to onRemove, which may be nil.
func (p *ObstaclePool) PruneOffscreen(onRemove func(Obstacle)) {
	p.RemoveIf(func(o Obstacle) bool { return o.X+o.Width < 0 }, onRemove)
}

// RemoveIf drops every obstacle matching pred, keeping order. The backing
// array is reused.
func (p *ObstaclePool) RemoveIf(pred func(Obstacle) bool, onRemove func(Obstacle)) int {
	kept := p.items[:0]
	removed := 0
	for _, o := range p.items {
		if pred(o) {
			removed++
			if onRemove != nil {
				onRemove(o)
			}
			continue
		}
		kept = append(kept, o)
	}
	p.items = kept
	return removed
}

// Items returns the live obstacles. The slice is only valid until the pool
// next changes.
func (p *ObstaclePool) Items() []Obstacle {
	return p.items
}

// Len returns the number of live obstacles.
func (p *ObstaclePool) Len() int {
	return len(p.items)
}

// Clear removes every obstacle.
func (p *ObstaclePool) Clear() {
	p.items = p.items[:0]
}

// PickupPool holds the live emeralds in spawn order.
type PickupPool struct {
	items    []Pickup
	cfg      config.PickupConfig
	maxReach float64
	spawnX   float64
	rng      *rand.Rand
}

// NewPickupPool creates an empty pool. maxReach bounds how far above the
// player's current height a pickup may appear.
func NewPickupPool(cfg config.PickupConfig, maxReach, spawnX float64, rng *rand.Rand) *PickupPool {
	return &PickupPool{
		items:    make([]Pickup, 0, 8),
		cfg:      cfg,
		maxReach: maxReach,
		spawnX:   spawnX,
		rng:      rng,
	}
}

// Spawn adds a pickup at a height drawn from
// [playerY + MinOffset, playerY + maxReach - ReachMargin).
// The band follows the player's height at spawn time, so a pickup spawned
// mid-jump can float out of reach once the player lands.
func (p *PickupPool) Spawn(id uint64, playerY float64) Pickup {
	lo := playerY + p.cfg.MinOffset
	hi := playerY + p.maxReach - p.cfg.ReachMargin
	pk := Pickup{
		ID:     id,
		X:      p.spawnX,
		Y:      lo + p.rng.Float64()*(hi-lo),
		Width:  p.cfg.Width,
		Height: p.cfg.Height,
	}
	p.items = append(p.items, pk)
	return pk
}

// Place adds a pickup at an exact position.
func (p *PickupPool) Place(id uint64, x, y float64) Pickup {
	pk := Pickup{ID: id, X: x, Y: y, Width: p.cfg.Width, Height: p.cfg.Height}
	p.items = append(p.items, pk)
	return pk
}

// Advance scrolls every pickup left by speed.
func (p *PickupPool) Advance(speed float64) {
	for i := range p.items {
		p.items[i].X -= speed
	}
}

// PruneOffscreen drops pickups whose right edge has left the viewport.
func (p *PickupPool) PruneOffscreen(onRemove func(Pickup)) {
	p.RemoveIf(func(pk Pickup) bool { return pk.X+pk.Width < 0 }, onRemove)
}

// RemoveIf drops every pickup matching pred, keeping order.
func (p *PickupPool) RemoveIf(pred func(Pickup) bool, onRemove func(Pickup)) int {
	kept := p.items[:0]
	removed := 0
	for _, pk := range p.items {
		if pred(pk) {
			removed++
			if onRemove != nil {
				onRemove(pk)
			}
			continue
		}
		kept = append(kept, pk)
	}
	p.items = kept
	return removed
}

// Items returns the live pickups. The slice is only valid until the pool
// next changes.
func (p *PickupPool) Items() []Pickup {
	return p.items
}

// Len returns the number of live pickups.
func (p *PickupPool) Len() int {
	return len(p.items)
}

// Clear removes every pickup.
func (p *PickupPool) Clear() {
	p.items = p.items[:0]
}
