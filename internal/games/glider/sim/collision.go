package sim

import (
	"github.com/vovakirdan/glider-run/internal/config"
	"github.com/vovakirdan/glider-run/internal/core"
)

// Hitboxes holds the two margin profiles. Hazard tests shrink both boxes so
// an obstacle has to be nearly touched to count; collection tests use a
// generous player box so an emerald may be grazed.
type Hitboxes struct {
	player        config.PlayerConfig
	obstacleInset float64
}

// NewHitboxes builds the hit box profiles from config.
func NewHitboxes(player config.PlayerConfig, obstacles config.ObstacleConfig) Hitboxes {
	return Hitboxes{player: player, obstacleInset: obstacles.Inset}
}

// PlayerBounds returns the player's nominal box at height y.
func (h Hitboxes) PlayerBounds(y float64) core.Rect {
	return core.NewRect(h.player.X, y, h.player.Width, h.player.Height)
}

// HazardRects returns the boxes compared for an obstacle hit, given the
// nominal player and entity boxes. The entity keeps its full height from
// the ground; only its sides are inset.
func (h Hitboxes) HazardRects(player, entity core.Rect) (core.Rect, core.Rect) {
	inset := h.player.HazardInset
	return player.Inset(inset, inset), entity.Inset(h.obstacleInset, 0)
}

// CollectRects returns the boxes compared for a pickup, given the nominal
// player and entity boxes.
func (h Hitboxes) CollectRects(player, entity core.Rect) (core.Rect, core.Rect) {
	inset := h.player.CollectInset
	return player.Inset(inset, inset), entity
}

// Collides reports whether a player at height y hits the obstacle.
func (h Hitboxes) Collides(y float64, o Obstacle) bool {
	p, e := h.HazardRects(h.PlayerBounds(y), o.Bounds())
	return p.Intersects(e)
}

// Collects reports whether a player at height y picks up the emerald.
func (h Hitboxes) Collects(y float64, pk Pickup) bool {
	p, e := h.CollectRects(h.PlayerBounds(y), pk.Bounds())
	return p.Intersects(e)
}

// FirstCollision returns the index of the first obstacle, in spawn order,
// that the player hits.
func (h Hitboxes) FirstCollision(y float64, obstacles []Obstacle) (int, bool) {
	for i, o := range obstacles {
		if h.Collides(y, o) {
			return i, true
		}
	}
	return -1, false
}
