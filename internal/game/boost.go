package game

import (
	"fmt"

	"github.com/gravitas-games/nectar/internal/events"
)

// UseBoost consumes the token at index idx of bee id and adds its value to
// the bee's remaining moves. Boosting does not count as acting and leaves
// any armed chain or pending capture in place.
func (g *Game) UseBoost(id BeeID, idx int) (int, error) {
	if g.over {
		return 0, ErrGameOver
	}
	b, err := g.ownBee(id)
	if err != nil {
		return 0, err
	}
	if !b.Carrying() {
		return 0, ErrNoTokens
	}
	if idx < 0 || idx >= len(b.Nectar) {
		return 0, fmt.Errorf("%w: %d of %d", ErrTokenIndex, idx, len(b.Nectar))
	}

	v := b.Nectar[idx]
	b.Nectar = append(b.Nectar[:idx], b.Nectar[idx+1:]...)
	b.RemainingMoves += v

	g.publish(events.Event{
		Type:   events.EventBoosted,
		Player: int(b.Owner),
		Bee:    int(b.ID),
		Data:   map[string]any{"value": v, "remaining_moves": b.RemainingMoves},
	})
	return v, nil
}
