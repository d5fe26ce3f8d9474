package game

import (
	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/gamemap"
	"github.com/gravitas-games/nectar/internal/hex"
)

// Roller draws the weather die. *rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
}

// WeatherReport is the outcome of one weather draw.
type WeatherReport struct {
	Roll    int
	Value   int
	Field   gamemap.FieldType
	Spawned []hex.Axial
	Text    string
}

// TriggerWeather rolls a six-sided die and applies the result.
func (g *Game) TriggerWeather() WeatherReport {
	return g.ApplyWeather(g.roller.Intn(6) + 1)
}

// ApplyWeather spawns tokens for a given roll: 1 on black, 2 on gold, 4 on
// the pink origin. Black and gold merge in multiplayer games. Cells holding
// a bee or a token are skipped.
func (g *Game) ApplyWeather(roll int) WeatherReport {
	rep := WeatherReport{Roll: roll}
	switch roll {
	case 1:
		rep.Value, rep.Field = 1, gamemap.FieldBlack
	case 2:
		rep.Value, rep.Field = 2, gamemap.FieldGold
	case 4:
		rep.Value, rep.Field = 4, gamemap.FieldPink
	}
	if rep.Value > 0 && g.board.Multiplayer && rep.Field != gamemap.FieldPink {
		rep.Field = gamemap.FieldBlackGold
	}

	if rep.Value > 0 {
		for _, a := range g.board.CellsOf(rep.Field) {
			if _, occupied := g.BeeAt(a); occupied {
				continue
			}
			if g.TokenAt(a) >= 0 {
				continue
			}
			g.tokens = append(g.tokens, NectarToken{Pos: a, Value: rep.Value})
			rep.Spawned = append(rep.Spawned, a)
		}
	}
	rep.Text = weatherText(rep.Value)

	g.lastWeather = &rep
	g.publish(events.Event{
		Type:   events.EventWeather,
		Player: int(g.current),
		Bee:    -1,
		Data:   map[string]any{"roll": roll, "value": rep.Value, "spawned": len(rep.Spawned), "text": rep.Text},
	})
	return rep
}

func weatherText(value int) string {
	switch value {
	case 1:
		return "1 Nectar Token have sprung up"
	case 2:
		return "2 Nectar Tokens have sprung up"
	case 4:
		return "4 Nectar Tokens have sprung up"
	default:
		return "Nothing new blooms"
	}
}
