package game

import (
	"github.com/gravitas-games/nectar/internal/hex"
	"github.com/gravitas-games/nectar/pkg/models"
)

func coord(a hex.Axial) models.Coord { return models.Coord{Q: a.Q, R: a.R} }

func intPtr(v int) *int { return &v }

// Snapshot copies the full game state into wire models. The result shares
// nothing with the game.
func (g *Game) Snapshot() models.Snapshot {
	s := models.Snapshot{
		Multiplayer: g.board.Multiplayer,
		WinScore:    g.winScore,
		Round:       g.round,
		Current:     int(g.current),
		HasActed:    g.hasActed,
		CanEndTurn:  g.CanEndTurn(),
		MoveAllOut:  g.CanMoveAllOut(),
		Interaction: g.interactionView(),
		Over:        g.over,
	}

	homeOwner := make(map[hex.Axial]int)
	for _, p := range g.players {
		view := models.Player{
			ID:            int(p.ID),
			Name:          p.Name,
			Color:         p.Color,
			Score:         p.Score,
			Bees:          make([]int, len(p.Bees)),
			HomeAmbiguous: p.Home.Ambiguous,
			Corner:        p.Home.Corner.String(),
		}
		for i, id := range p.Bees {
			view.Bees[i] = int(id)
		}
		for _, a := range p.Home.Cells {
			view.Home = append(view.Home, coord(a))
			homeOwner[a] = int(p.ID)
		}
		s.Players = append(s.Players, view)
	}

	for _, c := range g.board.Cells() {
		cell := models.Cell{Coord: coord(c.Coord), Field: c.Field.String()}
		if owner, ok := homeOwner[c.Coord]; ok {
			cell.Owner = intPtr(owner)
		}
		s.Cells = append(s.Cells, cell)
	}

	for _, b := range g.bees {
		s.Bees = append(s.Bees, models.Bee{
			ID:             int(b.ID),
			Owner:          int(b.Owner),
			Pos:            coord(b.Pos),
			Nectar:         append([]int{}, b.Nectar...),
			RemainingMoves: b.RemainingMoves,
			Moved:          b.MovedThisTurn,
		})
	}

	s.Tokens = make([]models.Token, 0, len(g.tokens))
	for _, t := range g.tokens {
		s.Tokens = append(s.Tokens, models.Token{Pos: coord(t.Pos), Value: t.Value})
	}

	if w := g.lastWeather; w != nil {
		view := &models.Weather{Roll: w.Roll, Value: w.Value, Text: w.Text, Spawned: []models.Coord{}}
		if w.Value > 0 {
			view.Field = w.Field.String()
		}
		for _, a := range w.Spawned {
			view.Spawned = append(view.Spawned, coord(a))
		}
		s.Weather = view
	}

	if g.over {
		s.Winner = intPtr(int(g.winner))
		for _, st := range g.Standings() {
			s.Standings = append(s.Standings, models.Standing{
				Rank:   st.Rank,
				Label:  st.Label,
				Player: int(st.Player),
				Name:   st.Name,
				Score:  st.Score,
			})
		}
	}
	return s
}

func (g *Game) interactionView() models.Interaction {
	v := models.Interaction{Mode: g.interaction.Mode().String()}
	switch in := g.interaction.(type) {
	case Selecting:
		v.Selected = intPtr(int(in.Bee))
		for _, id := range g.NeighborBees(in.Bee) {
			v.Neighbors = append(v.Neighbors, int(id))
		}
	case Chaining:
		v.ChainSource = intPtr(int(in.Source))
		v.ChainToken = intPtr(in.TokenIndex)
		for _, t := range in.Targets {
			v.ChainTargets = append(v.ChainTargets, int(t))
		}
	case Capturing:
		v.Attacker = intPtr(int(in.Attacker))
		v.Victim = intPtr(int(in.Victim))
		owner := g.owner(&g.bees[in.Victim])
		for _, a := range owner.Home.Cells {
			if _, occupied := g.BeeAt(a); !occupied {
				v.CaptureTargets = append(v.CaptureTargets, coord(a))
			}
		}
	}
	return v
}
