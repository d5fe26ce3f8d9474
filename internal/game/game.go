// Package game is the rule engine: entity model, movement, capture, chain
// passing, boosting, weather, turn flow and scoring. A Game is owned by a
// single caller and is not safe for concurrent use.
package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/gamemap"
	"github.com/gravitas-games/nectar/internal/hex"
)

const (
	// DefaultWinScore ends the game once a player's score reaches it.
	DefaultWinScore = 10
	// MaxNameLength caps display names.
	MaxNameLength = 20
)

// Colors are the fixed identity labels by player index.
var Colors = [gamemap.MaxPlayers]string{"red", "blue", "green", "yellow", "purple", "orange"}

// PlayerID is a player's ordinal, 0..N-1.
type PlayerID int

// BeeID indexes the bee arena.
type BeeID int

// Player is one seat at the table.
type Player struct {
	ID    PlayerID
	Name  string
	Color string
	Score int
	Bees  []BeeID
	Home  gamemap.Home
}

// IsHome reports whether a is one of the player's home cells.
func (p *Player) IsHome(a hex.Axial) bool { return p.Home.Contains(a) }

// Bee is a unit on the board.
type Bee struct {
	ID             BeeID
	Owner          PlayerID
	Pos            hex.Axial
	Nectar         []int // carried token values in pickup order
	RemainingMoves int
	MovedThisTurn  bool
}

// Carrying reports whether the bee holds at least one token.
func (b *Bee) Carrying() bool { return len(b.Nectar) > 0 }

// NectarTotal sums the carried token values.
func (b *Bee) NectarTotal() int {
	total := 0
	for _, v := range b.Nectar {
		total += v
	}
	return total
}

// NectarToken is a token lying on the board.
type NectarToken struct {
	Pos   hex.Axial
	Value int
}

// Config is what a session needs to start a game.
type Config struct {
	PlayerCount int
	PlayerNames []string
	WinScore    int
}

// Game is the aggregate game state.
type Game struct {
	board   *gamemap.Board
	players []Player
	bees    []Bee
	tokens  []NectarToken

	current     PlayerID
	round       int
	hasActed    bool
	interaction Interaction

	winScore int
	over     bool
	winner   PlayerID

	lastWeather *WeatherReport

	roller Roller
	bus    events.Bus
}

// Option customizes a Game at construction.
type Option func(*Game)

// WithRoller injects the weather die.
func WithRoller(r Roller) Option {
	return func(g *Game) { g.roller = r }
}

// WithSeed seeds the default weather die.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.roller = rand.New(rand.NewSource(seed)) }
}

// WithEventBus routes engine events to bus.
func WithEventBus(bus events.Bus) Option {
	return func(g *Game) { g.bus = bus }
}

// New builds the board, seats the players, places their bees and rolls the
// opening weather.
func New(cfg Config, opts ...Option) (*Game, error) {
	if cfg.PlayerCount < gamemap.MinPlayers || cfg.PlayerCount > gamemap.MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, cfg.PlayerCount)
	}
	board, err := gamemap.New(cfg.PlayerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}
	corners, err := gamemap.ActiveCorners(cfg.PlayerCount)
	if err != nil {
		return nil, err
	}

	g := &Game{
		board:       board,
		round:       1,
		interaction: Idle{},
		winScore:    cfg.WinScore,
		bus:         events.NullBus{},
	}
	if g.winScore <= 0 {
		g.winScore = DefaultWinScore
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.roller == nil {
		g.roller = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for i, corner := range corners {
		home, err := gamemap.HomeFor(corner)
		if err != nil {
			return nil, err
		}
		p := Player{
			ID:    PlayerID(i),
			Name:  displayName(cfg.PlayerNames, i),
			Color: Colors[i],
			Home:  home,
		}
		for _, start := range gamemap.StartCells(home, board.Multiplayer) {
			id := BeeID(len(g.bees))
			g.bees = append(g.bees, Bee{ID: id, Owner: p.ID, Pos: start, RemainingMoves: 1})
			p.Bees = append(p.Bees, id)
		}
		g.players = append(g.players, p)
	}

	g.TriggerWeather()
	return g, nil
}

func displayName(names []string, i int) string {
	if i < len(names) {
		if n := strings.TrimSpace(names[i]); n != "" {
			if r := []rune(n); len(r) > MaxNameLength {
				n = string(r[:MaxNameLength])
			}
			return n
		}
	}
	return fmt.Sprintf("Player %d", i+1)
}

// Board returns the session board.
func (g *Game) Board() *gamemap.Board { return g.board }

// Multiplayer reports whether the game runs in 4-6 player mode.
func (g *Game) Multiplayer() bool { return g.board.Multiplayer }

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int { return len(g.players) }

// CurrentPlayer returns the index of the player to act.
func (g *Game) CurrentPlayer() PlayerID { return g.current }

// Round returns the round counter, starting at 1.
func (g *Game) Round() int { return g.round }

// HasActed reports whether the current player may end the turn.
func (g *Game) HasActed() bool { return g.hasActed }

// WinScore returns the score that ends the game.
func (g *Game) WinScore() int { return g.winScore }

// Over reports whether the game reached its terminal state.
func (g *Game) Over() bool { return g.over }

// Winner returns the winning player once the game is over.
func (g *Game) Winner() (PlayerID, bool) { return g.winner, g.over }

// Interaction returns the active interaction sub-mode.
func (g *Game) Interaction() Interaction { return g.interaction }

// LastWeather returns the most recent weather report.
func (g *Game) LastWeather() (WeatherReport, bool) {
	if g.lastWeather == nil {
		return WeatherReport{}, false
	}
	return *g.lastWeather, true
}

// Player returns a copy of player id.
func (g *Game) Player(id PlayerID) (Player, bool) {
	if id < 0 || int(id) >= len(g.players) {
		return Player{}, false
	}
	p := g.players[id]
	p.Bees = append([]BeeID(nil), p.Bees...)
	return p, true
}

// Bee returns a copy of bee id.
func (g *Game) Bee(id BeeID) (Bee, bool) {
	if id < 0 || int(id) >= len(g.bees) {
		return Bee{}, false
	}
	b := g.bees[id]
	b.Nectar = append([]int(nil), b.Nectar...)
	return b, true
}

// Tokens returns a copy of the board tokens.
func (g *Game) Tokens() []NectarToken { return append([]NectarToken(nil), g.tokens...) }

// BeeAt returns the bee standing on a.
func (g *Game) BeeAt(a hex.Axial) (BeeID, bool) {
	for i := range g.bees {
		if g.bees[i].Pos == a {
			return g.bees[i].ID, true
		}
	}
	return 0, false
}

// TokenAt returns the index of the board token on a, or -1.
func (g *Game) TokenAt(a hex.Axial) int {
	for i := range g.tokens {
		if g.tokens[i].Pos == a {
			return i
		}
	}
	return -1
}

// NeighborBees returns every bee, of any owner, adjacent to id.
func (g *Game) NeighborBees(id BeeID) []BeeID {
	src, ok := g.bee(id)
	if !ok {
		return nil
	}
	var out []BeeID
	for i := range g.bees {
		if g.bees[i].ID != id && hex.IsNeighbor(src.Pos, g.bees[i].Pos) {
			out = append(out, g.bees[i].ID)
		}
	}
	return out
}

func (g *Game) bee(id BeeID) (*Bee, bool) {
	if id < 0 || int(id) >= len(g.bees) {
		return nil, false
	}
	return &g.bees[id], true
}

// ownBee resolves id and checks it belongs to the current player.
func (g *Game) ownBee(id BeeID) (*Bee, error) {
	b, ok := g.bee(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBee, id)
	}
	if b.Owner != g.current {
		return nil, ErrNotCurrentPlayer
	}
	return b, nil
}

func (g *Game) owner(b *Bee) *Player { return &g.players[b.Owner] }

func (g *Game) publish(e events.Event) {
	e.Round = g.round
	g.bus.Publish(e)
}
