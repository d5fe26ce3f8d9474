package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/nectar/internal/config"
	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/game"
	"github.com/gravitas-games/nectar/internal/hex"
	"github.com/gravitas-games/nectar/internal/history"
	"github.com/gravitas-games/nectar/internal/network"
	"github.com/gravitas-games/nectar/pkg/models"
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errUnknownMessage = errors.New("unknown message type")
)

// ResultRecorder stores finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, r history.Result) error
}

// Session owns the one game of this process. Every command runs under mu,
// so the game only ever sees a single caller.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	game     *game.Game
	seats    map[int]*models.SeatInfo
	recorded bool

	connections map[*Connection]bool
	connMu      sync.RWMutex

	ledger ResultRecorder
	logger *slog.Logger
}

// NewSession starts a game from the configured game section.
func NewSession(cfg *config.Config, ledger ResultRecorder, logger *slog.Logger, opts ...game.Option) (*Session, error) {
	s := &Session{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		seats:       make(map[int]*models.SeatInfo),
		connections: make(map[*Connection]bool),
		ledger:      ledger,
	}
	s.logger = logger.With("session", s.ID)

	bus := events.NewSimpleBus()
	bus.Subscribe("session", s.onEvent)

	gameOpts := []game.Option{game.WithEventBus(bus)}
	if cfg.Game.Seed != 0 {
		gameOpts = append(gameOpts, game.WithSeed(cfg.Game.Seed))
	}
	g, err := game.New(game.Config{
		PlayerCount: cfg.Game.PlayerCount,
		PlayerNames: cfg.Game.PlayerNames,
		WinScore:    cfg.Game.WinScore,
	}, append(gameOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	s.game = g

	s.logger.Info("session created", "players", g.PlayerCount(), "multiplayer", g.Multiplayer(), "win_score", g.WinScore())
	return s, nil
}

// onEvent runs synchronously inside a game call, with mu already held.
func (s *Session) onEvent(e events.Event) {
	switch e.Type {
	case events.EventWeather:
		s.logger.Info("weather", "round", e.Round, "roll", e.Data["roll"], "spawned", e.Data["spawned"])
	case events.EventNectarScored:
		s.logger.Info("nectar scored", "player", e.Player, "amount", e.Data["amount"], "score", e.Data["score"])
	case events.EventGameOver:
		s.logger.Info("game over", "winner", e.Player, "round", e.Round)
		s.recordResult()
	default:
		s.logger.Debug("game event", "type", e.Type.String(), "player", e.Player, "bee", e.Bee)
	}
}

func (s *Session) recordResult() {
	if s.ledger == nil || s.recorded {
		return
	}
	s.recorded = true

	winner, _ := s.game.Winner()
	p, _ := s.game.Player(winner)
	r := history.Result{
		GameID:      uuid.NewString(),
		SessionID:   s.ID,
		EndedAt:     time.Now(),
		Rounds:      s.game.Round(),
		PlayerCount: s.game.PlayerCount(),
		Winner:      int(winner),
		WinnerName:  p.Name,
		WinnerScore: p.Score,
	}
	for _, st := range s.game.Standings() {
		r.Standings = append(r.Standings, history.Standing{
			Rank:  st.Rank,
			Label: st.Label,
			Seat:  int(st.Player),
			Name:  st.Name,
			Score: st.Score,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ledger.RecordResult(ctx, r); err != nil {
		s.logger.Error("failed to record result", "err", err)
		return
	}
	s.logger.Info("result recorded", "game", r.GameID, "winner", r.WinnerName)
}

// Apply runs one client command. seat is nil for hot-seat connections,
// which act for whoever is current. The returned state is taken under the
// same lock as the command; broadcast reports whether others must see it.
func (s *Session) Apply(seat *int, msg network.ClientMessage) (state network.StatePayload, broadcast bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seat != nil && game.PlayerID(*seat) != s.game.CurrentPlayer() {
		return state, false, game.ErrNotCurrentPlayer
	}

	before := s.game.Interaction().Mode()
	info := &network.EventInfo{Command: msg.Type, Player: int(s.game.CurrentPlayer())}
	err = s.dispatch(msg, info)

	state.Snapshot = s.snapshotLocked()
	if err != nil {
		// Some rejections drop an armed chain; clients still need that.
		return state, s.game.Interaction().Mode() != before, err
	}
	state.Event = info
	return state, true, nil
}

func (s *Session) dispatch(msg network.ClientMessage, info *network.EventInfo) error {
	g := s.game
	switch msg.Type {
	case network.MsgTypeSelect:
		var p network.SelectPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return g.Select(game.BeeID(p.Bee))

	case network.MsgTypeDeselect:
		if g.Over() {
			return game.ErrGameOver
		}
		g.Deselect()
		return nil

	case network.MsgTypeMove:
		var p network.MovePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		to := hex.Axial{Q: p.Q, R: p.R}
		var (
			res game.MoveResult
			err error
		)
		if p.Bee != nil {
			res, err = g.Move(game.BeeID(*p.Bee), to)
		} else {
			res, err = g.MoveSelected(to)
		}
		if err != nil {
			return err
		}
		switch {
		case res.CaptureStarted:
			info.Message = fmt.Sprintf("bee %d is attacking bee %d", res.Bee, res.Victim)
		case res.Scored > 0:
			info.Message = fmt.Sprintf("bee %d brought home %d nectar", res.Bee, res.Scored)
		case res.Picked > 0:
			info.Message = fmt.Sprintf("bee %d picked up %d nectar", res.Bee, res.Picked)
		}
		return nil

	case network.MsgTypeBoost:
		var p network.TokenPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		v, err := g.UseBoost(game.BeeID(p.Bee), p.Token)
		if err == nil {
			info.Message = fmt.Sprintf("bee %d boosted by %d", p.Bee, v)
		}
		return err

	case network.MsgTypeChainStart:
		var p network.TokenPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, err := g.StartChain(game.BeeID(p.Bee), p.Token)
		return err

	case network.MsgTypeChainPass:
		var p network.ChainPassPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		res, err := g.PassNectar(game.BeeID(p.Target))
		if err == nil {
			info.Message = fmt.Sprintf("bee %d passed %d nectar to bee %d", res.Source, res.Value, res.Target)
		}
		return err

	case network.MsgTypeChainCancel:
		return g.CancelChain()

	case network.MsgTypeCapture:
		var p network.CapturePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		res, err := g.ExecuteCapture(hex.Axial{Q: p.Q, R: p.R})
		if err == nil {
			info.Message = fmt.Sprintf("bee %d captured bee %d", res.Attacker, res.Victim)
		}
		return err

	case network.MsgTypeCaptureCancel:
		return g.CancelCapture()

	case network.MsgTypeMoveAllOut:
		res, err := g.MoveAllOut()
		if err == nil {
			info.Message = fmt.Sprintf("%d bees moved out", len(res.Moves))
		}
		return err

	case network.MsgTypeEndTurn:
		rep, err := g.EndTurn()
		if err == nil {
			info.Message = rep.Text
		}
		return err

	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
}

func decode(msg network.ClientMessage, v interface{}) error {
	if err := network.Decode(msg, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

// commandErrorCode maps a command error to its wire code.
func commandErrorCode(err error) string {
	switch {
	case errors.Is(err, errInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, errUnknownMessage):
		return "unknown_message_type"
	default:
		return game.ErrorCode(err)
	}
}

// Snapshot returns the current game state with seat information.
func (s *Session) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.Snapshot {
	snap := s.game.Snapshot()
	for i := range snap.Players {
		if info, ok := s.seats[i]; ok {
			seat := *info
			seat.Connected = s.seatConnected(i)
			snap.Players[i].Seat = &seat
		}
	}
	return snap
}

func (s *Session) seatConnected(seat int) bool {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for conn := range s.connections {
		if conn.seat != nil && *conn.seat == seat {
			return true
		}
	}
	return false
}

// PlayerCount returns the number of seats.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.PlayerCount()
}

// MarkSeatClaimed records a handed-out seat.
func (s *Session) MarkSeatClaimed(seat int, claimedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[seat] = &models.SeatInfo{SessionID: s.ID, ClaimedAt: claimedAt}
	s.logger.Info("seat claimed", "seat", seat)
}

// ReleaseSeat forgets a seat claim and drops every connection still
// playing it.
func (s *Session) ReleaseSeat(seat int) {
	s.mu.Lock()
	delete(s.seats, seat)
	s.mu.Unlock()

	dropped := 0
	for _, conn := range s.Connections() {
		if conn.seat != nil && *conn.seat == seat {
			conn.Close()
			dropped++
		}
	}
	s.logger.Info("seat released", "seat", seat, "dropped", dropped)
}

// Register adds a connection to the broadcast set.
func (s *Session) Register(conn *Connection) {
	s.connMu.Lock()
	s.connections[conn] = true
	n := len(s.connections)
	s.connMu.Unlock()

	if conn.seat != nil {
		s.touchSeat(*conn.seat)
	}
	s.logger.Info("connection joined", "conn", conn.id, "seat", seatAttr(conn.seat), "connections", n)
}

// Unregister removes a connection. After it returns no broadcast reaches
// conn.
func (s *Session) Unregister(conn *Connection) {
	s.connMu.Lock()
	delete(s.connections, conn)
	n := len(s.connections)
	s.connMu.Unlock()

	if conn.seat != nil {
		s.touchSeat(*conn.seat)
	}
	s.logger.Info("connection left", "conn", conn.id, "connections", n)
}

func (s *Session) touchSeat(seat int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, ok := s.seats[seat]; ok {
		info.LastSeen = time.Now()
	}
}

// Connections returns the registered connections.
func (s *Session) Connections() []*Connection {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	out := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		out = append(out, conn)
	}
	return out
}

// Broadcast sends msg to every registered connection.
func (s *Session) Broadcast(msg *network.ServerMessage) {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for conn := range s.connections {
		conn.SendMessage(msg)
	}
}

func seatAttr(seat *int) any {
	if seat == nil {
		return "hot-seat"
	}
	return *seat
}
