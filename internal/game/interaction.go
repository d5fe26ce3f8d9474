package game

// Mode names the interaction sub-mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeChaining
	ModeCapturing
)

func (m Mode) String() string {
	switch m {
	case ModeSelecting:
		return "selecting"
	case ModeChaining:
		return "chaining"
	case ModeCapturing:
		return "capturing"
	default:
		return "idle"
	}
}

// Interaction is the closed set of sub-modes: Idle, Selecting, Chaining or
// Capturing. Only this package can add variants.
type Interaction interface {
	Mode() Mode
	isInteraction()
}

// Idle means nothing is selected or pending.
type Idle struct{}

// Selecting holds the bee the current player has picked.
type Selecting struct {
	Bee BeeID
}

// Chaining is an armed single-hop pass of Source's token at TokenIndex to
// one of Targets. Value is the token's value when the chain was armed.
type Chaining struct {
	Source     BeeID
	TokenIndex int
	Value      int
	Targets    []BeeID
}

// Capturing waits for the attacker to choose where Victim is sent home.
type Capturing struct {
	Attacker BeeID
	Victim   BeeID
}

func (Idle) Mode() Mode      { return ModeIdle }
func (Selecting) Mode() Mode { return ModeSelecting }
func (Chaining) Mode() Mode  { return ModeChaining }
func (Capturing) Mode() Mode { return ModeCapturing }

func (Idle) isInteraction()      {}
func (Selecting) isInteraction() {}
func (Chaining) isInteraction()  {}
func (Capturing) isInteraction() {}

// HasTarget reports whether id is an eligible pass target.
func (c Chaining) HasTarget(id BeeID) bool {
	for _, t := range c.Targets {
		if t == id {
			return true
		}
	}
	return false
}

// Selected returns the selected bee, if any.
func (g *Game) Selected() (BeeID, bool) {
	if s, ok := g.interaction.(Selecting); ok {
		return s.Bee, true
	}
	return 0, false
}

// Select makes id the current selection. Selecting while a chain is armed
// ends the chain instead; selecting is refused during a capture.
func (g *Game) Select(id BeeID) error {
	if g.over {
		return ErrGameOver
	}
	switch g.interaction.(type) {
	case Capturing:
		return ErrCaptureInProgress
	case Chaining:
		g.interaction = Idle{}
		return ErrChainCancelled
	}
	if _, err := g.ownBee(id); err != nil {
		return err
	}
	g.interaction = Selecting{Bee: id}
	return nil
}

// Deselect drops the selection or an armed chain. A pending capture is
// kept; use CancelCapture for that.
func (g *Game) Deselect() {
	switch g.interaction.(type) {
	case Selecting, Chaining:
		g.interaction = Idle{}
	}
}
