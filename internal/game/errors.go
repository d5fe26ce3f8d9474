package game

import "errors"

// Rule violations. Every one of them leaves the game state unchanged, apart
// from ErrChainCancelled and ErrNotChainTarget which also drop the armed chain.
var (
	ErrInvalidPlayerCount = errors.New("player count must be between 2 and 6")
	ErrGameOver           = errors.New("game is over")
	ErrUnknownBee         = errors.New("unknown bee")
	ErrNotCurrentPlayer   = errors.New("not the current player's bee")

	ErrNoMovesLeft   = errors.New("no moves remaining")
	ErrNotAdjacent   = errors.New("target is not a neighbor")
	ErrOffBoard      = errors.New("target is off the board")
	ErrBlockedByAlly = errors.New("target occupied by own bee")
	ErrBlockade      = errors.New("target occupied by an empty-handed opponent")
	ErrForeignHome   = errors.New("cannot enter a honeycomb that is not yours")

	ErrNotCapturing          = errors.New("no capture in progress")
	ErrCaptureInProgress     = errors.New("capture in progress")
	ErrInvalidCaptureTarget  = errors.New("capture target must be one of the victim's home cells")
	ErrCaptureTargetOccupied = errors.New("capture target is occupied")

	ErrNoTokens       = errors.New("bee carries no nectar")
	ErrTokenIndex     = errors.New("no nectar token at that index")
	ErrNoChainTargets = errors.New("no connected bees to chain to")
	ErrNoChain        = errors.New("no chain in progress")
	ErrNotChainTarget = errors.New("target is not a connected bee; chain ended")
	ErrChainCancelled = errors.New("chain ended")

	ErrTurnNotReady          = errors.New("act before ending the turn")
	ErrMoveAllOutUnavailable = errors.New("move all out is only available in the first round")
	ErrNothingToMoveOut      = errors.New("no bees waiting at home")
	ErrNoDispersal           = errors.New("no valid move combination")
)

var errorCodes = map[error]string{
	ErrInvalidPlayerCount:    "invalid_player_count",
	ErrGameOver:              "game_over",
	ErrUnknownBee:            "unknown_bee",
	ErrNotCurrentPlayer:      "not_current_player",
	ErrNoMovesLeft:           "no_moves_left",
	ErrNotAdjacent:           "not_adjacent",
	ErrOffBoard:              "off_board",
	ErrBlockedByAlly:         "blocked_by_ally",
	ErrBlockade:              "blockade",
	ErrForeignHome:           "foreign_home",
	ErrNotCapturing:          "not_capturing",
	ErrCaptureInProgress:     "capture_in_progress",
	ErrInvalidCaptureTarget:  "invalid_capture_target",
	ErrCaptureTargetOccupied: "capture_target_occupied",
	ErrNoTokens:              "no_tokens",
	ErrTokenIndex:            "token_index",
	ErrNoChainTargets:        "no_chain_targets",
	ErrNoChain:               "no_chain",
	ErrNotChainTarget:        "not_chain_target",
	ErrChainCancelled:        "chain_cancelled",
	ErrTurnNotReady:          "turn_not_ready",
	ErrMoveAllOutUnavailable: "move_all_out_unavailable",
	ErrNothingToMoveOut:      "nothing_to_move_out",
	ErrNoDispersal:           "no_dispersal",
}

// ErrorCode maps a rule error to a stable wire code; "internal" otherwise.
func ErrorCode(err error) string {
	for e, code := range errorCodes {
		if errors.Is(err, e) {
			return code
		}
	}
	return "internal"
}

// IsRuleError reports whether err is a recoverable rule rejection.
func IsRuleError(err error) bool { return ErrorCode(err) != "internal" }
