package session

import (
	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/game"
)

// Server-initiated event names. Clients receive these without having asked.
const (
	EventRoomPlayerJoined  = "room:playerJoined"
	EventRoomPlayerLeft    = "room:playerLeft"
	EventRoomHostChanged   = "room:hostChanged"
	EventRoomStatusChanged = "room:statusChanged"
	EventGameState         = "game:state"
	EventGameClueGiven     = "game:clueGiven"
	EventGameCardRevealed  = "game:cardRevealed"
	EventGameTurnChanged   = "game:turnChanged"
	EventGameEnded         = "game:ended"
	EventGameReset         = "game:reset"
	EventTimerTick         = "timer:tick"
	EventTimerSettings     = "timer:settings"
	EventCardMarked        = "card:marked"
	EventKicked            = "kicked"
)

type PlayerJoinedPayload struct {
	Player game.PlayerSummary `json:"player"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type HostChangedPayload struct {
	HostPlayerID string `json:"hostPlayerId"`
}

type StatusChangedPayload struct {
	Status domain.RoomStatus `json:"status"`
}

type ClueGivenPayload struct {
	Team             domain.Team `json:"team"`
	Word             string      `json:"word"`
	Count            int         `json:"count"`
	GuessesRemaining int         `json:"guessesRemaining"`
}

type CardRevealedPayload struct {
	Position         int                 `json:"position"`
	Type             domain.CardCategory `json:"type"`
	RevealedBy       string              `json:"revealedBy"`
	GuessesRemaining int                 `json:"guessesRemaining"`
	Scores           game.Scores         `json:"scores"`
}

type TurnChangedPayload struct {
	CurrentTurn domain.Team        `json:"currentTurn"`
	Reason      game.AdvanceReason `json:"reason"`
}

type GameEndedPayload struct {
	Winner domain.Team    `json:"winner"`
	Reason game.WinReason `json:"reason"`
}

type TimerTickPayload struct {
	Team             domain.Team `json:"team"`
	SecondsRemaining int         `json:"secondsRemaining"`
}

type CardMarkedPayload struct {
	PlayerID string `json:"playerId"`
	Position int    `json:"position"`
	Marked   bool   `json:"marked"`
}

type KickedPayload struct {
	Reason string `json:"reason"`
}
