package play

import (
	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/session"
)

type createSessionRequest struct {
	Nickname string `json:"nickname" example:"Ada"`
}

type createSessionResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

// Action payloads. Every inbound action unmarshals into one of these.

type createRoomPayload struct {
	Code     string   `json:"code"`
	WordList []string `json:"wordList,omitempty"`
}

type joinRoomPayload struct {
	Code string `json:"code"`
}

type changeTeamPayload struct {
	Team domain.Team `json:"team"`
}

type changeRolePayload struct {
	Role domain.Role `json:"role"`
}

type targetPlayerPayload struct {
	PlayerID string `json:"playerId"`
}

type startGamePayload struct {
	WordList []string `json:"wordList,omitempty"`
}

type giveCluePayload struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type positionPayload struct {
	Position int `json:"position"`
}

type resetGamePayload struct {
	WordList []string `json:"wordList,omitempty"`
}

type timerSettingsPayload struct {
	Settings session.TimerSettingsUpdate `json:"settings"`
}

type togglePausePayload struct {
	Team domain.Team `json:"team"`
}

type markCardResponse struct {
	Position int  `json:"position"`
	Marked   bool `json:"marked"`
}
