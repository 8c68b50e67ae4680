package play

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/ws"
	"github.com/wordspy/wordspy/internal/session"
)

var errNoSession = errors.New("room session unavailable")

// Handle routes one inbound action to the coordinator or the state machine
// and returns the ack payload. Implements ws.ActionHandler.
func (h *Handler) Handle(ctx context.Context, client *ws.Client, action string, payload json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, client, action, payload)

	label := "ok"
	if err != nil {
		label = "error"
	}
	h.metrics.ActionsTotal.WithLabelValues(action, label).Inc()

	return result, err
}

func (h *Handler) dispatch(ctx context.Context, client *ws.Client, action string, payload json.RawMessage) (any, error) {
	switch action {
	case ws.ActionRoomCreate:
		var p createRoomPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		summary, err := h.coordinator.CreateRoom(ctx, client.PlayerID, p.Code, p.WordList)
		if err != nil {
			return nil, err
		}

		h.core.Attach(client, summary.Code)
		return summary, nil

	case ws.ActionRoomJoin:
		var p joinRoomPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		summary, err := h.coordinator.Join(ctx, client.PlayerID, p.Code)
		if err != nil {
			return nil, err
		}

		h.core.Attach(client, summary.Code)
		return summary, nil

	case ws.ActionRoomLeave:
		code, ok := h.core.RoomOf(client)
		if !ok {
			return nil, domain.ErrNotInRoom
		}

		h.core.Detach(client)
		return nil, h.coordinator.Leave(ctx, client.PlayerID, code)

	case ws.ActionRoomChangeTeam:
		var p changeTeamPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		code, ok := h.core.RoomOf(client)
		if !ok {
			return nil, domain.ErrNotInRoom
		}

		return nil, h.coordinator.ChangeTeam(ctx, client.PlayerID, code, p.Team)

	case ws.ActionRoomChangeRole:
		var p changeRolePayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		code, ok := h.core.RoomOf(client)
		if !ok {
			return nil, domain.ErrNotInRoom
		}

		return nil, h.coordinator.ChangeRole(ctx, client.PlayerID, code, p.Role)

	case ws.ActionRoomRandomizeTeams:
		code, ok := h.core.RoomOf(client)
		if !ok {
			return nil, domain.ErrNotInRoom
		}

		return nil, h.coordinator.RandomizeTeams(ctx, client.PlayerID, code)

	case ws.ActionRoomTransferHost:
		var p targetPlayerPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		code, ok := h.core.RoomOf(client)
		if !ok {
			return nil, domain.ErrNotInRoom
		}

		return nil, h.coordinator.TransferHost(ctx, client.PlayerID, code, p.PlayerID)

	case ws.ActionRoomKickPlayer:
		var p targetPlayerPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		code, ok := h.core.RoomOf(client)
		if !ok {
			return nil, domain.ErrNotInRoom
		}

		return nil, h.coordinator.Kick(ctx, client.PlayerID, code, p.PlayerID)

	case ws.ActionGameStart:
		var p startGamePayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		if _, err := h.machine.StartGame(ctx, s, client.PlayerID, p.WordList); err != nil {
			return nil, err
		}

		return h.machine.State(ctx, s, client.PlayerID)

	case ws.ActionGameGiveClue:
		var p giveCluePayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		return nil, h.machine.GiveClue(ctx, s, client.PlayerID, p.Word, p.Count)

	case ws.ActionGameGuessCard:
		var p positionPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		return nil, h.machine.GuessCard(ctx, s, client.PlayerID, p.Position)

	case ws.ActionGameEndTurn:
		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		return nil, h.machine.EndTurn(ctx, s, client.PlayerID)

	case ws.ActionGameMarkCard:
		var p positionPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		marked, err := h.machine.MarkCard(ctx, s, client.PlayerID, p.Position)
		if err != nil {
			return nil, err
		}

		return markCardResponse{Position: p.Position, Marked: marked}, nil

	case ws.ActionGameReset:
		var p resetGamePayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		if _, err := h.machine.ResetGame(ctx, s, client.PlayerID, p.WordList); err != nil {
			return nil, err
		}

		return h.machine.State(ctx, s, client.PlayerID)

	case ws.ActionGameGetState:
		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		return h.machine.State(ctx, s, client.PlayerID)

	case ws.ActionGameUpdateTimerSettings:
		var p timerSettingsPayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		return h.machine.UpdateTimerSettings(ctx, s, client.PlayerID, p.Settings)

	case ws.ActionGameToggleTimerPause:
		var p togglePausePayload
		if err := unmarshal(payload, &p); err != nil {
			return nil, err
		}

		s, err := h.sessionOf(client)
		if err != nil {
			return nil, err
		}

		return h.machine.ToggleTimerPause(ctx, s, client.PlayerID, p.Team)

	default:
		return nil, domain.ErrInvalidInput
	}
}

// HandleDisconnect treats a dropped connection as a leave, unless the player
// still has another connection open in the same room.
func (h *Handler) HandleDisconnect(ctx context.Context, client *ws.Client, roomCode string) {
	if slices.Contains(h.core.Viewers(roomCode), client.PlayerID) {
		return
	}

	if err := h.coordinator.Leave(ctx, client.PlayerID, roomCode); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) || errors.Is(err, domain.ErrMemberNotFound) {
			return
		}

		h.logger.Warn(logging.Session, logging.Membership, "disconnect cleanup failed", map[logging.ExtraKey]any{
			logging.RoomCode:     roomCode,
			logging.PlayerId:     client.PlayerID,
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (h *Handler) sessionOf(client *ws.Client) (*session.Session, error) {
	code, ok := h.core.RoomOf(client)
	if !ok {
		return nil, domain.ErrNotInRoom
	}

	s, ok := h.registry.Get(code)
	if !ok {
		return nil, errNoSession
	}

	return s, nil
}

func unmarshal(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return domain.ErrInvalidInput
	}

	return nil
}
