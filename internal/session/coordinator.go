package session

import (
	"context"
	"math/rand/v2"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/game"
	"github.com/wordspy/wordspy/internal/infrastructure/contracts"
	"github.com/wordspy/wordspy/internal/infrastructure/events"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
)

// RoomSummary is the room info returned to the acting caller.
type RoomSummary struct {
	Code    string               `json:"code"`
	Status  domain.RoomStatus    `json:"status"`
	HostID  string               `json:"hostId"`
	Players []game.PlayerSummary `json:"players"`
}

// Coordinator handles room lifecycle and membership: join/leave/kick, team
// and role assignment, host election and transfer. Game-state mutations stay
// in the Machine; the coordinator re-broadcasts state after membership
// changes because a viewer's visibility can change with their role.
type Coordinator struct {
	repos       Repositories
	registry    *Registry
	machine     *Machine
	broadcaster Broadcaster
	publisher   events.Publisher
	logger      logging.Logger
}

func NewCoordinator(
	repos Repositories,
	registry *Registry,
	machine *Machine,
	broadcaster Broadcaster,
	publisher events.Publisher,
	logger logging.Logger,
) *Coordinator {
	return &Coordinator{
		repos:       repos,
		registry:    registry,
		machine:     machine,
		broadcaster: broadcaster,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateRoom creates a room with the caller as host and immediately starts a
// game; there is no waiting lobby. The join code must be unused.
func (c *Coordinator) CreateRoom(ctx context.Context, playerID, rawCode string, wordList []string) (*RoomSummary, error) {
	room, err := domain.NewRoom(rawCode, playerID)
	if err != nil {
		return nil, err
	}

	if err := c.repos.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	if err := c.repos.Memberships.Add(ctx, domain.NewMembership(room.ID, playerID)); err != nil {
		return nil, err
	}

	s := c.registry.Create(room.ID, room.Code)

	c.publishRoomEvent(ctx, contracts.EventRoomCreated, room.Code, playerID)

	c.logger.Info(logging.Session, logging.Membership, "room created", map[logging.ExtraKey]any{
		logging.RoomCode: room.Code,
		logging.PlayerId: playerID,
	})

	if _, err := c.machine.StartGame(ctx, s, playerID, wordList); err != nil {
		// The room stands; the host can retry game:start with a word list.
		c.logger.Warn(logging.Session, logging.Startup, "room created but game start failed", map[logging.ExtraKey]any{
			logging.RoomCode:     room.Code,
			logging.ErrorMessage: err.Error(),
		})
	}

	// Reload: a successful start flipped the status to playing.
	room, err = c.repos.Rooms.GetByID(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	return c.summary(ctx, room)
}

// Join adds the caller to the room. Joining is permitted at any room status;
// rejoining is a no-op. The room must already exist.
func (c *Coordinator) Join(ctx context.Context, playerID, rawCode string) (*RoomSummary, error) {
	code, err := domain.CleanJoinCode(rawCode)
	if err != nil {
		return nil, err
	}

	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// A persisted room may have outlived its session. Revive it here so every
	// joiner gets a working room; timers come back at their defaults.
	c.registry.GetOrCreate(room.ID, room.Code)

	if _, err := c.repos.Memberships.Get(ctx, room.ID, playerID); err == nil {
		return c.summary(ctx, room)
	}

	if err := c.repos.Memberships.Add(ctx, domain.NewMembership(room.ID, playerID)); err != nil {
		return nil, err
	}

	c.publishRoomEvent(ctx, contracts.EventMemberJoined, room.Code, playerID)

	if player, err := c.repos.Players.GetByID(ctx, playerID); err == nil {
		c.broadcaster.BroadcastEvent(room.Code, EventRoomPlayerJoined, PlayerJoinedPayload{
			Player: game.PlayerSummary{ID: player.PublicID, Nickname: player.Nickname},
		})
	}

	c.rebroadcast(ctx, room.Code)

	return c.summary(ctx, room)
}

// Leave removes the caller from the room. A disconnect takes exactly this
// path. Host departure promotes the earliest-joined remaining member; the
// last departure tears the room down.
func (c *Coordinator) Leave(ctx context.Context, playerID, code string) error {
	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := c.repos.Memberships.Remove(ctx, room.ID, playerID); err != nil {
		return err
	}

	if s, ok := c.registry.Get(room.Code); ok {
		s.Lock()
		s.DropPlayerMarkers(playerID)
		s.Unlock()
	}

	c.publishRoomEvent(ctx, contracts.EventMemberLeft, room.Code, playerID)

	remaining, err := c.repos.Memberships.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}

	if len(remaining) == 0 {
		return c.teardown(ctx, room)
	}

	c.broadcaster.BroadcastEvent(room.Code, EventRoomPlayerLeft, PlayerLeftPayload{
		PlayerID: c.publicIDFor(ctx, playerID),
	})

	if room.HostPlayerID == playerID {
		// Earliest joined inherits the room.
		newHost := remaining[0].PlayerID
		if err := c.repos.Rooms.UpdateHost(ctx, room.ID, newHost); err != nil {
			return err
		}

		c.publishRoomEvent(ctx, contracts.EventHostChanged, room.Code, newHost)
		c.broadcaster.BroadcastEvent(room.Code, EventRoomHostChanged, HostChangedPayload{
			HostPlayerID: c.publicIDFor(ctx, newHost),
		})
	}

	c.rebroadcast(ctx, room.Code)

	return nil
}

// ChangeTeam moves the caller to a team, or off teams entirely with TeamNone.
// Picking a team always resets the role to operative.
func (c *Coordinator) ChangeTeam(ctx context.Context, playerID, code string, team domain.Team) error {
	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if team != domain.TeamNone && !domain.ValidTeam(team) {
		return domain.ErrInvalidInput
	}

	role := domain.RoleOperative
	if team == domain.TeamNone {
		role = domain.RoleNone
	}

	if err := c.repos.Memberships.SetTeamRole(ctx, room.ID, playerID, team, role); err != nil {
		return err
	}

	c.rebroadcast(ctx, room.Code)

	return nil
}

// ChangeRole sets the caller's role on their current team. Multiple
// spymasters per team are allowed.
func (c *Coordinator) ChangeRole(ctx context.Context, playerID, code string, role domain.Role) error {
	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if role != domain.RoleSpymaster && role != domain.RoleOperative {
		return domain.ErrInvalidInput
	}

	member, err := c.repos.Memberships.Get(ctx, room.ID, playerID)
	if err != nil {
		return domain.ErrNotInRoom
	}

	if member.Team == domain.TeamNone {
		return domain.ErrNoTeam
	}

	if err := c.repos.Memberships.SetTeamRole(ctx, room.ID, playerID, member.Team, role); err != nil {
		return err
	}

	c.rebroadcast(ctx, room.Code)

	return nil
}

// RandomizeTeams shuffles all members into two equal-ish teams of operatives.
// Host-only; needs at least four members to make sense.
func (c *Coordinator) RandomizeTeams(ctx context.Context, playerID, code string) error {
	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if room.HostPlayerID != playerID {
		return domain.ErrNotHost
	}

	members, err := c.repos.Memberships.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if len(members) < 4 {
		return domain.ErrTooFewMembers
	}

	rand.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})

	half := (len(members) + 1) / 2
	for i, member := range members {
		team := domain.TeamRed
		if i >= half {
			team = domain.TeamBlue
		}
		if err := c.repos.Memberships.SetTeamRole(ctx, room.ID, member.PlayerID, team, domain.RoleOperative); err != nil {
			return err
		}
	}

	c.rebroadcast(ctx, room.Code)

	return nil
}

// TransferHost hands the room to another current member. Host-only.
func (c *Coordinator) TransferHost(ctx context.Context, playerID, code, targetPublicID string) error {
	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if room.HostPlayerID != playerID {
		return domain.ErrNotHost
	}

	target, err := c.repos.Players.GetByPublicID(ctx, targetPublicID)
	if err != nil {
		return err
	}

	if _, err := c.repos.Memberships.Get(ctx, room.ID, target.ID); err != nil {
		return domain.ErrMemberNotFound
	}

	if err := c.repos.Rooms.UpdateHost(ctx, room.ID, target.ID); err != nil {
		return err
	}

	c.publishRoomEvent(ctx, contracts.EventHostChanged, room.Code, target.ID)
	c.broadcaster.BroadcastEvent(room.Code, EventRoomHostChanged, HostChangedPayload{
		HostPlayerID: target.PublicID,
	})

	return nil
}

// Kick forcibly removes another member: their connection is detached from the
// room channel before the membership goes. Host-only; the host cannot kick
// themselves.
func (c *Coordinator) Kick(ctx context.Context, playerID, code, targetPublicID string) error {
	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if room.HostPlayerID != playerID {
		return domain.ErrNotHost
	}

	target, err := c.repos.Players.GetByPublicID(ctx, targetPublicID)
	if err != nil {
		return err
	}
	if target.ID == playerID {
		return domain.ErrCannotKickSelf
	}

	if err := c.repos.Memberships.Remove(ctx, room.ID, target.ID); err != nil {
		return err
	}

	c.broadcaster.SendEvent(room.Code, target.ID, EventKicked, KickedPayload{Reason: "kicked by host"})
	c.broadcaster.DetachPlayer(room.Code, target.ID)

	if s, ok := c.registry.Get(room.Code); ok {
		s.Lock()
		s.DropPlayerMarkers(target.ID)
		s.Unlock()
	}

	c.publishRoomEvent(ctx, contracts.EventMemberKicked, room.Code, target.ID)

	remaining, err := c.repos.Memberships.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return c.teardown(ctx, room)
	}

	c.broadcaster.BroadcastEvent(room.Code, EventRoomPlayerLeft, PlayerLeftPayload{
		PlayerID: target.PublicID,
	})
	c.rebroadcast(ctx, room.Code)

	return nil
}

// Room returns the public summary for a code; used by the HTTP lookup
// endpoint before a client opens the realtime channel.
func (c *Coordinator) Room(ctx context.Context, rawCode string) (*RoomSummary, error) {
	code, err := domain.CleanJoinCode(rawCode)
	if err != nil {
		return nil, err
	}

	room, err := c.repos.Rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return c.summary(ctx, room)
}

// teardown deletes an empty room and everything hanging off it.
func (c *Coordinator) teardown(ctx context.Context, room *domain.Room) error {
	if g, err := c.repos.Games.GetByRoomID(ctx, room.ID); err == nil {
		_ = c.repos.Logs.DeleteByGame(ctx, g.ID)
		_ = c.repos.Cards.DeleteByGame(ctx, g.ID)
		_ = c.repos.Games.DeleteByRoomID(ctx, room.ID)
	}

	_ = c.repos.Memberships.RemoveByRoom(ctx, room.ID)

	if err := c.repos.Rooms.Delete(ctx, room.ID); err != nil {
		return err
	}

	c.registry.Delete(room.Code)
	c.publishRoomEvent(ctx, contracts.EventRoomDeleted, room.Code, "")

	c.logger.Info(logging.Session, logging.Membership, "empty room deleted", map[logging.ExtraKey]any{
		logging.RoomCode: room.Code,
	})

	return nil
}

func (c *Coordinator) summary(ctx context.Context, room *domain.Room) (*RoomSummary, error) {
	members, err := c.repos.Memberships.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	return &RoomSummary{
		Code:    room.Code,
		Status:  room.Status,
		HostID:  c.publicIDFor(ctx, room.HostPlayerID),
		Players: c.machine.playerSummaries(ctx, members),
	}, nil
}

// rebroadcast refreshes every viewer's masked state after a membership
// change; a role change alone can change what a viewer is allowed to see.
func (c *Coordinator) rebroadcast(ctx context.Context, code string) {
	s, ok := c.registry.Get(code)
	if !ok {
		return
	}

	c.machine.BroadcastState(ctx, s)
}

func (c *Coordinator) publishRoomEvent(ctx context.Context, eventType, roomCode, playerID string) {
	if err := c.publisher.PublishRoomEvent(ctx, eventType, roomCode, playerID); err != nil {
		c.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to publish room event", map[logging.ExtraKey]any{
			logging.RoomCode:     roomCode,
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (c *Coordinator) publicIDFor(ctx context.Context, playerID string) string {
	player, err := c.repos.Players.GetByID(ctx, playerID)
	if err != nil {
		return ""
	}
	return player.PublicID
}
