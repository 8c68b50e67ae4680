package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordspy/wordspy/internal/domain"
)

func TestCoordinatorCreateRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")

	summary, err := f.coordinator.CreateRoom(ctx, host.ID, "abcd", nil)
	require.NoError(t, err)

	assert.Equal(t, "ABCD", summary.Code)
	assert.Equal(t, domain.RoomPlaying, summary.Status)
	assert.Equal(t, host.PublicID, summary.HostID)
	require.Len(t, summary.Players, 1)
	assert.Equal(t, "alice", summary.Players[0].Nickname)

	_, ok := f.registry.Get("ABCD")
	assert.True(t, ok)

	t.Run("duplicate code is rejected", func(t *testing.T) {
		other := f.newPlayer(t, "bob")
		_, err := f.coordinator.CreateRoom(ctx, other.ID, "abcd", nil)
		assert.ErrorIs(t, err, domain.ErrRoomAlreadyExists)
	})

	t.Run("bad code is rejected", func(t *testing.T) {
		_, err := f.coordinator.CreateRoom(ctx, host.ID, "a!", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCoordinatorJoin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	s := f.newRoom(t, host, "JOIN1")

	t.Run("join mid-game is allowed", func(t *testing.T) {
		joiner := f.newPlayer(t, "bob")

		summary, err := f.coordinator.Join(ctx, joiner.ID, "join1")
		require.NoError(t, err)
		assert.Len(t, summary.Players, 2)

		member, err := f.repos.Memberships.Get(ctx, s.RoomID, joiner.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TeamNone, member.Team)

		assert.NotEmpty(t, f.broadcaster.eventsNamed(EventRoomPlayerJoined))
	})

	t.Run("rejoin is a no-op", func(t *testing.T) {
		summary, err := f.coordinator.Join(ctx, host.ID, s.Code)
		require.NoError(t, err)
		assert.Len(t, summary.Players, 2)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := f.coordinator.Join(ctx, host.ID, "NOPE99")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("join revives a session lost with process memory", func(t *testing.T) {
		f.registry.Delete(s.Code)
		_, ok := f.registry.Get(s.Code)
		require.False(t, ok)

		_, err := f.coordinator.Join(ctx, host.ID, s.Code)
		require.NoError(t, err)

		revived, ok := f.registry.Get(s.Code)
		require.True(t, ok)
		assert.Equal(t, s.RoomID, revived.RoomID)

		// the persisted game still plays through the revived session
		_, err = f.machine.State(ctx, revived, host.ID)
		assert.NoError(t, err)
	})
}

func TestCoordinatorLeave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("host departure promotes the earliest joined member", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		second := f.newPlayer(t, "bob")
		third := f.newPlayer(t, "carol")
		s := f.newRoom(t, host, "LEAVE1")

		_, err := f.coordinator.Join(ctx, second.ID, s.Code)
		require.NoError(t, err)
		_, err = f.coordinator.Join(ctx, third.ID, s.Code)
		require.NoError(t, err)

		require.NoError(t, f.coordinator.Leave(ctx, host.ID, s.Code))

		room, err := f.repos.Rooms.GetByCode(ctx, s.Code)
		require.NoError(t, err)
		assert.Equal(t, second.ID, room.HostPlayerID)

		assert.NotEmpty(t, f.broadcaster.eventsNamed(EventRoomHostChanged))
	})

	t.Run("last departure tears the room down", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		s := f.newRoom(t, host, "LEAVE2")

		g := f.currentGame(t, s)

		require.NoError(t, f.coordinator.Leave(ctx, host.ID, s.Code))

		_, err := f.repos.Rooms.GetByCode(ctx, s.Code)
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)

		_, err = f.repos.Games.GetByRoomID(ctx, s.RoomID)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)

		_, err = f.repos.Cards.GetByPosition(ctx, g.ID, 0)
		assert.Error(t, err)

		_, ok := f.registry.Get(s.Code)
		assert.False(t, ok)
	})

	t.Run("leaving a room you are not in fails", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		stranger := f.newPlayer(t, "eve")
		s := f.newRoom(t, host, "LEAVE3")

		err := f.coordinator.Leave(ctx, stranger.ID, s.Code)
		assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	})
}

func TestCoordinatorTeamsAndRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	s := f.newRoom(t, host, "TEAM1")

	t.Run("picking a team makes you an operative", func(t *testing.T) {
		require.NoError(t, f.coordinator.ChangeTeam(ctx, host.ID, s.Code, domain.TeamRed))

		member, err := f.repos.Memberships.Get(ctx, s.RoomID, host.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TeamRed, member.Team)
		assert.Equal(t, domain.RoleOperative, member.Role)
	})

	t.Run("role change on a team", func(t *testing.T) {
		require.NoError(t, f.coordinator.ChangeRole(ctx, host.ID, s.Code, domain.RoleSpymaster))

		member, err := f.repos.Memberships.Get(ctx, s.RoomID, host.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSpymaster, member.Role)
	})

	t.Run("leaving teams clears the role", func(t *testing.T) {
		require.NoError(t, f.coordinator.ChangeTeam(ctx, host.ID, s.Code, domain.TeamNone))

		member, err := f.repos.Memberships.Get(ctx, s.RoomID, host.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TeamNone, member.Team)
		assert.Equal(t, domain.RoleNone, member.Role)
	})

	t.Run("role without a team is rejected", func(t *testing.T) {
		err := f.coordinator.ChangeRole(ctx, host.ID, s.Code, domain.RoleSpymaster)
		assert.ErrorIs(t, err, domain.ErrNoTeam)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		assert.ErrorIs(t, f.coordinator.ChangeTeam(ctx, host.ID, s.Code, "green"), domain.ErrInvalidInput)
		assert.ErrorIs(t, f.coordinator.ChangeRole(ctx, host.ID, s.Code, "jester"), domain.ErrInvalidInput)
	})
}

func TestCoordinatorRandomizeTeams(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	s := f.newRoom(t, host, "RAND1")

	others := make([]*domain.Player, 0, 3)
	for _, name := range []string{"bob", "carol", "dave"} {
		p := f.newPlayer(t, name)
		_, err := f.coordinator.Join(ctx, p.ID, s.Code)
		require.NoError(t, err)
		others = append(others, p)
	}

	t.Run("host-only", func(t *testing.T) {
		err := f.coordinator.RandomizeTeams(ctx, others[0].ID, s.Code)
		assert.ErrorIs(t, err, domain.ErrNotHost)
	})

	t.Run("splits members into two operative teams", func(t *testing.T) {
		require.NoError(t, f.coordinator.RandomizeTeams(ctx, host.ID, s.Code))

		members, err := f.repos.Memberships.ListByRoom(ctx, s.RoomID)
		require.NoError(t, err)

		counts := map[domain.Team]int{}
		for _, m := range members {
			counts[m.Team]++
			assert.Equal(t, domain.RoleOperative, m.Role)
		}
		assert.Equal(t, 2, counts[domain.TeamRed])
		assert.Equal(t, 2, counts[domain.TeamBlue])
	})

	t.Run("too few members", func(t *testing.T) {
		f2 := newFixture(t)
		host2 := f2.newPlayer(t, "zed")
		s2 := f2.newRoom(t, host2, "RAND2")

		err := f2.coordinator.RandomizeTeams(ctx, host2.ID, s2.Code)
		assert.ErrorIs(t, err, domain.ErrTooFewMembers)
	})
}

func TestCoordinatorTransferHost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	member := f.newPlayer(t, "bob")
	s := f.newRoom(t, host, "HOST1")

	_, err := f.coordinator.Join(ctx, member.ID, s.Code)
	require.NoError(t, err)

	t.Run("host-only", func(t *testing.T) {
		err := f.coordinator.TransferHost(ctx, member.ID, s.Code, host.PublicID)
		assert.ErrorIs(t, err, domain.ErrNotHost)
	})

	t.Run("target must be a member", func(t *testing.T) {
		outsider := f.newPlayer(t, "eve")
		err := f.coordinator.TransferHost(ctx, host.ID, s.Code, outsider.PublicID)
		assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	})

	t.Run("transfer", func(t *testing.T) {
		require.NoError(t, f.coordinator.TransferHost(ctx, host.ID, s.Code, member.PublicID))

		room, err := f.repos.Rooms.GetByCode(ctx, s.Code)
		require.NoError(t, err)
		assert.Equal(t, member.ID, room.HostPlayerID)
	})
}

func TestCoordinatorKick(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	target := f.newPlayer(t, "bob")
	s := f.newRoom(t, host, "KICK1")

	_, err := f.coordinator.Join(ctx, target.ID, s.Code)
	require.NoError(t, err)
	f.broadcaster.addViewer(s.Code, target.ID)

	t.Run("host cannot kick themselves", func(t *testing.T) {
		err := f.coordinator.Kick(ctx, host.ID, s.Code, host.PublicID)
		assert.ErrorIs(t, err, domain.ErrCannotKickSelf)
	})

	t.Run("non-host cannot kick", func(t *testing.T) {
		err := f.coordinator.Kick(ctx, target.ID, s.Code, host.PublicID)
		assert.ErrorIs(t, err, domain.ErrNotHost)
	})

	t.Run("kick removes membership and detaches the connection", func(t *testing.T) {
		require.NoError(t, f.coordinator.Kick(ctx, host.ID, s.Code, target.PublicID))

		_, err := f.repos.Memberships.Get(ctx, s.RoomID, target.ID)
		assert.ErrorIs(t, err, domain.ErrMemberNotFound)

		assert.NotContains(t, f.broadcaster.Viewers(s.Code), target.ID)

		// the kicked player was told before the detach
		var kicked bool
		for _, e := range f.broadcaster.sends {
			if e.Event == EventKicked && e.PlayerID == target.ID {
				kicked = true
			}
		}
		assert.True(t, kicked)
	})
}

func TestCoordinatorRoomLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	f.newRoom(t, host, "LOOK1")

	summary, err := f.coordinator.Room(ctx, "look1")
	require.NoError(t, err)
	assert.Equal(t, "LOOK1", summary.Code)
	assert.Equal(t, domain.RoomPlaying, summary.Status)

	_, err = f.coordinator.Room(ctx, "ZZZZ")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
