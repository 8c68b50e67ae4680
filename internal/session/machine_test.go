package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/infrastructure/events"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/metrics"
	"github.com/wordspy/wordspy/internal/persistence/memory"
)

// fakeBroadcaster records everything sent through it.
type fakeBroadcaster struct {
	mu      sync.Mutex
	viewers map[string][]string

	broadcasts []recordedEvent
	sends      []recordedEvent
}

type recordedEvent struct {
	RoomCode string
	PlayerID string
	Event    string
	Payload  any
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{viewers: make(map[string][]string)}
}

func (f *fakeBroadcaster) addViewer(roomCode, playerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.viewers[roomCode] = append(f.viewers[roomCode], playerID)
}

func (f *fakeBroadcaster) BroadcastEvent(roomCode, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, recordedEvent{RoomCode: roomCode, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) SendEvent(roomCode, playerID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, recordedEvent{RoomCode: roomCode, PlayerID: playerID, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) Viewers(roomCode string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.viewers[roomCode]...)
}

func (f *fakeBroadcaster) ViewerCount(roomCode string) int {
	return len(f.Viewers(roomCode))
}

func (f *fakeBroadcaster) DetachPlayer(roomCode, playerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.viewers[roomCode][:0]
	for _, id := range f.viewers[roomCode] {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	f.viewers[roomCode] = kept
}

func (f *fakeBroadcaster) eventsNamed(event string) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []recordedEvent
	for _, e := range f.broadcasts {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	repos       Repositories
	registry    *Registry
	machine     *Machine
	coordinator *Coordinator
	broadcaster *fakeBroadcaster
}

func wordPool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("WORD%02d", i)
	}
	return pool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := Repositories{
		Players:     memory.NewPlayerRepository(),
		Rooms:       memory.NewRoomRepository(),
		Memberships: memory.NewMembershipRepository(),
		Games:       memory.NewGameRepository(),
		Cards:       memory.NewCardRepository(),
		Logs:        memory.NewGameLogRepository(),
	}

	broadcaster := newFakeBroadcaster()
	logger := logging.NewNopLogger()
	m := metrics.New(prometheus.NewRegistry())

	registry := NewRegistry(broadcaster, m, logger, testTimerSettings())
	machine := NewMachine(repos, registry, broadcaster, events.NopPublisher{}, m, logger, wordPool(40))
	coordinator := NewCoordinator(repos, registry, machine, broadcaster, events.NopPublisher{}, logger)

	return &fixture{
		repos:       repos,
		registry:    registry,
		machine:     machine,
		coordinator: coordinator,
		broadcaster: broadcaster,
	}
}

func (f *fixture) newPlayer(t *testing.T, nickname string) *domain.Player {
	t.Helper()

	player, err := domain.NewPlayer(nickname)
	require.NoError(t, err)
	require.NoError(t, f.repos.Players.Create(context.Background(), player))
	return player
}

// newRoom creates a room with a running game and returns its session.
func (f *fixture) newRoom(t *testing.T, host *domain.Player, code string) *Session {
	t.Helper()

	summary, err := f.coordinator.CreateRoom(context.Background(), host.ID, code, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RoomPlaying, summary.Status)

	f.broadcaster.addViewer(summary.Code, host.ID)

	s, ok := f.registry.Get(summary.Code)
	require.True(t, ok)
	return s
}

// joinTeam puts the player in the room on the given team and role.
func (f *fixture) joinTeam(t *testing.T, s *Session, player *domain.Player, team domain.Team, role domain.Role) {
	t.Helper()
	ctx := context.Background()

	if _, err := f.repos.Memberships.Get(ctx, s.RoomID, player.ID); err != nil {
		_, err = f.coordinator.Join(ctx, player.ID, s.Code)
		require.NoError(t, err)
		f.broadcaster.addViewer(s.Code, player.ID)
	}

	require.NoError(t, f.repos.Memberships.SetTeamRole(ctx, s.RoomID, player.ID, team, role))
}

// cardOfCategory finds an unrevealed card of the wanted category.
func (f *fixture) cardOfCategory(t *testing.T, gameID string, category domain.CardCategory) domain.Card {
	t.Helper()

	cards, err := f.repos.Cards.ListByGame(context.Background(), gameID)
	require.NoError(t, err)

	for _, card := range cards {
		if card.Category == category && !card.Revealed {
			return card
		}
	}

	t.Fatalf("no unrevealed %s card left", category)
	return domain.Card{}
}

func (f *fixture) currentGame(t *testing.T, s *Session) *domain.Game {
	t.Helper()

	g, err := f.repos.Games.GetByRoomID(context.Background(), s.RoomID)
	require.NoError(t, err)
	return g
}

func TestMachineStartGame(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	s := f.newRoom(t, host, "ROOM1")

	g := f.currentGame(t, s)
	assert.Equal(t, g.CurrentTurn, g.FirstTeam)
	assert.Equal(t, domain.FirstTeamCards, g.Remaining(g.FirstTeam))
	assert.Equal(t, domain.SecondTeamCards, g.Remaining(g.FirstTeam.Opponent()))

	cards, err := f.repos.Cards.ListByGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, cards, domain.BoardSize)

	_, err = f.machine.StartGame(ctx, s, host.ID, nil)
	assert.ErrorIs(t, err, domain.ErrGameInProgress)

	t.Run("only the host can start", func(t *testing.T) {
		guest := f.newPlayer(t, "mallory")
		f.joinTeam(t, s, guest, g.CurrentTurn, domain.RoleOperative)

		_, err := f.machine.StartGame(ctx, s, guest.ID, nil)
		assert.ErrorIs(t, err, domain.ErrNotHost)
	})

	t.Run("short word list is rejected", func(t *testing.T) {
		f2 := newFixture(t)
		host2 := f2.newPlayer(t, "bob")

		summary, err := f2.coordinator.CreateRoom(ctx, host2.ID, "ROOM2", wordPool(5))
		require.NoError(t, err)
		// the room stands even though the start failed
		assert.Equal(t, domain.RoomWaiting, summary.Status)

		s2, ok := f2.registry.Get("ROOM2")
		require.True(t, ok)

		_, err = f2.machine.StartGame(ctx, s2, host2.ID, wordPool(5))
		assert.ErrorIs(t, err, domain.ErrNotEnoughWords)
	})
}

func TestMachineGiveClue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	operative := f.newPlayer(t, "bob")
	s := f.newRoom(t, host, "CLUE1")

	g := f.currentGame(t, s)
	f.joinTeam(t, s, host, g.CurrentTurn, domain.RoleSpymaster)
	f.joinTeam(t, s, operative, g.CurrentTurn, domain.RoleOperative)

	t.Run("operative cannot give a clue", func(t *testing.T) {
		err := f.machine.GiveClue(ctx, s, operative.ID, "ocean", 2)
		assert.ErrorIs(t, err, domain.ErrNotSpymaster)
	})

	t.Run("spymaster gives a clue", func(t *testing.T) {
		require.NoError(t, f.machine.GiveClue(ctx, s, host.ID, " ocean ", 2))

		g := f.currentGame(t, s)
		assert.Equal(t, "OCEAN", g.ClueWord)
		assert.Equal(t, 2, g.ClueCount)
		assert.Equal(t, 3, g.GuessesRemaining)

		assert.NotEmpty(t, f.broadcaster.eventsNamed(EventGameClueGiven))
	})

	t.Run("second clue while one is active is rejected", func(t *testing.T) {
		err := f.machine.GiveClue(ctx, s, host.ID, "river", 1)
		assert.ErrorIs(t, err, domain.ErrClueActive)
	})

	t.Run("stranger is not in the room", func(t *testing.T) {
		stranger := f.newPlayer(t, "eve")
		err := f.machine.GiveClue(ctx, s, stranger.ID, "river", 1)
		assert.ErrorIs(t, err, domain.ErrNotInRoom)
	})
}

func TestMachineGuessCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("own card continues, opponent card flips the turn", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		s := f.newRoom(t, host, "GUESS1")

		g := f.currentGame(t, s)
		acting := g.CurrentTurn
		f.joinTeam(t, s, host, acting, domain.RoleSpymaster)
		require.NoError(t, f.machine.GiveClue(ctx, s, host.ID, "ocean", 2))

		own := f.cardOfCategory(t, g.ID, domain.TeamCategory(acting))
		require.NoError(t, f.machine.GuessCard(ctx, s, host.ID, own.Position))

		g = f.currentGame(t, s)
		assert.Equal(t, acting, g.CurrentTurn)
		assert.Equal(t, 2, g.GuessesRemaining)
		assert.Equal(t, domain.FirstTeamCards-1, g.Remaining(acting))

		t.Run("revealed card cannot be guessed twice", func(t *testing.T) {
			err := f.machine.GuessCard(ctx, s, host.ID, own.Position)
			assert.ErrorIs(t, err, domain.ErrCardRevealed)
		})

		opp := f.cardOfCategory(t, g.ID, domain.TeamCategory(acting.Opponent()))
		require.NoError(t, f.machine.GuessCard(ctx, s, host.ID, opp.Position))

		g = f.currentGame(t, s)
		assert.Equal(t, acting.Opponent(), g.CurrentTurn)
		assert.Empty(t, g.ClueWord)

		t.Run("guessing off-turn is rejected", func(t *testing.T) {
			err := f.machine.GuessCard(ctx, s, host.ID, 0)
			assert.ErrorIs(t, err, domain.ErrNotYourTurn)
		})
	})

	t.Run("guess without an active clue is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		s := f.newRoom(t, host, "GUESS2")

		g := f.currentGame(t, s)
		f.joinTeam(t, s, host, g.CurrentTurn, domain.RoleOperative)

		err := f.machine.GuessCard(ctx, s, host.ID, 0)
		assert.ErrorIs(t, err, domain.ErrNoActiveClue)
	})

	t.Run("assassin ends the game immediately", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		s := f.newRoom(t, host, "GUESS3")

		g := f.currentGame(t, s)
		acting := g.CurrentTurn
		f.joinTeam(t, s, host, acting, domain.RoleSpymaster)
		require.NoError(t, f.machine.GiveClue(ctx, s, host.ID, "ocean", 0))

		assassin := f.cardOfCategory(t, g.ID, domain.CategoryAssassin)
		require.NoError(t, f.machine.GuessCard(ctx, s, host.ID, assassin.Position))

		g = f.currentGame(t, s)
		assert.True(t, g.Finished())
		assert.Equal(t, acting.Opponent(), g.Winner)

		room, err := f.repos.Rooms.GetByID(ctx, s.RoomID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoomFinished, room.Status)

		assert.NotEmpty(t, f.broadcaster.eventsNamed(EventGameEnded))

		t.Run("finished game accepts no more guesses", func(t *testing.T) {
			err := f.machine.GuessCard(ctx, s, host.ID, 0)
			assert.ErrorIs(t, err, domain.ErrGameFinished)
		})

		t.Run("a restart replaces the finished game", func(t *testing.T) {
			fresh, err := f.machine.StartGame(ctx, s, host.ID, nil)
			require.NoError(t, err)
			assert.NotEqual(t, g.ID, fresh.ID)
			assert.False(t, fresh.Finished())

			// only the fresh game remains in the room
			loaded, err := f.repos.Games.GetByRoomID(ctx, s.RoomID)
			require.NoError(t, err)
			assert.Equal(t, fresh.ID, loaded.ID)

			oldCards, err := f.repos.Cards.ListByGame(ctx, g.ID)
			require.NoError(t, err)
			assert.Empty(t, oldCards)

			f.joinTeam(t, s, host, fresh.CurrentTurn, domain.RoleSpymaster)
			require.NoError(t, f.machine.GiveClue(ctx, s, host.ID, "harbor", 2))

			loaded = f.currentGame(t, s)
			assert.Equal(t, "HARBOR", loaded.ClueWord)
		})
	})

	t.Run("revealing a team's last card wins", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		host := f.newPlayer(t, "alice")
		s := f.newRoom(t, host, "GUESS4")

		g := f.currentGame(t, s)
		acting := g.CurrentTurn
		f.joinTeam(t, s, host, acting, domain.RoleSpymaster)
		require.NoError(t, f.machine.GiveClue(ctx, s, host.ID, "everything", 0))

		// unlimited clue, reveal the whole team one by one
		for i := 0; i < domain.FirstTeamCards; i++ {
			card := f.cardOfCategory(t, g.ID, domain.TeamCategory(acting))
			require.NoError(t, f.machine.GuessCard(ctx, s, host.ID, card.Position))
		}

		g = f.currentGame(t, s)
		assert.True(t, g.Finished())
		assert.Equal(t, acting, g.Winner)
		assert.Zero(t, g.Remaining(acting))
	})
}

func TestMachineEndTurn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	other := f.newPlayer(t, "bob")
	s := f.newRoom(t, host, "TURN1")

	g := f.currentGame(t, s)
	acting := g.CurrentTurn
	f.joinTeam(t, s, host, acting, domain.RoleOperative)
	f.joinTeam(t, s, other, acting.Opponent(), domain.RoleOperative)

	err := f.machine.EndTurn(ctx, s, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)

	require.NoError(t, f.machine.EndTurn(ctx, s, host.ID))

	g = f.currentGame(t, s)
	assert.Equal(t, acting.Opponent(), g.CurrentTurn)
	assert.NotEmpty(t, f.broadcaster.eventsNamed(EventGameTurnChanged))
}

func TestMachineResetGame(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	member := f.newPlayer(t, "bob")
	s := f.newRoom(t, host, "RESET1")

	g := f.currentGame(t, s)
	f.joinTeam(t, s, host, g.CurrentTurn, domain.RoleSpymaster)
	f.joinTeam(t, s, member, g.CurrentTurn.Opponent(), domain.RoleOperative)

	_, err := f.machine.ResetGame(ctx, s, member.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotHost)

	oldID := g.ID
	fresh, err := f.machine.ResetGame(ctx, s, host.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, oldID, fresh.ID)
	assert.False(t, fresh.Finished())

	// teams and roles were cleared for everyone
	members, err := f.repos.Memberships.ListByRoom(ctx, s.RoomID)
	require.NoError(t, err)
	for _, m := range members {
		assert.Equal(t, domain.TeamNone, m.Team)
		assert.Equal(t, domain.RoleNone, m.Role)
	}

	// the old game's artifacts are gone
	_, err = f.repos.Cards.GetByPosition(ctx, oldID, 0)
	assert.Error(t, err)

	room, err := f.repos.Rooms.GetByID(ctx, s.RoomID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomPlaying, room.Status)

	assert.NotEmpty(t, f.broadcaster.eventsNamed(EventGameReset))
}

func TestMachineState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	spectator := f.newPlayer(t, "carol")
	s := f.newRoom(t, host, "STATE1")

	g := f.currentGame(t, s)
	f.joinTeam(t, s, host, g.CurrentTurn, domain.RoleSpymaster)
	_, err := f.coordinator.Join(ctx, spectator.ID, s.Code)
	require.NoError(t, err)

	hostView, err := f.machine.State(ctx, s, host.ID)
	require.NoError(t, err)

	spectatorView, err := f.machine.State(ctx, s, spectator.ID)
	require.NoError(t, err)

	hidden := 0
	for _, card := range spectatorView.Cards {
		if card.Type == domain.CategoryHidden {
			hidden++
		}
	}
	assert.Equal(t, domain.BoardSize, hidden)

	for _, card := range hostView.Cards {
		assert.NotEqual(t, domain.CategoryHidden, card.Type)
	}

	assert.Len(t, hostView.Players, 2)
}

func TestMachineTimerOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	member := f.newPlayer(t, "bob")
	s := f.newRoom(t, host, "TIMER1")

	g := f.currentGame(t, s)
	f.joinTeam(t, s, host, g.CurrentTurn, domain.RoleSpymaster)
	f.joinTeam(t, s, member, g.CurrentTurn.Opponent(), domain.RoleOperative)

	t.Run("settings update is host-only", func(t *testing.T) {
		seconds := 45
		_, err := f.machine.UpdateTimerSettings(ctx, s, member.ID, TimerSettingsUpdate{SpymasterSeconds: &seconds})
		assert.ErrorIs(t, err, domain.ErrNotHost)

		snap, err := f.machine.UpdateTimerSettings(ctx, s, host.ID, TimerSettingsUpdate{SpymasterSeconds: &seconds})
		require.NoError(t, err)
		assert.Equal(t, 45, snap.Settings.SpymasterSeconds)
	})

	t.Run("pause toggle is gated to the clock's team", func(t *testing.T) {
		_, err := f.machine.ToggleTimerPause(ctx, s, member.ID, g.CurrentTurn)
		assert.ErrorIs(t, err, domain.ErrWrongTeamTimer)

		_, err = f.machine.ToggleTimerPause(ctx, s, host.ID, domain.TeamNone)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		snap, err := f.machine.ToggleTimerPause(ctx, s, host.ID, g.CurrentTurn)
		require.NoError(t, err)
		assert.NotNil(t, snap)
	})
}

func TestMachineMarkCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	host := f.newPlayer(t, "alice")
	s := f.newRoom(t, host, "MARK1")

	g := f.currentGame(t, s)
	f.joinTeam(t, s, host, g.CurrentTurn, domain.RoleOperative)

	marked, err := f.machine.MarkCard(ctx, s, host.ID, 3)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = f.machine.MarkCard(ctx, s, host.ID, 3)
	require.NoError(t, err)
	assert.False(t, marked)

	_, err = f.machine.MarkCard(ctx, s, host.ID, domain.BoardSize)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stranger := f.newPlayer(t, "eve")
	_, err = f.machine.MarkCard(ctx, s, stranger.ID, 3)
	assert.ErrorIs(t, err, domain.ErrNotInRoom)
}
