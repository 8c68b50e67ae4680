package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/game"
	"github.com/wordspy/wordspy/internal/infrastructure/contracts"
	"github.com/wordspy/wordspy/internal/infrastructure/events"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/metrics"
)

// Repositories bundles the storage collaborators the session layer needs.
type Repositories struct {
	Players     domain.PlayerRepository
	Rooms       domain.RoomRepository
	Memberships domain.MembershipRepository
	Games       domain.GameRepository
	Cards       domain.CardRepository
	Logs        domain.GameLogRepository
}

// Machine is the only component allowed to mutate a game's authoritative
// state. Every operation takes the room's Session lock, so transitions are
// serialized per room.
type Machine struct {
	repos       Repositories
	registry    *Registry
	broadcaster Broadcaster
	publisher   events.Publisher
	metrics     *metrics.Metrics
	logger      logging.Logger

	// wordPool is the default word set used when an action supplies none.
	wordPool []string
}

func NewMachine(
	repos Repositories,
	registry *Registry,
	broadcaster Broadcaster,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger logging.Logger,
	wordPool []string,
) *Machine {
	return &Machine{
		repos:       repos,
		registry:    registry,
		broadcaster: broadcaster,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
		wordPool:    wordPool,
	}
}

// StartGame creates a fresh game and board for the room. Host-only. The word
// pool must hold at least 25 entries; a short pool aborts the operation with
// nothing created.
func (m *Machine) StartGame(ctx context.Context, s *Session, playerID string, wordList []string) (*domain.Game, error) {
	s.Lock()
	defer s.Unlock()

	room, err := m.repos.Rooms.GetByID(ctx, s.RoomID)
	if err != nil {
		return nil, err
	}
	if room.HostPlayerID != playerID {
		return nil, domain.ErrNotHost
	}

	return m.startGameLocked(ctx, s, wordList)
}

func (m *Machine) startGameLocked(ctx context.Context, s *Session, wordList []string) (*domain.Game, error) {
	room, err := m.repos.Rooms.GetByID(ctx, s.RoomID)
	if err != nil {
		return nil, err
	}

	// At most one game per room: a finished predecessor is removed before the
	// replacement is created.
	if existing, err := m.repos.Games.GetByRoomID(ctx, room.ID); err == nil {
		if !existing.Finished() {
			return nil, domain.ErrGameInProgress
		}
		if err := m.clearGame(ctx, room.ID, existing.ID); err != nil {
			return nil, err
		}
		s.InvalidateCache()
	}

	pool := wordList
	if len(pool) == 0 {
		pool = m.wordPool
	}

	firstTeam := game.PickFirstTeam()
	board, err := game.GenerateBoard(pool, firstTeam)
	if err != nil {
		return nil, err
	}

	g := domain.NewGame(room.ID, firstTeam)

	cards := make([]domain.Card, 0, len(board))
	for _, bc := range board {
		cards = append(cards, domain.NewCard(g.ID, bc.Word, bc.Position, bc.Category))
	}

	if err := m.repos.Games.Create(ctx, g); err != nil {
		return nil, err
	}
	if err := m.repos.Cards.CreateMany(ctx, cards); err != nil {
		return nil, err
	}
	if err := m.repos.Rooms.UpdateStatus(ctx, room.ID, domain.RoomPlaying); err != nil {
		return nil, err
	}

	m.appendLog(ctx, domain.NewSystemLog(g.ID, fmt.Sprintf("Game started, %s team goes first", firstTeam)))

	s.Timer.OnGameStart()
	s.ClearMarkers()
	s.SetGameState(firstTeam, true)
	s.CacheGame(g)

	m.metrics.GamesStarted.Inc()
	m.publishGameEvent(ctx, contracts.EventGameStarted, s.Code, "", "")

	m.logger.Info(logging.Game, logging.Startup, "game started", map[logging.ExtraKey]any{
		logging.RoomCode: s.Code,
		"firstTeam":      string(firstTeam),
	})

	m.broadcaster.BroadcastEvent(s.Code, EventRoomStatusChanged, StatusChangedPayload{Status: domain.RoomPlaying})
	m.broadcaster.BroadcastEvent(s.Code, EventTimerSettings, s.Timer.Snapshot())
	m.fanOutState(ctx, s, g)

	return g, nil
}

// GiveClue validates and applies a clue from the current team's spymaster,
// opening the guessing phase.
func (m *Machine) GiveClue(ctx context.Context, s *Session, playerID, word string, count int) error {
	s.Lock()
	defer s.Unlock()

	g, err := m.loadGame(ctx, s)
	if err != nil {
		return err
	}

	member, err := m.repos.Memberships.Get(ctx, s.RoomID, playerID)
	if err != nil {
		return domain.ErrNotInRoom
	}

	switch {
	case g.Finished():
		return domain.ErrGameFinished
	case !member.OnTeam(g.CurrentTurn) || !member.IsSpymaster():
		return domain.ErrNotSpymaster
	case g.HasClue():
		return domain.ErrClueActive
	}

	if err := game.ValidateClue(word, count); err != nil {
		return err
	}

	g.ClueWord = strings.ToUpper(strings.TrimSpace(word))
	g.ClueCount = count
	g.GuessesRemaining = game.StartingGuesses(count)

	if err := m.repos.Games.Update(ctx, g); err != nil {
		return err
	}

	m.appendLog(ctx, domain.NewClueLog(g.ID, g.CurrentTurn, g.ClueWord, g.ClueCount))

	s.Timer.OnClueGiven(g.CurrentTurn)
	s.CacheGame(g)

	m.broadcaster.BroadcastEvent(s.Code, EventGameClueGiven, ClueGivenPayload{
		Team:             g.CurrentTurn,
		Word:             g.ClueWord,
		Count:            g.ClueCount,
		GuessesRemaining: g.GuessesRemaining,
	})
	m.fanOutState(ctx, s, g)

	return nil
}

// GuessCard reveals the card at a position on behalf of a current-team member
// and applies the resulting transition. Any member of the acting team may
// guess, the spymaster included.
func (m *Machine) GuessCard(ctx context.Context, s *Session, playerID string, position int) error {
	s.Lock()
	defer s.Unlock()

	g, err := m.loadGame(ctx, s)
	if err != nil {
		return err
	}

	member, err := m.repos.Memberships.Get(ctx, s.RoomID, playerID)
	if err != nil {
		return domain.ErrNotInRoom
	}

	if g.Finished() {
		return domain.ErrGameFinished
	}
	if !member.OnTeam(g.CurrentTurn) {
		return domain.ErrNotYourTurn
	}
	if err := game.CanGuess(g); err != nil {
		return err
	}

	card, err := m.repos.Cards.GetByPosition(ctx, g.ID, position)
	if err != nil {
		return err
	}
	if card.Revealed {
		return domain.ErrCardRevealed
	}

	acting := g.CurrentTurn
	next, outcome := game.ResolveGuess(*g, card.Category)

	// The game row persists before the card flip. A fault between the two
	// writes leaves an unrevealed card against an advanced game, never a
	// revealed card against a stale one.
	if err := m.repos.Games.Update(ctx, &next); err != nil {
		return err
	}
	if err := m.repos.Cards.Reveal(ctx, card.ID, playerID, time.Now()); err != nil {
		return err
	}

	nickname := m.nicknameFor(ctx, playerID)
	m.appendLog(ctx, domain.NewGuessLog(g.ID, acting, nickname, card.Word, card.Category))

	s.CacheGame(&next)

	m.broadcaster.BroadcastEvent(s.Code, EventGameCardRevealed, CardRevealedPayload{
		Position:         card.Position,
		Type:             card.Category,
		RevealedBy:       m.publicIDFor(ctx, playerID),
		GuessesRemaining: next.GuessesRemaining,
		Scores:           game.Scores{Red: next.RedRemaining, Blue: next.BlueRemaining},
	})

	switch o := outcome.(type) {
	case game.GuessContinues:
		m.metrics.GuessesTotal.WithLabelValues("correct").Inc()

	case game.TurnAdvanced:
		m.metrics.GuessesTotal.WithLabelValues(string(o.Reason)).Inc()
		m.advanceTurn(ctx, s, acting, o)

	case game.GameWon:
		m.metrics.GuessesTotal.WithLabelValues(string(o.Reason)).Inc()
		m.finishGame(ctx, s, &next, o)
	}

	m.fanOutState(ctx, s, &next)

	return nil
}

// EndTurn passes the turn to the other team regardless of remaining guesses.
func (m *Machine) EndTurn(ctx context.Context, s *Session, playerID string) error {
	s.Lock()
	defer s.Unlock()

	g, err := m.loadGame(ctx, s)
	if err != nil {
		return err
	}

	member, err := m.repos.Memberships.Get(ctx, s.RoomID, playerID)
	if err != nil {
		return domain.ErrNotInRoom
	}

	if g.Finished() {
		return domain.ErrGameFinished
	}
	if !member.OnTeam(g.CurrentTurn) {
		return domain.ErrNotYourTurn
	}

	acting := g.CurrentTurn
	next, adv := game.EndTurn(*g)

	if err := m.repos.Games.Update(ctx, &next); err != nil {
		return err
	}

	s.CacheGame(&next)
	m.advanceTurn(ctx, s, acting, adv)
	m.fanOutState(ctx, s, &next)

	return nil
}

// ResetGame is a host-only soft restart: the current game, log and transient
// state are discarded, every membership's team and role are cleared, and a
// brand-new game starts immediately on a freshly shuffled board.
func (m *Machine) ResetGame(ctx context.Context, s *Session, playerID string, wordList []string) (*domain.Game, error) {
	s.Lock()
	defer s.Unlock()

	room, err := m.repos.Rooms.GetByID(ctx, s.RoomID)
	if err != nil {
		return nil, err
	}
	if room.HostPlayerID != playerID {
		return nil, domain.ErrNotHost
	}

	g, err := m.repos.Games.GetByRoomID(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	// Carry the previous game's words forward when none are supplied.
	pool := wordList
	if len(pool) == 0 {
		cards, err := m.repos.Cards.ListByGame(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		for _, card := range cards {
			pool = append(pool, card.Word)
		}
	}

	if err := m.clearGame(ctx, room.ID, g.ID); err != nil {
		return nil, err
	}
	if err := m.repos.Memberships.ClearTeamsAndRoles(ctx, room.ID); err != nil {
		return nil, err
	}
	if err := m.repos.Rooms.UpdateStatus(ctx, room.ID, domain.RoomWaiting); err != nil {
		return nil, err
	}

	s.Timer = NewTurnTimer(s.Timer.Settings())
	s.ClearMarkers()
	s.InvalidateCache()
	s.SetGameState(domain.TeamNone, false)

	m.publishGameEvent(ctx, contracts.EventGameReset, s.Code, "", "")
	m.broadcaster.BroadcastEvent(s.Code, EventGameReset, struct{}{})

	return m.startGameLocked(ctx, s, pool)
}

// State returns the caller's masked projection of the current game, including
// the replayable log for reconnection catch-up.
func (m *Machine) State(ctx context.Context, s *Session, playerID string) (*game.GameView, error) {
	s.Lock()
	defer s.Unlock()

	g, err := m.loadGame(ctx, s)
	if err != nil {
		return nil, err
	}

	view, err := m.viewFor(ctx, s, g, playerID)
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// UpdateTimerSettings applies a host-only partial settings change. It affects
// future phase transitions only.
func (m *Machine) UpdateTimerSettings(ctx context.Context, s *Session, playerID string, update TimerSettingsUpdate) (*TimerSnapshot, error) {
	s.Lock()
	defer s.Unlock()

	room, err := m.repos.Rooms.GetByID(ctx, s.RoomID)
	if err != nil {
		return nil, err
	}
	if room.HostPlayerID != playerID {
		return nil, domain.ErrNotHost
	}

	s.Timer.UpdateSettings(update)
	snapshot := s.Timer.Snapshot()

	m.broadcaster.BroadcastEvent(s.Code, EventTimerSettings, snapshot)

	return &snapshot, nil
}

// ToggleTimerPause pauses or resumes a team's clock. Only members of that
// team may touch it.
func (m *Machine) ToggleTimerPause(ctx context.Context, s *Session, playerID string, team domain.Team) (*TimerSnapshot, error) {
	s.Lock()
	defer s.Unlock()

	if !domain.ValidTeam(team) {
		return nil, domain.ErrInvalidInput
	}

	member, err := m.repos.Memberships.Get(ctx, s.RoomID, playerID)
	if err != nil {
		return nil, domain.ErrNotInRoom
	}
	if !member.OnTeam(team) {
		return nil, domain.ErrWrongTeamTimer
	}

	s.Timer.TogglePause(team)
	snapshot := s.Timer.Snapshot()

	m.broadcaster.BroadcastEvent(s.Code, EventTimerSettings, snapshot)

	return &snapshot, nil
}

// MarkCard toggles the caller's personal marker on a position. Markers are
// broadcast-only hints between teammates; nothing is persisted and the
// authoritative state is untouched.
func (m *Machine) MarkCard(ctx context.Context, s *Session, playerID string, position int) (bool, error) {
	if position < 0 || position >= domain.BoardSize {
		return false, domain.ErrInvalidInput
	}

	s.Lock()
	defer s.Unlock()

	if _, err := m.repos.Memberships.Get(ctx, s.RoomID, playerID); err != nil {
		return false, domain.ErrNotInRoom
	}

	marked := s.ToggleMarker(playerID, position)

	m.broadcaster.BroadcastEvent(s.Code, EventCardMarked, CardMarkedPayload{
		PlayerID: m.publicIDFor(ctx, playerID),
		Position: position,
		Marked:   marked,
	})

	return marked, nil
}

// BroadcastState re-sends every connected viewer their masked projection.
// The coordinator calls this after membership changes, since a team or role
// change alters what that viewer may see mid-game.
func (m *Machine) BroadcastState(ctx context.Context, s *Session) {
	s.Lock()
	defer s.Unlock()

	g, err := m.loadGame(ctx, s)
	if err != nil {
		return
	}

	m.fanOutState(ctx, s, g)
}

func (m *Machine) advanceTurn(ctx context.Context, s *Session, previous domain.Team, adv game.TurnAdvanced) {
	s.Timer.OnTurnAdvanced(previous, adv.NextTurn)
	s.SetGameState(adv.NextTurn, true)

	if g := s.CachedGame(); g != nil {
		m.appendLog(ctx, domain.NewTurnLog(g.ID, adv.NextTurn))
	}

	m.broadcaster.BroadcastEvent(s.Code, EventGameTurnChanged, TurnChangedPayload{
		CurrentTurn: adv.NextTurn,
		Reason:      adv.Reason,
	})
}

func (m *Machine) finishGame(ctx context.Context, s *Session, g *domain.Game, won game.GameWon) {
	if err := m.repos.Rooms.UpdateStatus(ctx, s.RoomID, domain.RoomFinished); err != nil {
		m.logger.Error(logging.Game, logging.Persistence, "failed to flip room to finished", map[logging.ExtraKey]any{
			logging.RoomCode:     s.Code,
			logging.ErrorMessage: err.Error(),
		})
	}

	s.SetGameState(g.CurrentTurn, false)

	m.appendLog(ctx, domain.NewSystemLog(g.ID, fmt.Sprintf("The %s team wins", won.By)))

	m.metrics.GamesFinished.WithLabelValues(string(won.Reason)).Inc()
	m.publishGameEvent(ctx, contracts.EventGameFinished, s.Code, string(won.By), string(won.Reason))

	m.logger.Info(logging.Game, logging.Lifecycle, "game finished", map[logging.ExtraKey]any{
		logging.RoomCode: s.Code,
		"winner":         string(won.By),
		"reason":         string(won.Reason),
	})

	m.broadcaster.BroadcastEvent(s.Code, EventRoomStatusChanged, StatusChangedPayload{Status: domain.RoomFinished})
	m.broadcaster.BroadcastEvent(s.Code, EventGameEnded, GameEndedPayload{
		Winner: won.By,
		Reason: won.Reason,
	})
}

// clearGame removes a game together with its cards and log.
func (m *Machine) clearGame(ctx context.Context, roomID, gameID string) error {
	if err := m.repos.Logs.DeleteByGame(ctx, gameID); err != nil {
		return err
	}
	if err := m.repos.Cards.DeleteByGame(ctx, gameID); err != nil {
		return err
	}
	return m.repos.Games.DeleteByRoomID(ctx, roomID)
}

// loadGame reads the room's game through the session's short-lived cache.
func (m *Machine) loadGame(ctx context.Context, s *Session) (*domain.Game, error) {
	if g := s.CachedGame(); g != nil {
		return g, nil
	}

	g, err := m.repos.Games.GetByRoomID(ctx, s.RoomID)
	if err != nil {
		return nil, err
	}

	s.CacheGame(g)
	return g, nil
}

// fanOutState sends each connected viewer their own masked view. Callers hold
// the session lock.
func (m *Machine) fanOutState(ctx context.Context, s *Session, g *domain.Game) {
	for _, viewerID := range m.broadcaster.Viewers(s.Code) {
		view, err := m.viewFor(ctx, s, g, viewerID)
		if err != nil {
			m.logger.Warn(logging.Game, logging.Broadcast, "failed to build state view", map[logging.ExtraKey]any{
				logging.RoomCode:     s.Code,
				logging.PlayerId:     viewerID,
				logging.ErrorMessage: err.Error(),
			})
			continue
		}

		m.broadcaster.SendEvent(s.Code, viewerID, EventGameState, view)
	}
}

func (m *Machine) viewFor(ctx context.Context, s *Session, g *domain.Game, playerID string) (game.GameView, error) {
	cards, err := m.repos.Cards.ListByGame(ctx, g.ID)
	if err != nil {
		return game.GameView{}, err
	}

	members, err := m.repos.Memberships.ListByRoom(ctx, s.RoomID)
	if err != nil {
		return game.GameView{}, err
	}

	log, err := m.repos.Logs.ListByGame(ctx, g.ID)
	if err != nil {
		return game.GameView{}, err
	}

	summaries := m.playerSummaries(ctx, members)

	var viewer *domain.Membership
	for i := range members {
		if members[i].PlayerID == playerID {
			viewer = &members[i]
			break
		}
	}

	return game.ViewFor(g, cards, summaries, log, viewer), nil
}

func (m *Machine) playerSummaries(ctx context.Context, members []domain.Membership) []game.PlayerSummary {
	summaries := make([]game.PlayerSummary, 0, len(members))
	for _, member := range members {
		player, err := m.repos.Players.GetByID(ctx, member.PlayerID)
		if err != nil {
			continue
		}

		summaries = append(summaries, game.PlayerSummary{
			ID:       player.PublicID,
			Nickname: player.Nickname,
			Team:     member.Team,
			Role:     member.Role,
		})
	}

	return summaries
}

func (m *Machine) appendLog(ctx context.Context, entry *domain.GameLogEntry) {
	if err := m.repos.Logs.Append(ctx, entry); err != nil {
		m.logger.Error(logging.Game, logging.Persistence, "failed to append game log", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (m *Machine) publishGameEvent(ctx context.Context, eventType, roomCode, winner, reason string) {
	if err := m.publisher.PublishGameEvent(ctx, eventType, roomCode, winner, reason); err != nil {
		m.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to publish game event", map[logging.ExtraKey]any{
			logging.RoomCode:     roomCode,
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (m *Machine) nicknameFor(ctx context.Context, playerID string) string {
	player, err := m.repos.Players.GetByID(ctx, playerID)
	if err != nil {
		return "someone"
	}
	return player.Nickname
}

func (m *Machine) publicIDFor(ctx context.Context, playerID string) string {
	player, err := m.repos.Players.GetByID(ctx, playerID)
	if err != nil {
		return ""
	}
	return player.PublicID
}
