package session

import "github.com/wordspy/wordspy/internal/domain"

// TimerSettings are the per-room countdown durations, in seconds. The first
// round of each phase gets FirstRoundBonus extra seconds.
type TimerSettings struct {
	Enabled          bool `json:"enabled"`
	SpymasterSeconds int  `json:"spymasterSeconds"`
	OperativeSeconds int  `json:"operativeSeconds"`
	FirstRoundBonus  int  `json:"firstRoundBonus"`
}

// TimerSettingsUpdate is a partial settings change; nil fields are left as-is.
// Updates apply to future phase transitions, never to a running countdown.
type TimerSettingsUpdate struct {
	Enabled          *bool `json:"enabled,omitempty"`
	SpymasterSeconds *int  `json:"spymasterSeconds,omitempty"`
	OperativeSeconds *int  `json:"operativeSeconds,omitempty"`
	FirstRoundBonus  *int  `json:"firstRoundBonus,omitempty"`
}

type teamClock struct {
	remaining  int
	paused     bool
	firstRound bool
}

// TurnTimer holds both teams' countdown clocks. It is not self-locking; the
// owning Session's mutex guards all access.
type TurnTimer struct {
	settings TimerSettings
	clocks   map[domain.Team]*teamClock
}

func NewTurnTimer(settings TimerSettings) *TurnTimer {
	return &TurnTimer{
		settings: settings,
		clocks: map[domain.Team]*teamClock{
			domain.TeamRed:  {},
			domain.TeamBlue: {},
		},
	}
}

func (t *TurnTimer) Settings() TimerSettings {
	return t.settings
}

func (t *TurnTimer) Enabled() bool {
	return t.settings.Enabled
}

// OnGameStart arms both clocks with the spymaster duration plus the bonus,
// paused, with their first rounds ahead of them.
func (t *TurnTimer) OnGameStart() {
	for _, clock := range t.clocks {
		clock.remaining = t.settings.SpymasterSeconds + t.settings.FirstRoundBonus
		clock.paused = true
		clock.firstRound = true
	}
}

// OnClueGiven switches the acting team's clock to the operative phase and
// starts it running.
func (t *TurnTimer) OnClueGiven(team domain.Team) {
	clock := t.clocks[team]
	if clock == nil {
		return
	}

	clock.remaining = t.settings.OperativeSeconds
	if clock.firstRound {
		clock.remaining += t.settings.FirstRoundBonus
	}
	clock.paused = false
}

// OnTurnAdvanced clears the finished team's first-round flag and arms the next
// team's spymaster countdown.
func (t *TurnTimer) OnTurnAdvanced(previous, next domain.Team) {
	if clock := t.clocks[previous]; clock != nil {
		clock.firstRound = false
	}

	clock := t.clocks[next]
	if clock == nil {
		return
	}

	clock.remaining = t.settings.SpymasterSeconds
	if clock.firstRound {
		clock.remaining += t.settings.FirstRoundBonus
	}
	clock.paused = false
}

func (t *TurnTimer) TogglePause(team domain.Team) bool {
	clock := t.clocks[team]
	if clock == nil {
		return false
	}

	clock.paused = !clock.paused
	return clock.paused
}

func (t *TurnTimer) UpdateSettings(update TimerSettingsUpdate) TimerSettings {
	if update.Enabled != nil {
		t.settings.Enabled = *update.Enabled
	}
	if update.SpymasterSeconds != nil {
		t.settings.SpymasterSeconds = *update.SpymasterSeconds
	}
	if update.OperativeSeconds != nil {
		t.settings.OperativeSeconds = *update.OperativeSeconds
	}
	if update.FirstRoundBonus != nil {
		t.settings.FirstRoundBonus = *update.FirstRoundBonus
	}

	return t.settings
}

// Tick decrements the team's clock by one second and reports the new value.
// The clock is allowed to go negative; overtime is a display signal, not an
// enforced deadline. Returns false if the clock is paused.
func (t *TurnTimer) Tick(team domain.Team) (int, bool) {
	clock := t.clocks[team]
	if clock == nil || clock.paused {
		return 0, false
	}

	clock.remaining--
	return clock.remaining, true
}

// TeamClockSnapshot is the wire form of one team's clock.
type TeamClockSnapshot struct {
	SecondsRemaining int  `json:"secondsRemaining"`
	Paused           bool `json:"paused"`
	FirstRound       bool `json:"firstRound"`
}

type TimerSnapshot struct {
	Settings TimerSettings     `json:"settings"`
	Red      TeamClockSnapshot `json:"red"`
	Blue     TeamClockSnapshot `json:"blue"`
}

func (t *TurnTimer) Snapshot() TimerSnapshot {
	snap := func(team domain.Team) TeamClockSnapshot {
		clock := t.clocks[team]
		return TeamClockSnapshot{
			SecondsRemaining: clock.remaining,
			Paused:           clock.paused,
			FirstRound:       clock.firstRound,
		}
	}

	return TimerSnapshot{
		Settings: t.settings,
		Red:      snap(domain.TeamRed),
		Blue:     snap(domain.TeamBlue),
	}
}
