package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordspy/wordspy/internal/domain"
)

func testTimerSettings() TimerSettings {
	return TimerSettings{
		Enabled:          true,
		SpymasterSeconds: 90,
		OperativeSeconds: 60,
		FirstRoundBonus:  30,
	}
}

func TestTurnTimerPhases(t *testing.T) {
	t.Parallel()

	t.Run("game start arms both clocks paused with bonus", func(t *testing.T) {
		t.Parallel()
		timer := NewTurnTimer(testTimerSettings())
		timer.OnGameStart()

		snap := timer.Snapshot()
		assert.Equal(t, 120, snap.Red.SecondsRemaining)
		assert.Equal(t, 120, snap.Blue.SecondsRemaining)
		assert.True(t, snap.Red.Paused)
		assert.True(t, snap.Blue.Paused)
		assert.True(t, snap.Red.FirstRound)
	})

	t.Run("clue starts the operative countdown with first-round bonus", func(t *testing.T) {
		t.Parallel()
		timer := NewTurnTimer(testTimerSettings())
		timer.OnGameStart()
		timer.OnClueGiven(domain.TeamRed)

		snap := timer.Snapshot()
		assert.Equal(t, 90, snap.Red.SecondsRemaining)
		assert.False(t, snap.Red.Paused)
		assert.True(t, snap.Blue.Paused)
	})

	t.Run("turn advance ends the first round and arms the next spymaster", func(t *testing.T) {
		t.Parallel()
		timer := NewTurnTimer(testTimerSettings())
		timer.OnGameStart()
		timer.OnClueGiven(domain.TeamRed)
		timer.OnTurnAdvanced(domain.TeamRed, domain.TeamBlue)

		snap := timer.Snapshot()
		assert.False(t, snap.Red.FirstRound)
		// blue has not played yet, so its spymaster phase keeps the bonus
		assert.Equal(t, 120, snap.Blue.SecondsRemaining)
		assert.False(t, snap.Blue.Paused)

		timer.OnClueGiven(domain.TeamBlue)
		timer.OnTurnAdvanced(domain.TeamBlue, domain.TeamRed)

		snap = timer.Snapshot()
		// both first rounds are spent now
		assert.Equal(t, 90, snap.Red.SecondsRemaining)
	})
}

func TestTurnTimerTick(t *testing.T) {
	t.Parallel()

	timer := NewTurnTimer(testTimerSettings())
	timer.OnGameStart()

	// paused clocks do not tick
	_, ticked := timer.Tick(domain.TeamRed)
	assert.False(t, ticked)

	timer.OnClueGiven(domain.TeamRed)

	remaining, ticked := timer.Tick(domain.TeamRed)
	require.True(t, ticked)
	assert.Equal(t, 89, remaining)

	// the clock may run negative; overtime is reported, not enforced
	for i := 0; i < 100; i++ {
		remaining, _ = timer.Tick(domain.TeamRed)
	}
	assert.Less(t, remaining, 0)
}

func TestTurnTimerTogglePause(t *testing.T) {
	t.Parallel()

	timer := NewTurnTimer(testTimerSettings())
	timer.OnGameStart()
	timer.OnClueGiven(domain.TeamRed)

	paused := timer.TogglePause(domain.TeamRed)
	assert.True(t, paused)

	_, ticked := timer.Tick(domain.TeamRed)
	assert.False(t, ticked)

	paused = timer.TogglePause(domain.TeamRed)
	assert.False(t, paused)

	_, ticked = timer.Tick(domain.TeamRed)
	assert.True(t, ticked)

	assert.False(t, timer.TogglePause(domain.TeamNone))
}

func TestTurnTimerUpdateSettings(t *testing.T) {
	t.Parallel()

	timer := NewTurnTimer(testTimerSettings())
	timer.OnGameStart()
	timer.OnClueGiven(domain.TeamRed)

	before := timer.Snapshot().Red.SecondsRemaining

	spymaster := 45
	enabled := false
	settings := timer.UpdateSettings(TimerSettingsUpdate{
		SpymasterSeconds: &spymaster,
		Enabled:          &enabled,
	})

	assert.Equal(t, 45, settings.SpymasterSeconds)
	assert.False(t, settings.Enabled)
	// untouched fields keep their values
	assert.Equal(t, 60, settings.OperativeSeconds)
	// a settings change never rewrites a running countdown
	assert.Equal(t, before, timer.Snapshot().Red.SecondsRemaining)

	timer.OnTurnAdvanced(domain.TeamRed, domain.TeamBlue)
	assert.Equal(t, 45+30, timer.Snapshot().Blue.SecondsRemaining)
}
