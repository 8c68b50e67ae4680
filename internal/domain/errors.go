package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNotInRoom         = errors.New("not in a room")
	ErrNotHost           = errors.New("only the host can do that")

	ErrGameNotFound   = errors.New("game not found")
	ErrGameInProgress = errors.New("game already in progress")
	ErrGameFinished   = errors.New("game is already over")
	ErrNotYourTurn    = errors.New("not your team's turn")
	ErrNotSpymaster   = errors.New("only the current team's spymaster can give clues")
	ErrClueActive     = errors.New("a clue has already been given this turn")
	ErrNoActiveClue   = errors.New("wait for the spymaster to give a clue")
	ErrNoGuessesLeft  = errors.New("no guesses remaining")
	ErrCardNotFound   = errors.New("card not found")
	ErrCardRevealed   = errors.New("card already revealed")
	ErrNoTeam         = errors.New("must join a team first")
	ErrNotEnoughWords = errors.New("need at least 25 words to start a game")
	ErrTooFewMembers  = errors.New("not enough members to randomize teams")
	ErrCannotKickSelf = errors.New("you cannot kick yourself")
	ErrWrongTeamTimer = errors.New("only that team can pause its own timer")
)
