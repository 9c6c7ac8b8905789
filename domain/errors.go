package domain

import "errors"

var (
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrPlayerNotFound = errors.New("player-not-found")
)

var (
	ErrUsernameTaken  = errors.New("username-taken")
	ErrSpymasterTaken = errors.New("spymaster-already-exists")
	ErrGameInProgress = errors.New("game-already-started")
)

var (
	ErrInvalidUsername  = errors.New("invalid-username")
	ErrInvalidClue      = errors.New("invalid-clue")
	ErrInvalidCardIndex = errors.New("invalid-card-index")
	ErrNotEnoughWords   = errors.New("not-enough-words")
	ErrUnknownWordPack  = errors.New("unknown-word-pack")
)

var (
	ErrRoomNotReady   = errors.New("room-not-ready")
	ErrGameNotStarted = errors.New("game-not-started")
	ErrGameOver       = errors.New("game-over")
	ErrWrongPhase     = errors.New("wrong-phase")
	ErrWrongTurn      = errors.New("not-your-turn")
	ErrWrongRole      = errors.New("wrong-role")
	ErrCardRevealed   = errors.New("card-already-revealed")
)

var UnexpectedDatabaseError = errors.New("database-error")

// Kind buckets the sentinel errors above so transport code can map them to
// status codes without matching each one.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindIllegalState
)

func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrPlayerNotFound):
		return KindNotFound
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrSpymasterTaken),
		errors.Is(err, ErrGameInProgress):
		return KindConflict
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidClue),
		errors.Is(err, ErrInvalidCardIndex), errors.Is(err, ErrNotEnoughWords),
		errors.Is(err, ErrUnknownWordPack):
		return KindInvalidArgument
	case errors.Is(err, ErrRoomNotReady), errors.Is(err, ErrGameNotStarted),
		errors.Is(err, ErrGameOver), errors.Is(err, ErrWrongPhase),
		errors.Is(err, ErrWrongTurn), errors.Is(err, ErrWrongRole),
		errors.Is(err, ErrCardRevealed):
		return KindIllegalState
	}
	return KindUnknown
}
