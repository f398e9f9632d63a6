package internal

import "errors"

// Protocol error kinds. All non-fatal: they are reported to the single
// offending connection and never affect other rooms.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNameConflict       = errors.New("name already taken")
	ErrUnauthorized       = errors.New("action requires host")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidState       = errors.New("invalid state for action")
)
