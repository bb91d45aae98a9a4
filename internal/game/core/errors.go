package core

import "errors"

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidBoard  = errors.New("invalid board geometry")
	ErrBoardFull     = errors.New("no free cell left on board")
	ErrOutOfBounds   = errors.New("position out of bounds")
	ErrSessionClosed = errors.New("session closed")
)
