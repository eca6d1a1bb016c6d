package room

import "errors"

var (
	ErrDuplicateRoom = errors.New("room already exists")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room full")
	ErrNotInRoom     = errors.New("client not in room")
	ErrAlreadySeated = errors.New("connection already seated under another name")
)
