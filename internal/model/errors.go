package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrNotAuthenticated = errors.New("user is not logged in")
	ErrInvalidUsername  = errors.New("username must be 2-10 characters")
	ErrUserNotFound     = errors.New("user not found")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("user is already in a room")
	ErrRoomInProgress = errors.New("room is already playing")
	ErrNotHost        = errors.New("user is not the room host")
	ErrNotAllReady    = errors.New("not all players are ready")
	ErrNotInRoom      = errors.New("user is not in a room")

	// Session errors
	ErrSessionNotFound = errors.New("room session not found")
)
