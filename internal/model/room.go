package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RoomID is a short opaque code identifying a live room.
type RoomID string

// RoomStatus represents the current state of a room.
// It only ever moves waiting -> playing within a room's life.
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // Accepting players
	RoomStatusPlaying RoomStatus = "playing" // Game has started
)

// ReadyStatus is a player's readiness flag.
type ReadyStatus string

const (
	ReadyStatusPreparing ReadyStatus = "preparing"
	ReadyStatusReady     ReadyStatus = "ready"
)

// MaxPlayers is the fixed room capacity.
const MaxPlayers = 4

// PlayerID identifies a player within a room.
type PlayerID string

// DerivePlayerID returns the stable player id for a user in a room.
// The same user always maps to the same player id within a given room,
// so leaving and rejoining resolves to the same membership record.
func DerivePlayerID(userID UserID, roomID RoomID) PlayerID {
	sum := sha256.Sum256([]byte(string(userID) + ":" + string(roomID)))
	return PlayerID("p_" + hex.EncodeToString(sum[:8]))
}

// Player represents a user's membership in a room.
type Player struct {
	ID       PlayerID    `json:"id"`
	UserID   UserID      `json:"userId"`
	Username string      `json:"username"` // copied from the identity at join time
	Ready    ReadyStatus `json:"ready"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// Room is a group of players waiting to start a game together.
type Room struct {
	ID         RoomID     `json:"id"`
	Name       string     `json:"name"`
	HostID     PlayerID   `json:"hostId"`
	Players    []Player   `json:"players"` // join order
	MaxPlayers int        `json:"maxPlayers"`
	Status     RoomStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// GetPlayer returns the player with the given id, or nil if not a member.
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// GetHost returns the current host player, or nil if the room is empty.
func (r *Room) GetHost() *Player {
	return r.GetPlayer(r.HostID)
}

// HasUser reports whether the given user is a member of the room.
func (r *Room) HasUser(userID UserID) bool {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// AllReady reports whether every present player is ready.
// An empty room is never ready.
func (r *Room) AllReady() bool {
	if len(r.Players) == 0 {
		return false
	}
	for i := range r.Players {
		if r.Players[i].Ready != ReadyStatusReady {
			return false
		}
	}
	return true
}

// Joinable reports whether the room can accept another player.
func (r *Room) Joinable() bool {
	return r.Status == RoomStatusWaiting && !r.IsFull()
}
