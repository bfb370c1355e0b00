package redis

import (
	"fmt"

	"github.com/2exd/suit-streak-server/internal/model"
)

// Key prefix for all lobby data
const keyPrefix = "suit-streak"

// identityKey returns the Redis key for a user Identity
func identityKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// sessionKey returns the Redis key for a user's RoomSession
func sessionKey(userID model.UserID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, userID)
}

// roomIndexKey returns the Redis key for the SET of live room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
