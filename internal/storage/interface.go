package storage

import (
	"context"

	"github.com/2exd/suit-streak-server/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Identity operations
	SaveIdentity(ctx context.Context, identity *model.Identity) error
	GetIdentity(ctx context.Context, id model.UserID) (*model.Identity, error)
	DeleteIdentity(ctx context.Context, id model.UserID) error

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Room session operations (one per user, absent when not in a room)
	SaveRoomSession(ctx context.Context, session *model.RoomSession) error
	GetRoomSession(ctx context.Context, userID model.UserID) (*model.RoomSession, error)
	DeleteRoomSession(ctx context.Context, userID model.UserID) error
}
