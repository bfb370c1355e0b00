package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/2exd/suit-streak-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Identity tests

func (s *StorageSuite) TestSaveAndGetIdentity() {
	identity := &model.Identity{
		UserID:    "user-1",
		Username:  "Alice",
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveIdentity(s.ctx, identity)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetIdentity(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(identity.UserID, retrieved.UserID)
	s.Equal(identity.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetIdentityNotFound() {
	_, err := s.storage.GetIdentity(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestDeleteIdentity() {
	identity := &model.Identity{UserID: "user-1", Username: "Alice"}
	_ = s.storage.SaveIdentity(s.ctx, identity)

	err := s.storage.DeleteIdentity(s.ctx, "user-1")
	s.Require().NoError(err)

	_, err = s.storage.GetIdentity(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Room tests

func (s *StorageSuite) testRoom(id model.RoomID) *model.Room {
	playerID := model.DerivePlayerID("user-1", id)
	return &model.Room{
		ID:     id,
		Name:   "Test Room",
		HostID: playerID,
		Players: []model.Player{
			{ID: playerID, UserID: "user-1", Username: "Alice", Ready: model.ReadyStatusPreparing},
		},
		MaxPlayers: model.MaxPlayers,
		Status:     model.RoomStatusWaiting,
	}
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.testRoom("RM0001")

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "RM0001")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Len(retrieved.Players, 1)
	s.Equal(room.HostID, retrieved.HostID)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "RM9999")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "RM0001")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoom(s.ctx, s.testRoom("RM0001"))

	exists, err = s.storage.RoomExists(s.ctx, "RM0001")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, s.testRoom("RM0001"))

	err := s.storage.DeleteRoom(s.ctx, "RM0001")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "RM0001")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRooms() {
	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)

	_ = s.storage.SaveRoom(s.ctx, s.testRoom("RM0001"))
	_ = s.storage.SaveRoom(s.ctx, s.testRoom("RM0002"))

	rooms, err = s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}

// Room session tests

func (s *StorageSuite) TestSaveAndGetRoomSession() {
	session := &model.RoomSession{
		UserID:   "user-1",
		RoomID:   "RM0001",
		PlayerID: model.DerivePlayerID("user-1", "RM0001"),
	}

	err := s.storage.SaveRoomSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoomSession(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(session.RoomID, retrieved.RoomID)
	s.Equal(session.PlayerID, retrieved.PlayerID)
}

func (s *StorageSuite) TestGetRoomSessionNotFound() {
	_, err := s.storage.GetRoomSession(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteRoomSession() {
	session := &model.RoomSession{UserID: "user-1", RoomID: "RM0001"}
	_ = s.storage.SaveRoomSession(s.ctx, session)

	err := s.storage.DeleteRoomSession(s.ctx, "user-1")
	s.Require().NoError(err)

	_, err = s.storage.GetRoomSession(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteRoomSessionIsIdempotent() {
	err := s.storage.DeleteRoomSession(s.ctx, "user-1")
	s.Require().NoError(err)
}
