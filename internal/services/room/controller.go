package room

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/2exd/suit-streak-server/internal/dependencies/clock"
	"github.com/2exd/suit-streak-server/internal/dependencies/random"
	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/services/identity"
	"github.com/2exd/suit-streak-server/internal/storage"
)

const (
	// RoomCodePrefix prefixes every generated room code
	RoomCodePrefix = "RM"
	// RoomCodeDigits is the number of digits after the prefix
	RoomCodeDigits = 4
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "0123456789"
)

// Controller manages room lifecycle and member operations
type Controller struct {
	storage  storage.Storage
	identity *identity.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	identityService *identity.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		identity: identityService,
		clock:    clock,
		random:   random,
		logger:   logger,
	}
}

// requireLogin resolves the identity and rejects users without a username.
func (c *Controller) requireLogin(ctx context.Context, userID model.UserID) (*model.Identity, error) {
	ident, err := c.identity.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrNotAuthenticated
		}
		return nil, err
	}
	if !ident.IsLoggedIn() {
		return nil, model.ErrNotAuthenticated
	}
	return ident, nil
}

// session returns the user's room session, or nil when the user is not
// in a room. A session pointing at a room that no longer exists is
// cleared and treated as absent.
func (c *Controller) session(ctx context.Context, userID model.UserID) (*model.RoomSession, error) {
	session, err := c.storage.GetRoomSession(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	exists, err := c.storage.RoomExists(ctx, session.RoomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := c.storage.DeleteRoomSession(ctx, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return session, nil
}

// CreateRoom creates a new waiting room with the user as host.
// An empty name defaults to one derived from the room code.
func (c *Controller) CreateRoom(ctx context.Context, userID model.UserID, name string) (*model.Room, error) {
	ident, err := c.requireLogin(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := c.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return nil, model.ErrAlreadyInRoom
	}

	now := c.clock.Now()

	// Generate unique room code
	var roomID model.RoomID
	for {
		roomID = model.RoomID(RoomCodePrefix + c.random.String(RoomCodeDigits, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	if name == "" {
		name = "Room " + string(roomID)
	}

	hostID := model.DerivePlayerID(userID, roomID)
	room := &model.Room{
		ID:     roomID,
		Name:   name,
		HostID: hostID,
		Players: []model.Player{
			{
				ID:       hostID,
				UserID:   userID,
				Username: ident.Username,
				Ready:    model.ReadyStatusPreparing,
				JoinedAt: now,
			},
		},
		MaxPlayers: model.MaxPlayers,
		Status:     model.RoomStatusWaiting,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	if err := c.storage.SaveRoomSession(ctx, &model.RoomSession{
		UserID:   userID,
		RoomID:   roomID,
		PlayerID: hostID,
	}); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(roomID)),
		slog.String("user_id", string(userID)),
	)

	return room, nil
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, roomID)
}

// JoinRoom adds the user to a room as a non-host member.
func (c *Controller) JoinRoom(ctx context.Context, userID model.UserID, roomID model.RoomID) (*model.Room, error) {
	ident, err := c.requireLogin(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := c.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return nil, model.ErrAlreadyInRoom
	}

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.IsFull() {
		return nil, model.ErrRoomFull
	}
	if room.HasUser(userID) {
		return nil, model.ErrAlreadyInRoom
	}
	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrRoomInProgress
	}

	playerID := model.DerivePlayerID(userID, roomID)
	room.Players = append(room.Players, model.Player{
		ID:       playerID,
		UserID:   userID,
		Username: ident.Username,
		Ready:    model.ReadyStatusPreparing,
		JoinedAt: c.clock.Now(),
	})
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	if err := c.storage.SaveRoomSession(ctx, &model.RoomSession{
		UserID:   userID,
		RoomID:   roomID,
		PlayerID: playerID,
	}); err != nil {
		return nil, err
	}

	c.logger.Info("player joined room",
		slog.String("room_id", string(roomID)),
		slog.String("user_id", string(userID)),
	)

	return room, nil
}

// LeaveRoom removes the user from their current room. Leaving while not
// in a room is a no-op. An empty room is deleted; if the host leaves a
// non-empty room the longest-standing remaining player becomes host.
func (c *Controller) LeaveRoom(ctx context.Context, userID model.UserID) error {
	session, err := c.session(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	room, err := c.storage.GetRoom(ctx, session.RoomID)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return c.storage.DeleteRoomSession(ctx, userID)
		}
		return err
	}

	wasHost := room.HostID == session.PlayerID

	for i := range room.Players {
		if room.Players[i].ID == session.PlayerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, room.ID); err != nil {
			return err
		}
		c.logger.Info("room deleted", slog.String("room_id", string(room.ID)))
		return c.storage.DeleteRoomSession(ctx, userID)
	}

	if wasHost {
		room.HostID = room.Players[0].ID
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.logger.Info("player left room",
		slog.String("room_id", string(room.ID)),
		slog.String("user_id", string(userID)),
	)

	return c.storage.DeleteRoomSession(ctx, userID)
}

// ToggleReady flips the user's readiness flag in their current room.
// Toggling while not in a room is a no-op returning no room.
func (c *Controller) ToggleReady(ctx context.Context, userID model.UserID) (*model.Room, error) {
	session, err := c.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	room, err := c.storage.GetRoom(ctx, session.RoomID)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayer(session.PlayerID)
	if player == nil {
		return nil, nil
	}

	if player.Ready == model.ReadyStatusReady {
		player.Ready = model.ReadyStatusPreparing
	} else {
		player.Ready = model.ReadyStatusReady
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// StartGame moves the user's room from waiting to playing. Only the
// host may start, and only when the room is full and everyone is ready.
func (c *Controller) StartGame(ctx context.Context, userID model.UserID) (*model.Room, error) {
	session, err := c.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrNotInRoom
	}

	room, err := c.storage.GetRoom(ctx, session.RoomID)
	if err != nil {
		return nil, err
	}

	if room.HostID != session.PlayerID {
		return nil, model.ErrNotHost
	}
	if room.Status == model.RoomStatusPlaying {
		return nil, model.ErrRoomInProgress
	}
	if !room.IsFull() || !room.AllReady() {
		return nil, model.ErrNotAllReady
	}

	room.Status = model.RoomStatusPlaying
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("room_id", string(room.ID)),
		slog.String("user_id", string(userID)),
	)

	return room, nil
}

// AvailableRooms lists rooms that are waiting and not full, oldest first.
func (c *Controller) AvailableRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Joinable() {
			available = append(available, room)
		}
	}

	sort.Slice(available, func(i, j int) bool {
		if !available[i].CreatedAt.Equal(available[j].CreatedAt) {
			return available[i].CreatedAt.Before(available[j].CreatedAt)
		}
		return available[i].ID < available[j].ID
	})

	return available, nil
}

// CurrentRoom returns the room the user is in, or ErrNotInRoom.
func (c *Controller) CurrentRoom(ctx context.Context, userID model.UserID) (*model.Room, error) {
	session, err := c.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrNotInRoom
	}
	return c.storage.GetRoom(ctx, session.RoomID)
}

// IsAllReady reports whether everyone in the user's room is ready.
// Outside a room it is false.
func (c *Controller) IsAllReady(ctx context.Context, userID model.UserID) (bool, error) {
	room, err := c.CurrentRoom(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			return false, nil
		}
		return false, err
	}
	return room.AllReady(), nil
}

// AmIHost reports whether the user hosts their current room.
// Outside a room it is false.
func (c *Controller) AmIHost(ctx context.Context, userID model.UserID) (bool, error) {
	session, err := c.session(ctx, userID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}
	room, err := c.storage.GetRoom(ctx, session.RoomID)
	if err != nil {
		return false, err
	}
	return room.HostID == session.PlayerID, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, userID model.UserID, name string) (*model.Room, error)
	GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error)
	JoinRoom(ctx context.Context, userID model.UserID, roomID model.RoomID) (*model.Room, error)
	LeaveRoom(ctx context.Context, userID model.UserID) error
	ToggleReady(ctx context.Context, userID model.UserID) (*model.Room, error)
	StartGame(ctx context.Context, userID model.UserID) (*model.Room, error)
	AvailableRooms(ctx context.Context) ([]*model.Room, error)
	CurrentRoom(ctx context.Context, userID model.UserID) (*model.Room, error)
	IsAllReady(ctx context.Context, userID model.UserID) (bool, error)
	AmIHost(ctx context.Context, userID model.UserID) (bool, error)
}

var _ ControllerInterface = (*Controller)(nil)
