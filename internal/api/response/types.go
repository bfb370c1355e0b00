package response

import (
	"time"

	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/services/identity"
)

// User represents an identity in API responses
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	LoggedIn  bool      `json:"logged_in"`
	LastLogin time.Time `json:"last_login"`
}

// UserFromModel converts a model.Identity to a response User
func UserFromModel(i *model.Identity) User {
	return User{
		ID:        string(i.UserID),
		Username:  i.Username,
		Avatar:    i.Avatar,
		LoggedIn:  i.IsLoggedIn(),
		LastLogin: i.LastLogin,
	}
}

// AuthResponse is the response for the user creation endpoint
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *identity.Session, i *model.Identity) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(i),
		SessionToken: s.Token,
	}
}

// RoomPlayer represents a room member
type RoomPlayer struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Ready    string `json:"ready"`
	IsHost   bool   `json:"is_host"`
}

// Room represents a room in API responses
type Room struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Status     string       `json:"status"`
	Players    []RoomPlayer `json:"players"`
	MaxPlayers int          `json:"max_players"`
	AllReady   bool         `json:"all_ready"`
	CreatedAt  time.Time    `json:"created_at"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	players := make([]RoomPlayer, len(r.Players))
	for i := range r.Players {
		p := &r.Players[i]
		players[i] = RoomPlayer{
			ID:       string(p.ID),
			UserID:   string(p.UserID),
			Username: p.Username,
			Ready:    string(p.Ready),
			IsHost:   p.ID == r.HostID,
		}
	}

	return Room{
		ID:         string(r.ID),
		Name:       r.Name,
		Status:     string(r.Status),
		Players:    players,
		MaxPlayers: r.MaxPlayers,
		AllReady:   r.AllReady(),
		CreatedAt:  r.CreatedAt,
	}
}

// RoomList is the response for listing available rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a slice of rooms
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := RoomList{Rooms: make([]Room, len(rooms))}
	for i, r := range rooms {
		out.Rooms[i] = RoomFromModel(r)
	}
	return out
}
