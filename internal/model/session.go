package model

// RoomSession is the caller-local record of which room and player
// identity a user currently occupies. Absence means "not in a room".
type RoomSession struct {
	UserID   UserID   `json:"userId"`
	RoomID   RoomID   `json:"roomId"`
	PlayerID PlayerID `json:"playerId"`
}
