package request

// CreateUserRequest is the request body for creating a user. The user
// id is optional; when present an existing identity is resumed.
type CreateUserRequest struct {
	UserID string `json:"user_id,omitempty"`
}

// SetUsernameRequest is the request body for setting a display name
type SetUsernameRequest struct {
	Username string `json:"username"`
}

// SetAvatarRequest is the request body for setting an avatar URL. An
// empty URL asks the server to generate a default avatar.
type SetAvatarRequest struct {
	URL string `json:"url,omitempty"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name string `json:"name,omitempty"`
}
