package config

// Board is a whiteboard room record. The shareable RoomCode is what clients
// type to join; the drawing log itself is never persisted, only the room
// metadata.
type Board struct {
	ID        string `json:"id"`
	RoomCode  string `json:"room_code"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt int64  `json:"created_at"`
}

// User is an account record. GoogleSub is set for accounts created through
// Google sign-in; PasswordHash for password accounts.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	Dob          string `json:"dob"`
	Phone        string `json:"phone"`
	PictureKey   string `json:"picture_key"`
	GoogleSub    string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}

// BoardJob and UserJob carry writes to the single database writer; Result
// reports the outcome back to the caller.
type BoardJob struct {
	Board  Board
	Result chan error
}

type UserJob struct {
	User   User
	Result chan error
}

type ProfileJob struct {
	UserID string
	Email  string
	Dob    string
	Phone  string
	Result chan error
}

type PictureJob struct {
	UserID string
	Key    string
	Result chan error
}
