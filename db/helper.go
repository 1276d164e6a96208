package db

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/collabboard/collabboard/config"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRoomCode returns an 8-character shareable code. The alphabet skips
// lookalike characters since users retype these by hand.
func NewRoomCode() (string, error) {
	b := make([]byte, config.RoomCodeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}

// CreateBoardWithCode inserts a new board under a fresh room code, retrying
// on the unlikely code collision.
func (w *Writer) CreateBoardWithCode(name string) (config.Board, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := NewRoomCode()
		if err != nil {
			return config.Board{}, err
		}

		b := config.Board{
			ID:        uuid.NewString(),
			RoomCode:  code,
			Name:      name,
			IsActive:  true,
			CreatedAt: time.Now().UnixMilli(),
		}
		if err := w.CreateBoard(b); err != nil {
			// UNIQUE violation on room_code; roll a new one.
			continue
		}
		return b, nil
	}
	return config.Board{}, fmt.Errorf("could not allocate a room code")
}
