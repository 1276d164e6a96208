package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/collabboard/collabboard/config"
)

// Operation Types
const (
	OpCreateBoard = iota
	OpCreateUser
	OpUpdateProfile
	OpSetPicture
)

type DbJob struct {
	Type    int
	Board   config.BoardJob
	User    config.UserJob
	Profile config.ProfileJob
	Picture config.PictureJob
}

// Writer owns the sqlite handle. All writes funnel through one goroutine
// fed by opCh, so WAL-mode sqlite never sees two writers. Reads go straight
// to the handle, which is safe concurrently.
type Writer struct {
	db   *sql.DB
	opCh chan DbJob
	done chan struct{}
}

func NewWriter(dbPath string) *Writer {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		panic(err)
	}

	if _, err := db.Exec(`
        PRAGMA journal_mode = WAL;
        PRAGMA synchronous = NORMAL;
        PRAGMA busy_timeout = 5000; -- Wait 5s if db is locked
    `); err != nil {
		panic(err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS boards (
            id TEXT PRIMARY KEY,
            room_code TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            is_active INTEGER NOT NULL DEFAULT 1,
            created_at INTEGER NOT NULL
        );
    `)
	if err != nil {
		panic(err)
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_boards_room_code
        ON boards(room_code);
    `)
	if err != nil {
		panic(err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL DEFAULT "",
            email TEXT NOT NULL DEFAULT "",
            dob TEXT NOT NULL DEFAULT "",
            phone TEXT NOT NULL DEFAULT "",
            picture_key TEXT NOT NULL DEFAULT "",
            google_sub TEXT NOT NULL DEFAULT "",
            created_at INTEGER NOT NULL
        );
    `)
	if err != nil {
		panic(err)
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_users_google_sub
        ON users(google_sub);
    `)
	if err != nil {
		panic(err)
	}

	w := &Writer{
		db:   db,
		opCh: make(chan DbJob, 1024),
		done: make(chan struct{}),
	}

	go w.writerLoop()
	return w
}

func (w *Writer) writerLoop() {
	defer close(w.done)

	stmtBoard, err := w.db.Prepare(`
        INSERT INTO boards (id, room_code, name, is_active, created_at)
        VALUES (?, ?, ?, 1, ?)
    `)
	if err != nil {
		panic(err)
	}
	defer stmtBoard.Close()

	stmtUser, err := w.db.Prepare(`
        INSERT INTO users (id, username, password_hash, email, google_sub, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		panic(err)
	}
	defer stmtUser.Close()

	stmtProfile, err := w.db.Prepare(`
        UPDATE users
        SET email = ?, dob = ?, phone = ?
        WHERE id = ?
    `)
	if err != nil {
		panic(err)
	}
	defer stmtProfile.Close()

	stmtPicture, err := w.db.Prepare(`
        UPDATE users
        SET picture_key = ?
        WHERE id = ?
    `)
	if err != nil {
		panic(err)
	}
	defer stmtPicture.Close()

	for job := range w.opCh {
		switch job.Type {

		case OpCreateBoard:
			b := job.Board.Board
			_, err := stmtBoard.Exec(b.ID, b.RoomCode, b.Name, b.CreatedAt)
			job.Board.Result <- err

		case OpCreateUser:
			u := job.User.User
			_, err := stmtUser.Exec(
				u.ID, u.Username, u.PasswordHash, u.Email, u.GoogleSub, u.CreatedAt,
			)
			job.User.Result <- err

		case OpUpdateProfile:
			p := job.Profile
			_, err := stmtProfile.Exec(p.Email, p.Dob, p.Phone, p.UserID)
			p.Result <- err

		case OpSetPicture:
			p := job.Picture
			_, err := stmtPicture.Exec(p.Key, p.UserID)
			p.Result <- err
		}
	}
}

// Close stops accepting jobs, waits for the writer loop to drain what is
// already queued, then closes the database handle. Callers must stop
// submitting writes before Close; a send on the closed channel panics.
func (w *Writer) Close() error {
	close(w.opCh)
	<-w.done
	return w.db.Close()
}

// --- Write Methods ---

func (w *Writer) CreateBoard(b config.Board) error {
	result := make(chan error, 1)
	w.opCh <- DbJob{Type: OpCreateBoard, Board: config.BoardJob{Board: b, Result: result}}
	return <-result
}

func (w *Writer) CreateUser(u config.User) error {
	result := make(chan error, 1)
	w.opCh <- DbJob{Type: OpCreateUser, User: config.UserJob{User: u, Result: result}}
	return <-result
}

func (w *Writer) UpdateProfile(userID, email, dob, phone string) error {
	result := make(chan error, 1)
	w.opCh <- DbJob{Type: OpUpdateProfile, Profile: config.ProfileJob{
		UserID: userID, Email: email, Dob: dob, Phone: phone, Result: result,
	}}
	return <-result
}

func (w *Writer) SetPictureKey(userID, key string) error {
	result := make(chan error, 1)
	w.opCh <- DbJob{Type: OpSetPicture, Picture: config.PictureJob{
		UserID: userID, Key: key, Result: result,
	}}
	return <-result
}

// --- Read Methods (safe for concurrent use) ---

func (w *Writer) GetBoardByCode(code string) (config.Board, bool, error) {
	var b config.Board
	var active int
	err := w.db.QueryRow(`
        SELECT id, room_code, name, is_active, created_at
        FROM boards
        WHERE room_code = ?
    `, code).Scan(&b.ID, &b.RoomCode, &b.Name, &active, &b.CreatedAt)

	if err == sql.ErrNoRows {
		return config.Board{}, false, nil
	}
	if err != nil {
		return config.Board{}, false, err
	}
	b.IsActive = active != 0
	return b, true, nil
}

func (w *Writer) GetUserByUsername(username string) (config.User, bool, error) {
	return w.getUser(`username = ?`, username)
}

func (w *Writer) GetUserByID(id string) (config.User, bool, error) {
	return w.getUser(`id = ?`, id)
}

func (w *Writer) GetUserByGoogleSub(sub string) (config.User, bool, error) {
	return w.getUser(`google_sub = ? AND google_sub != ""`, sub)
}

func (w *Writer) getUser(where string, arg string) (config.User, bool, error) {
	var u config.User
	err := w.db.QueryRow(fmt.Sprintf(`
        SELECT id, username, password_hash, email, dob, phone, picture_key, google_sub, created_at
        FROM users
        WHERE %s
    `, where), arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&u.Dob, &u.Phone, &u.PictureKey, &u.GoogleSub, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return config.User{}, false, nil
	}
	if err != nil {
		return config.User{}, false, err
	}
	return u, true, nil
}
