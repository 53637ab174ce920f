package storage

import "time"

// UserRow represents a user account in the database
type UserRow struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
}

// RecordRow represents a row in the records table
type RecordRow struct {
	RecordID  string    `db:"record_id"`
	OwnerID   string    `db:"owner_id"` // empty for anonymous records
	Title     string    `db:"title"`
	Game      string    `db:"game"`
	Status    string    `db:"status"` // "open" or "final"
	Result    string    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TurnRow represents a row in the turns table
type TurnRow struct {
	TurnID      int64     `db:"turn_id"`
	RecordID    string    `db:"record_id"`
	TurnNumber  int       `db:"turn_number"`
	Text        string    `db:"text"` // canonical notation for the full turn
	ActionCount int       `db:"action_count"`
	PlayedAt    time.Time `db:"played_at"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL COLLATE NOCASE,
	email TEXT COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_login_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique ON users(email) WHERE email IS NOT NULL AND email != '';

CREATE TABLE IF NOT EXISTS records (
	record_id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	game TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'open' CHECK(status IN ('open', 'final')),
	result TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_owner ON records(owner_id);
CREATE INDEX IF NOT EXISTS idx_records_status ON records(status);
CREATE INDEX IF NOT EXISTS idx_records_updated ON records(updated_at);

CREATE TABLE IF NOT EXISTS turns (
	turn_id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id TEXT NOT NULL,
	turn_number INTEGER NOT NULL,
	text TEXT NOT NULL,
	action_count INTEGER NOT NULL DEFAULT 1,
	played_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (record_id) REFERENCES records(record_id) ON DELETE CASCADE,
	UNIQUE(record_id, turn_number)
);

CREATE INDEX IF NOT EXISTS idx_turns_record_id ON turns(record_id);
`
