package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNotFound is returned when a token does not match a live session.
var ErrNotFound = errors.New("session not found")

// SetupSchema initializes the session table in the provided database.
// It is idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    token       TEXT     PRIMARY KEY,
    data        TEXT     NOT NULL,
    created_at  INTEGER  NOT NULL,
    expires_at  INTEGER  NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not create sessions schema: %w", err)
	}
	return nil
}

// Store persists sessions in a SQLite database. It holds the database
// connection and prepared statements for the hot-path queries. All
// methods are concurrent-safe; the underlying *sql.DB provides the
// synchronization.
type Store struct {
	db       *sql.DB
	logger   *slog.Logger
	ttl      time.Duration
	stmtGet  *sql.Stmt
	stmtPut  *sql.Stmt
	stmtDel  *sql.Stmt
	stmtPurg *sql.Stmt
}

// NewStore creates a Store over db with the given session lifetime.
// SetupSchema must have been called on db first.
func NewStore(db *sql.DB, logger *slog.Logger, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Store{db: db, logger: logger, ttl: ttl}

	var err error
	if s.stmtGet, err = db.Prepare("SELECT data, expires_at FROM sessions WHERE token = ?"); err != nil {
		return nil, fmt.Errorf("prepare session get: %w", err)
	}
	if s.stmtPut, err = db.Prepare("INSERT OR REPLACE INTO sessions (token, data, created_at, expires_at) VALUES (?, ?, ?, ?)"); err != nil {
		return nil, fmt.Errorf("prepare session put: %w", err)
	}
	if s.stmtDel, err = db.Prepare("DELETE FROM sessions WHERE token = ?"); err != nil {
		return nil, fmt.Errorf("prepare session delete: %w", err)
	}
	if s.stmtPurg, err = db.Prepare("DELETE FROM sessions WHERE expires_at < ?"); err != nil {
		return nil, fmt.Errorf("prepare session purge: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements. It does not close the database,
// which the Store does not own.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{s.stmtGet, s.stmtPut, s.stmtDel, s.stmtPurg} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// Create mints a new empty session with a random token and persists it.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	sess := &Session{
		Token:  hex.EncodeToString(buf),
		values: make(map[string]any),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads the session for token. Expired or unknown tokens report
// ErrNotFound.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	var data string
	var expiresAt int64
	err := s.stmtGet.QueryRowContext(ctx, token).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if time.Now().Unix() >= expiresAt {
		return nil, ErrNotFound
	}

	values := make(map[string]any)
	if err = json.Unmarshal([]byte(data), &values); err != nil {
		// A corrupt row is unrecoverable; drop it and report a miss.
		s.logger.Warn("Dropping session with corrupt data", "token", token, "error", err)
		_, _ = s.stmtDel.ExecContext(ctx, token)
		return nil, ErrNotFound
	}
	return &Session{Token: token, values: values}, nil
}

// Save persists the session's current values and pushes its expiry out by
// the store's ttl.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess.values)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	now := time.Now()
	_, err = s.stmtPut.ExecContext(ctx, sess.Token, string(data), now.Unix(), now.Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Delete removes the session for token. Deleting an unknown token is not
// an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if _, err := s.stmtDel.ExecContext(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes every session past its expiry and returns how many
// were removed. Intended to be run periodically by the host.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.stmtPurg.ExecContext(ctx, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	if n > 0 {
		s.logger.Info("Purged expired sessions", "count", n)
	}
	return n, nil
}
