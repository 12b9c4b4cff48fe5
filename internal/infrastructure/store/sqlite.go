package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/tastematch/backend/internal/domain"
)

const profilesSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id    TEXT PRIMARY KEY,
	updated_at TEXT NOT NULL,
	profile    TEXT NOT NULL
)`

// SQLiteStore persists profiles in a single SQLite table
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) a SQLite database at path with WAL mode
// enabled and ensures the profiles table exists. ":memory:" opens a private
// in-memory database.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Single writer connection for SQLite; also keeps ":memory:" on one database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", domain.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, profilesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating profiles table: %w", err)
	}

	return &SQLiteStore{db: db, logger: applyOptions(opts).logger}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves the profile stored for a user
func (s *SQLiteStore) Get(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile FROM profiles WHERE user_id = ?`, userID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return decodeProfile([]byte(data))
}

// Save stores a profile, replacing any existing one for the same user
func (s *SQLiteStore) Save(ctx context.Context, profile *domain.StoredProfile) error {
	if err := validateForSave(profile); err != nil {
		return err
	}

	data, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, updated_at, profile) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET updated_at = excluded.updated_at, profile = excluded.profile`,
		profile.UserID, profile.UpdatedAt.UTC().Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return fmt.Errorf("%w: saving profile %q: %v", domain.ErrStoreUnavailable, profile.UserID, err)
	}

	return nil
}

// Delete removes a user's profile. Deleting a missing profile is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("%w: deleting profile %q: %v", domain.ErrStoreUnavailable, userID, err)
	}
	return nil
}

// List returns up to limit profiles ordered by user id
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.StoredProfile, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means no limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, profile FROM profiles ORDER BY user_id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing profiles: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var profiles []domain.StoredProfile
	for rows.Next() {
		var userID, data string
		if err := rows.Scan(&userID, &data); err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		p, err := decodeProfile([]byte(data))
		if err != nil {
			skipUnreadable(s.logger, userID, err)
			continue
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}
