package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, username, full_name, password_hash,
	COALESCE(avatar_url, ''), COALESCE(bio, ''),
	is_active, is_online, last_seen, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.Bio,
		&u.IsActive, &u.IsOnline, &u.LastSeen, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// CreateUser inserts a new account and returns the stored row.
func (s *Store) CreateUser(ctx context.Context, email, username, fullName, passwordHash string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, full_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		email, username, fullName, passwordHash,
	)
	return scanUser(row)
}

// GetUserByID fetches an account by its numeric id.
func (s *Store) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByLogin fetches an account by username or email.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1 OR email = $1`,
		login,
	)
	return scanUser(row)
}

// ListUsers returns every account, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdatePresence mirrors the in-memory online state onto the durable user row.
// Registry membership stays authoritative for routing; this write is advisory.
func (s *Store) UpdatePresence(ctx context.Context, userID int64, online bool, lastSeen time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET is_online = $2, last_seen = $3, updated_at = now()
		WHERE id = $1`,
		userID, online, lastSeen,
	)
	return err
}

// UpdateAvatar stores the media key of the user's avatar.
func (s *Store) UpdateAvatar(ctx context.Context, userID int64, avatarKey string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET avatar_url = $2, updated_at = now()
		WHERE id = $1`,
		userID, avatarKey,
	)
	return err
}

// GetFriends returns the friend set of the given user.
func (s *Store) GetFriends(ctx context.Context, userID int64) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		JOIN friendships f ON f.friend_id = users.id
		WHERE f.user_id = $1
		ORDER BY users.username`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}
	defer rows.Close()

	var friends []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, u)
	}
	return friends, rows.Err()
}

// AddFriendship links two users in both directions. Existing links are kept.
func (s *Store) AddFriendship(ctx context.Context, userID, friendID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING`,
		userID, friendID,
	)
	return err
}
