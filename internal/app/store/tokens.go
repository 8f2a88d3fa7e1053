package store

import (
	"context"
	"time"
)

// InsertRefreshToken stores an opaque refresh token for a user.
func (s *Store) InsertRefreshToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	return err
}

// GetRefreshToken fetches a refresh token that has not expired yet.
func (s *Store) GetRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	var rt RefreshToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, token, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1 AND expires_at > now()`,
		token,
	).Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt)
	return rt, err
}

// DeleteRefreshToken revokes a refresh token. Unknown tokens are a no-op.
func (s *Store) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}
