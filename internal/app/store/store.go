/*
Package store implements the persistence gateway for the social hub.

It owns every SQL statement in the application and exposes typed query methods
over a pgx connection pool. Callers never see driver-level details; failed
lookups are reported via db.IsNotFound and unique-constraint conflicts via
db.IsUniqueViolation.
*/
package store

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles all query methods over one shared connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// User is a full account row.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar_url"`
	Bio          string    `json:"bio"`
	IsActive     bool      `json:"is_active"`
	IsOnline     bool      `json:"is_online"`
	LastSeen     time.Time `json:"last_seen"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the subset of account fields embedded in other payloads.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Summary projects a full User row onto its embeddable subset.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// Message is a persisted direct message between two users.
type Message struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationMessage is a message joined with both participants.
type ConversationMessage struct {
	Message
	Sender   UserSummary `json:"sender"`
	Receiver UserSummary `json:"receiver"`
}

// ChatSummary describes one entry of a user's chat list.
type ChatSummary struct {
	User        UserSummary `json:"user"`
	LastMessage *Message    `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}

// Post is a newsfeed post row.
type Post struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostDetail is a post row joined with its author and viewer-specific state.
type PostDetail struct {
	Post
	Author         UserSummary `json:"author"`
	LikesCount     int64       `json:"likes_count"`
	CommentsCount  int64       `json:"comments_count"`
	IsLiked        bool        `json:"is_liked"`
	ViewerReaction string      `json:"current_user_reaction,omitempty"`
}

// Comment is a comment row joined with its author.
type Comment struct {
	ID              int64       `json:"id"`
	Content         string      `json:"content"`
	PostID          int64       `json:"post_id"`
	AuthorID        int64       `json:"author_id"`
	Author          UserSummary `json:"author"`
	ParentCommentID *int64      `json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Reaction is a post reaction row joined with the reacting user.
type Reaction struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	PostID       int64       `json:"post_id"`
	ReactionType string      `json:"reaction_type"`
	User         UserSummary `json:"user"`
	CreatedAt    time.Time   `json:"created_at"`
}

// StoryImage is one slide of a story.
type StoryImage struct {
	ID         int64  `json:"id"`
	ImageURL   string `json:"url"`
	Caption    string `json:"caption,omitempty"`
	OrderIndex int    `json:"order"`
}

// Story is a story row joined with its author and ordered images.
type Story struct {
	ID        int64        `json:"id"`
	Author    UserSummary  `json:"author"`
	Title     string       `json:"title,omitempty"`
	Images    []StoryImage `json:"images"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RefreshToken is a stored opaque refresh token.
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
