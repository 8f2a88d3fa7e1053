package store

import (
	"context"
	"fmt"
)

const postDetailQuery = `
	SELECT p.id, p.content, COALESCE(p.image_url, ''), p.author_id, p.created_at, p.updated_at,
	       a.id, a.username, a.full_name, COALESCE(a.avatar_url, ''),
	       (SELECT count(*) FROM post_likes WHERE post_id = p.id),
	       (SELECT count(*) FROM comments WHERE post_id = p.id),
	       EXISTS (SELECT 1 FROM post_likes WHERE post_id = p.id AND user_id = $1),
	       COALESCE((SELECT reaction_type FROM post_reactions WHERE post_id = p.id AND user_id = $1), '')
	FROM posts p
	JOIN users a ON a.id = p.author_id`

func scanPostDetail(row interface{ Scan(...any) error }) (PostDetail, error) {
	var p PostDetail
	err := row.Scan(
		&p.ID, &p.Content, &p.ImageURL, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.FullName, &p.Author.AvatarURL,
		&p.LikesCount, &p.CommentsCount, &p.IsLiked, &p.ViewerReaction,
	)
	return p, err
}

// CreatePost inserts a new post and returns the stored row.
func (s *Store) CreatePost(ctx context.Context, authorID int64, content, imageURL string) (Post, error) {
	var p Post
	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (content, image_url, author_id)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, content, COALESCE(image_url, ''), author_id, created_at, updated_at`,
		content, imageURL, authorID,
	).Scan(&p.ID, &p.Content, &p.ImageURL, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPost fetches one post with author and viewer-specific state.
// viewerID 0 means an anonymous viewer.
func (s *Store) GetPost(ctx context.Context, postID, viewerID int64) (PostDetail, error) {
	row := s.pool.QueryRow(ctx, postDetailQuery+` WHERE p.id = $2`, viewerID, postID)
	return scanPostDetail(row)
}

// ListPosts returns a page of the newsfeed, newest posts first.
func (s *Store) ListPosts(ctx context.Context, viewerID int64, limit, offset int) ([]PostDetail, error) {
	rows, err := s.pool.Query(ctx, postDetailQuery+`
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`,
		viewerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []PostDetail
	for rows.Next() {
		p, err := scanPostDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePost overwrites the mutable fields of a post. Empty arguments keep the
// stored value.
func (s *Store) UpdatePost(ctx context.Context, postID int64, content, imageURL string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE posts SET
			content = COALESCE(NULLIF($2, ''), content),
			image_url = COALESCE(NULLIF($3, ''), image_url),
			updated_at = now()
		WHERE id = $1`,
		postID, content, imageURL,
	)
	return err
}

// DeletePost removes a post. Dependent rows cascade in the schema.
func (s *Store) DeletePost(ctx context.Context, postID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	return err
}

// TogglePostLike flips the like state of (userID, postID) and returns the new
// state plus the resulting like count.
func (s *Store) TogglePostLike(ctx context.Context, userID, postID int64) (bool, int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	)
	if err != nil {
		return false, 0, err
	}

	liked := false
	if tag.RowsAffected() == 0 {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)`,
			userID, postID,
		); err != nil {
			return false, 0, err
		}
		liked = true
	}

	var count int64
	err = s.pool.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	return liked, count, err
}

// SetPostReaction applies the add/update/remove reaction rules:
// an empty type removes any existing reaction, repeating the current type
// removes it, anything else inserts or replaces. The returned string is the
// reaction now on file, empty when none.
func (s *Store) SetPostReaction(ctx context.Context, userID, postID int64, reactionType string) (string, error) {
	var current string
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE((SELECT reaction_type FROM post_reactions WHERE user_id = $1 AND post_id = $2), '')`,
		userID, postID,
	).Scan(&current)
	if err != nil {
		return "", err
	}

	if reactionType == "" || reactionType == current {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM post_reactions WHERE user_id = $1 AND post_id = $2`,
			userID, postID,
		)
		return "", err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO post_reactions (user_id, post_id, reaction_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id)
		DO UPDATE SET reaction_type = EXCLUDED.reaction_type, updated_at = now()`,
		userID, postID, reactionType,
	)
	return reactionType, err
}

// ListReactions returns every reaction on a post with the reacting users.
func (s *Store) ListReactions(ctx context.Context, postID int64) ([]Reaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.user_id, r.post_id, r.reaction_type, r.created_at,
		       u.id, u.username, u.full_name, COALESCE(u.avatar_url, '')
		FROM post_reactions r
		JOIN users u ON u.id = r.user_id
		WHERE r.post_id = $1
		ORDER BY r.created_at`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	var reactions []Reaction
	for rows.Next() {
		var r Reaction
		err := rows.Scan(
			&r.ID, &r.UserID, &r.PostID, &r.ReactionType, &r.CreatedAt,
			&r.User.ID, &r.User.Username, &r.User.FullName, &r.User.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, r)
	}
	return reactions, rows.Err()
}

// CreateComment inserts a comment (optionally a reply) and returns it joined
// with its author.
func (s *Store) CreateComment(ctx context.Context, postID, authorID int64, content string, parentCommentID *int64) (Comment, error) {
	var c Comment
	err := s.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO comments (content, post_id, author_id, parent_comment_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, content, post_id, author_id, parent_comment_id, created_at, updated_at
		)
		SELECT i.id, i.content, i.post_id, i.author_id, i.parent_comment_id, i.created_at, i.updated_at,
		       u.id, u.username, u.full_name, COALESCE(u.avatar_url, '')
		FROM inserted i
		JOIN users u ON u.id = i.author_id`,
		content, postID, authorID, parentCommentID,
	).Scan(
		&c.ID, &c.Content, &c.PostID, &c.AuthorID, &c.ParentCommentID, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.ID, &c.Author.Username, &c.Author.FullName, &c.Author.AvatarURL,
	)
	return c, err
}

// ListComments returns the comments of a post, oldest first.
func (s *Store) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.content, c.post_id, c.author_id, c.parent_comment_id, c.created_at, c.updated_at,
		       u.id, u.username, u.full_name, COALESCE(u.avatar_url, '')
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(
			&c.ID, &c.Content, &c.PostID, &c.AuthorID, &c.ParentCommentID, &c.CreatedAt, &c.UpdatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.FullName, &c.Author.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
