package store

import (
	"context"
	"fmt"
	"time"
)

// ListActiveStories returns all stories that have not yet expired, each with its
// author and images ordered by their slide index.
func (s *Store) ListActiveStories(ctx context.Context) ([]Story, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT st.id, COALESCE(st.title, ''), st.created_at, st.expires_at,
		       u.id, u.username, u.full_name, COALESCE(u.avatar_url, '')
		FROM stories st
		JOIN users u ON u.id = st.author_id
		WHERE st.expires_at > now()
		ORDER BY st.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var stories []Story
	byID := make(map[int64]int)
	for rows.Next() {
		var st Story
		err := rows.Scan(
			&st.ID, &st.Title, &st.CreatedAt, &st.ExpiresAt,
			&st.Author.ID, &st.Author.Username, &st.Author.FullName, &st.Author.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		st.Images = []StoryImage{}
		byID[st.ID] = len(stories)
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return stories, nil
	}

	ids := make([]int64, 0, len(stories))
	for id := range byID {
		ids = append(ids, id)
	}

	imgRows, err := s.pool.Query(ctx, `
		SELECT story_id, id, image_url, COALESCE(caption, ''), order_index
		FROM story_images
		WHERE story_id = ANY($1)
		ORDER BY story_id, order_index`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("list story images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var storyID int64
		var img StoryImage
		if err := imgRows.Scan(&storyID, &img.ID, &img.ImageURL, &img.Caption, &img.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan story image: %w", err)
		}
		if idx, ok := byID[storyID]; ok {
			stories[idx].Images = append(stories[idx].Images, img)
		}
	}
	return stories, imgRows.Err()
}

// StoryExists reports whether the given story id is on file.
func (s *Store) StoryExists(ctx context.Context, storyID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stories WHERE id = $1)`, storyID).Scan(&exists)
	return exists, err
}

// CreateStory inserts a story with its images. Used by sample-data seeding.
func (s *Store) CreateStory(ctx context.Context, authorID int64, title string, expiresAt time.Time, images []StoryImage) (int64, error) {
	var storyID int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO stories (author_id, title, expires_at)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id`,
		authorID, title, expiresAt,
	).Scan(&storyID)
	if err != nil {
		return 0, err
	}

	for _, img := range images {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO story_images (story_id, image_url, caption, order_index)
			VALUES ($1, $2, NULLIF($3, ''), $4)`,
			storyID, img.ImageURL, img.Caption, img.OrderIndex,
		)
		if err != nil {
			return 0, err
		}
	}
	return storyID, nil
}
