package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"socialhub/internal/app/db"
)

// seedUser describes one sample account.
type seedUser struct {
	Username  string
	Email     string
	FullName  string
	AvatarURL string
	Bio       string
}

var sampleUsers = []seedUser{
	{"john_doe", "john@example.com", "John Doe",
		"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=40&h=40&fit=crop&crop=face",
		"Software developer and outdoor enthusiast"},
	{"emma_wilson", "emma@example.com", "Emma Wilson",
		"https://images.unsplash.com/photo-1494790108755-2616b612b47c?w=40&h=40&fit=crop&crop=face",
		"Adventure seeker and nature lover 🏔️"},
	{"james_rodriguez", "james@example.com", "James Rodriguez",
		"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=40&h=40&fit=crop&crop=face",
		"Photographer and travel blogger"},
	{"sarah_chen", "sarah@example.com", "Sarah Chen",
		"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=40&h=40&fit=crop&crop=face",
		"Designer and artist"},
	{"tech_news", "tech@example.com", "Tech News Daily",
		"https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=40&h=40&fit=crop&crop=face",
		"Latest technology news and updates"},
	{"lisa_anderson", "lisa@example.com", "Lisa Anderson",
		"https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=40&h=40&fit=crop&crop=face",
		"Chef and food enthusiast 🍝"},
}

type seedPost struct {
	AuthorIdx int
	Content   string
	ImageURL  string
	Age       time.Duration
}

var samplePosts = []seedPost{
	{1, "Just finished an amazing hike in the mountains! 🏔️ The view was absolutely breathtaking. Nature never fails to amaze me. Who else loves outdoor adventures?",
		"https://images.unsplash.com/photo-1464822759844-d150baec3e92?w=600&h=400&fit=crop", 2 * time.Hour},
	{4, "🚀 Breaking: New AI breakthrough announced! Researchers have developed a new machine learning model that can understand context better than ever before. This could revolutionize how we interact with technology.\n\nWhat are your thoughts on the future of AI?",
		"", 4 * time.Hour},
	{5, "Cooked my first homemade pasta from scratch! 🍝 It was definitely a learning experience, but the result was delicious. Cooking is such a therapeutic activity for me.",
		"https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=600&h=400&fit=crop", 6 * time.Hour},
	{2, "Captured this stunning sunset during my evening walk. Sometimes the best moments are the unexpected ones. 📸✨",
		"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=600&h=400&fit=crop", 8 * time.Hour},
	{3, "Working on a new design project today. Love the creative process and bringing ideas to life! What inspires your creativity?",
		"https://images.unsplash.com/photo-1503023345310-bd7c1de61c7d?w=600&h=400&fit=crop", 10 * time.Hour},
}

// SeedSampleData populates the database with demo users, friendships, posts,
// reactions, messages, and stories. Safe to run repeatedly: existing accounts
// (matched by email) are reused and content inserts are skipped once present.
func (s *Store) SeedSampleData(ctx context.Context) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	userIDs := make([]int64, len(sampleUsers))
	for i, su := range sampleUsers {
		existing, err := s.GetUserByLogin(ctx, su.Email)
		if err == nil {
			userIDs[i] = existing.ID
			continue
		}
		if !db.IsNotFound(err) {
			return fmt.Errorf("seed: lookup %s: %w", su.Email, err)
		}

		var id int64
		err = s.pool.QueryRow(ctx, `
			INSERT INTO users (email, username, full_name, password_hash, avatar_url, bio)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			su.Email, su.Username, su.FullName, string(passwordHash), su.AvatarURL, su.Bio,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed: insert user %s: %w", su.Username, err)
		}
		userIDs[i] = id
	}

	// Everyone is friends with everyone in the demo data set.
	for i := range userIDs {
		for j := i + 1; j < len(userIDs); j++ {
			if err := s.AddFriendship(ctx, userIDs[i], userIDs[j]); err != nil {
				return fmt.Errorf("seed: friendship: %w", err)
			}
		}
	}

	var postCount int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&postCount); err != nil {
		return fmt.Errorf("seed: count posts: %w", err)
	}
	if postCount > 0 {
		return nil
	}

	postIDs := make([]int64, len(samplePosts))
	for i, sp := range samplePosts {
		var id int64
		err := s.pool.QueryRow(ctx, `
			INSERT INTO posts (content, image_url, author_id, created_at, updated_at)
			VALUES ($1, NULLIF($2, ''), $3, $4, $4)
			RETURNING id`,
			sp.Content, sp.ImageURL, userIDs[sp.AuthorIdx], time.Now().Add(-sp.Age),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed: insert post: %w", err)
		}
		postIDs[i] = id
	}

	// A few likes, reactions, and comments to make the feed look alive.
	for _, postID := range postIDs {
		for _, userIdx := range []int{0, 3} {
			if _, err := s.pool.Exec(ctx, `
				INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				userIDs[userIdx], postID,
			); err != nil {
				return fmt.Errorf("seed: post like: %w", err)
			}
		}
	}
	if _, err := s.SetPostReaction(ctx, userIDs[0], postIDs[0], "love"); err != nil {
		return fmt.Errorf("seed: reaction: %w", err)
	}
	if _, err := s.SetPostReaction(ctx, userIDs[3], postIDs[1], "wow"); err != nil {
		return fmt.Errorf("seed: reaction: %w", err)
	}
	if _, err := s.CreateComment(ctx, postIDs[0], userIDs[0], "Looks incredible! Which trail was this?", nil); err != nil {
		return fmt.Errorf("seed: comment: %w", err)
	}
	if _, err := s.CreateComment(ctx, postIDs[2], userIDs[1], "Save me a plate next time! 😋", nil); err != nil {
		return fmt.Errorf("seed: comment: %w", err)
	}

	// A short conversation between John and Emma.
	conversation := []struct {
		From, To int
		Text     string
	}{
		{0, 1, "Hey Emma! How was the hike this weekend?"},
		{1, 0, "Amazing! You should join next time, the views were unreal."},
		{0, 1, "Count me in. Send me the trail map when you get a chance?"},
	}
	for _, m := range conversation {
		if _, err := s.InsertMessage(ctx, userIDs[m.From], userIDs[m.To], m.Text); err != nil {
			return fmt.Errorf("seed: message: %w", err)
		}
	}

	stories := []struct {
		AuthorIdx int
		Title     string
		Images    []StoryImage
	}{
		{1, "Mountain Weekend", []StoryImage{
			{ImageURL: "https://images.unsplash.com/photo-1464822759844-d150baec3e92?w=400&h=700&fit=crop", Caption: "Summit sunrise", OrderIndex: 0},
			{ImageURL: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=700&fit=crop", Caption: "On the way down", OrderIndex: 1},
		}},
		{5, "Pasta Night", []StoryImage{
			{ImageURL: "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=400&h=700&fit=crop", Caption: "Fresh from the pot", OrderIndex: 0},
		}},
	}
	for _, st := range stories {
		if _, err := s.CreateStory(ctx, userIDs[st.AuthorIdx], st.Title, time.Now().Add(24*time.Hour), st.Images); err != nil {
			return fmt.Errorf("seed: story: %w", err)
		}
	}

	return nil
}
