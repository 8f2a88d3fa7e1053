package handler

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"socialhub/internal/app/db"
	"socialhub/internal/app/store"
	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/req"
	"socialhub/internal/pkg/resp"
)

const (
	// MaxContentChars bounds post, comment, and message content length.
	MaxContentChars = 5000

	defaultPageSize = 20
	maxPageSize     = 100
	samplePostCount = 10
)

// pagination extracts page/per_page query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	return perPage, (page - 1) * perPage
}

// pathID parses a numeric URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return id, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errs.NewError(errs.ErrContentEmpty)
	}
	if utf8.RuneCountInString(content) > MaxContentChars {
		return "", errs.NewError(errs.ErrContentTooLong)
	}
	return content, nil
}

// HandleListPosts returns the paginated feed for the authenticated viewer.
func HandleListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		limit, offset := pagination(r)

		posts, err := deps.DB.ListPosts(r.Context(), user.ID, limit, offset)
		if err != nil {
			logx.Error(err, "Failed to list posts.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, posts)
	}
}

// HandleSamplePosts returns a short public slice of the feed. Works without
// authentication; an authenticated viewer still gets their own like/reaction
// flags.
func HandleSamplePosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var viewerID int64
		if user, err := currentUser(r, deps); err == nil {
			viewerID = user.ID
		}

		posts, err := deps.DB.ListPosts(r.Context(), viewerID, samplePostCount, 0)
		if err != nil {
			logx.Error(err, "Failed to list sample posts.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, posts)
	}
}

type PostInput struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// HandleCreatePost creates a post authored by the authenticated user.
func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		var input PostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content, err := validateContent(input.Content)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		post, err := deps.DB.CreatePost(r.Context(), user.ID, content, input.ImageURL)
		if err != nil {
			logx.Error(err, "Failed to create post.", "author_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, post)
	}
}

// loadOwnPost fetches a post and verifies the requester authored it.
func loadOwnPost(r *http.Request, deps *AppDeps, user store.User) (store.PostDetail, error) {
	postID, err := pathID(r, "id")
	if err != nil {
		return store.PostDetail{}, err
	}

	post, err := deps.DB.GetPost(r.Context(), postID, user.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return store.PostDetail{}, errs.NewError(errs.ErrPostNotFound)
		}
		return store.PostDetail{}, errs.NewError(errs.ErrUnknown)
	}

	if post.AuthorID != user.ID {
		return store.PostDetail{}, errs.NewError(errs.ErrNotPostAuthor)
	}

	return post, nil
}

// HandleGetPost returns one post with the viewer's own flags resolved.
func HandleGetPost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		post, err := deps.DB.GetPost(r.Context(), postID, user.ID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "Failed to fetch post.", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, post)
	}
}

// HandleUpdatePost edits a post's content or image. Only the author may edit.
func HandleUpdatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		post, err := loadOwnPost(r, deps, user)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		var input PostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Content != "" {
			if input.Content, err = validateContent(input.Content); err != nil {
				resp.RespondError(w, r, err)
				return
			}
		}

		if err := deps.DB.UpdatePost(r.Context(), post.ID, input.Content, input.ImageURL); err != nil {
			logx.Error(err, "Failed to update post.", "post_id", post.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		updated, err := deps.DB.GetPost(r.Context(), post.ID, user.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, updated)
	}
}

// HandleDeletePost removes a post. Only the author may delete.
func HandleDeletePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		post, err := loadOwnPost(r, deps, user)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := deps.DB.DeletePost(r.Context(), post.ID); err != nil {
			logx.Error(err, "Failed to delete post.", "post_id", post.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "deleted"})
	}
}

// HandleTogglePostLike flips the viewer's like on a post.
func HandleTogglePostLike(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		liked, count, err := deps.DB.TogglePostLike(r.Context(), user.ID, postID)
		if err != nil {
			if db.IsNotFound(err) || db.IsForeignKeyViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "Failed to toggle like.", "post_id", postID, "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"liked":       liked,
			"likes_count": count,
		})
	}
}

type ReactionInput struct {
	ReactionType string `json:"reaction_type"`
}

// HandleSetPostReaction adds, changes, or removes the viewer's reaction on a
// post. Sending an empty type, or the type already set, removes the reaction.
func HandleSetPostReaction(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		var input ReactionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		current, err := deps.DB.SetPostReaction(r.Context(), user.ID, postID, input.ReactionType)
		if err != nil {
			if db.IsNotFound(err) || db.IsForeignKeyViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "Failed to set reaction.", "post_id", postID, "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"reaction_type": current,
		})
	}
}

// HandleListReactions returns all reactions on a post with their users.
func HandleListReactions(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		reactions, err := deps.DB.ListReactions(r.Context(), postID)
		if err != nil {
			logx.Error(err, "Failed to list reactions.", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, reactions)
	}
}

type CommentInput struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// HandleCreateComment adds a comment, optionally as a reply to another comment.
func HandleCreateComment(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		var input CommentInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content, err := validateContent(input.Content)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		comment, err := deps.DB.CreateComment(r.Context(), postID, user.ID, content, input.ParentCommentID)
		if err != nil {
			if db.IsNotFound(err) || db.IsForeignKeyViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "Failed to create comment.", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, comment)
	}
}

// HandleListComments returns a post's comments, oldest first.
func HandleListComments(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		comments, err := deps.DB.ListComments(r.Context(), postID)
		if err != nil {
			logx.Error(err, "Failed to list comments.", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, comments)
	}
}
