package handler

import (
	"net/http"
	"time"

	"socialhub/internal/app/store"
	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/req"
	"socialhub/internal/pkg/resp"
)

// StoryTTL is how long a story stays visible after posting.
const StoryTTL = 24 * time.Hour

// HandleListStories returns all unexpired stories with their images in slide
// order.
func HandleListStories(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		stories, err := deps.DB.ListActiveStories(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list stories.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, stories)
	}
}

type StoryImageInput struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

type StoryInput struct {
	Title  string            `json:"title"`
	Images []StoryImageInput `json:"images"`
}

// HandleCreateStory posts a story that expires after StoryTTL.
func HandleCreateStory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		var input StoryInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if len(input.Images) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "a story needs at least one image"))
			return
		}

		images := make([]store.StoryImage, len(input.Images))
		for i, img := range input.Images {
			if img.ImageURL == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "image_url is required"))
				return
			}
			images[i] = store.StoryImage{
				ImageURL:   img.ImageURL,
				Caption:    img.Caption,
				OrderIndex: i,
			}
		}

		storyID, err := deps.DB.CreateStory(r.Context(), user.ID, input.Title, time.Now().Add(StoryTTL), images)
		if err != nil {
			logx.Error(err, "Failed to create story.", "author_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"id": storyID})
	}
}

// HandleViewStory records that the caller viewed a story. Views are not
// persisted; the endpoint exists so clients can confirm the story still
// exists before rendering it.
func HandleViewStory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		storyID, err := pathID(r, "id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		exists, err := deps.DB.StoryExists(r.Context(), storyID)
		if err != nil {
			logx.Error(err, "Failed to check story.", "story_id", storyID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !exists {
			resp.RespondError(w, r, errs.NewError(errs.ErrStoryNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "viewed"})
	}
}
