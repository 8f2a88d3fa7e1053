package handler

import (
	"net/http"
	"strings"

	"socialhub/internal/app/storage"
	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/randx"
	"socialhub/internal/pkg/req"
	"socialhub/internal/pkg/resp"
)

// media key namespaces accepted from clients.
var mediaPrefixes = map[string]struct{}{
	"avatars": {},
	"posts":   {},
	"stories": {},
}

type PresignUploadInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	Kind     string `json:"kind"`
}

// HandlePresignUpload issues a presigned URL for uploading a media file
// directly to the bucket. The returned key is what the client stores as the
// image reference afterwards.
func HandlePresignUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if deps.Media == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed, "media storage is not configured"))
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if _, ok := mediaPrefixes[input.Kind]; !ok || input.FileName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := storage.ValidateMediaUpload(input.MimeType, input.FileSize); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		key := randx.MediaKey(input.Kind, input.FileName)

		uploadURL, err := deps.Media.PresignUpload(r.Context(), key, input.MimeType, input.FileSize)
		if err != nil {
			logx.Error(err, "Failed to presign upload.", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"upload_url": uploadURL,
			"key":        key,
		})
	}
}

// HandlePresignDownload issues a presigned download URL for a stored media key.
func HandlePresignDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if deps.Media == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed, "media storage is not configured"))
			return
		}

		key := r.URL.Query().Get("key")
		prefix, _, found := strings.Cut(key, "/")
		if !found {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if _, ok := mediaPrefixes[prefix]; !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		downloadURL, err := deps.Media.PresignDownload(r.Context(), key)
		if err != nil {
			logx.Error(err, "Failed to presign download.", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"download_url": downloadURL,
		})
	}
}

// HandleUploadAvatar accepts a small multipart avatar upload, streams it into
// the bucket through the server, and stores the key on the user's profile.
func HandleUploadAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if deps.Media == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed, "media storage is not configured"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxMediaBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "missing file field"))
			return
		}
		defer file.Close()

		mimeType := header.Header.Get("Content-Type")
		if err := storage.ValidateMediaUpload(mimeType, header.Size); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		key := randx.MediaKey("avatars", header.Filename)

		avatarURL, err := deps.Media.Upload(r.Context(), key, mimeType, file)
		if err != nil {
			logx.Error(err, "Avatar upload failed.", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.DB.UpdateAvatar(r.Context(), user.ID, key); err != nil {
			logx.Error(err, "Failed to store avatar key.", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"key":        key,
			"avatar_url": avatarURL,
		})
	}
}
