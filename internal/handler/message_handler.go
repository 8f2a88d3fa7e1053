package handler

import (
	"net/http"

	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/req"
	"socialhub/internal/pkg/resp"
)

// HandleListChats returns the authenticated user's chat list: one entry per
// conversation partner with the last message and unread count.
func HandleListChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		chats, err := deps.DB.ListChats(r.Context(), user.ID)
		if err != nil {
			logx.Error(err, "Failed to list chats.", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, chats)
	}
}

// HandleConversation returns the full message history with another user,
// oldest first.
func HandleConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		otherUserID, err := pathID(r, "other_user_id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		messages, err := deps.DB.ListConversation(r.Context(), user.ID, otherUserID)
		if err != nil {
			logx.Error(err, "Failed to load conversation.",
				"user_id", user.ID, "other_user_id", otherUserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}

type SendMessageInput struct {
	Content string `json:"content"`
}

// HandleSendMessage is the REST fallback for sending a direct message. The
// message is persisted first and then, best effort, pushed over the realtime
// channels of both parties; a delivery problem never fails the request.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		receiverID, err := pathID(r, "receiver_id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content, err := validateContent(input.Content)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if _, err := deps.DB.GetUserByID(r.Context(), receiverID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrReceiverNotFound))
			return
		}

		msg, err := deps.DB.InsertMessage(r.Context(), user.ID, receiverID, content)
		if err != nil {
			logx.Error(err, "Failed to persist message.",
				"sender_id", user.ID, "receiver_id", receiverID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.PushMessage(msg, user.Summary())

		resp.RespondSuccess(w, r, msg)
	}
}

// HandleMarkRead flips the unread flag on every message the other user sent
// to the caller and pushes a read receipt to the other user's live channel.
func HandleMarkRead(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		otherUserID, err := pathID(r, "other_user_id")
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		count, err := deps.DB.MarkConversationRead(r.Context(), otherUserID, user.ID)
		if err != nil {
			logx.Error(err, "Failed to mark conversation read.",
				"reader_id", user.ID, "other_user_id", otherUserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.PushReadReceipt(user.ID, otherUserID)

		resp.RespondSuccess(w, r, map[string]any{"marked_read": count})
	}
}
