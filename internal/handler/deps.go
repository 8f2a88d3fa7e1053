package handler

import (
	"socialhub/internal/app/chat"
	"socialhub/internal/app/storage"
	"socialhub/internal/app/store"
	"socialhub/internal/configs"
)

type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
	DB     *store.Store
	Media  storage.MediaStore
}
