package storage

import (
	"fmt"
	"log/slog"

	"github.com/pucktrack/recorder/internal/config"
	"github.com/pucktrack/recorder/internal/storage/gormstore"
	"github.com/pucktrack/recorder/internal/storage/memory"
	"github.com/pucktrack/recorder/internal/storage/websocket"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		return gormstore.NewSQLite(cfg.SQLite, log)
	case "postgres":
		return gormstore.NewPostgres(cfg.DB, cfg.SQLite, log)
	case "websocket":
		return websocket.New(websocket.Config{
			URL:    cfg.WebSocket.URL,
			Secret: cfg.WebSocket.Secret,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
