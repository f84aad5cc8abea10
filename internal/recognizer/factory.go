package recognizer

import (
	"fmt"
	"log/slog"
	"time"

	"subgen/internal/config"
	"subgen/internal/services"
)

// New builds the engine selected by cfg.Recognizer.Backend.
func New(cfg *config.Config, logger *slog.Logger) (Engine, error) {
	switch cfg.Recognizer.Backend {
	case "", "websocket":
		return NewWebsocket(WebsocketOptions{
			URL:         cfg.Recognizer.URL,
			DialTimeout: time.Duration(cfg.Recognizer.DialTimeoutSeconds) * time.Second,
			Logger:      logger,
		}), nil
	case "native":
		return NewNative(cfg.Recognizer.ModelPath, logger)
	default:
		return nil, fmt.Errorf("%w: unknown recognizer backend %q", services.ErrConfiguration, cfg.Recognizer.Backend)
	}
}
