package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"subgen/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Database) == "" {
		return errors.New("paths.database must be set")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.ChunkBytes <= 0 {
		return errors.New("audio.chunk_bytes must be positive")
	}
	// PCM frames are two bytes wide; an odd chunk would split a sample.
	if c.Audio.ChunkBytes%2 != 0 {
		return fmt.Errorf("audio.chunk_bytes must be even, got %d", c.Audio.ChunkBytes)
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	switch c.Recognizer.Backend {
	case "websocket":
		parsed, err := url.Parse(c.Recognizer.URL)
		if err != nil {
			return fmt.Errorf("recognizer.url: %w", err)
		}
		if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
			return fmt.Errorf("recognizer.url must use ws or wss, got %q", c.Recognizer.URL)
		}
	case "native":
		if strings.TrimSpace(c.Recognizer.ModelPath) == "" {
			return errors.New("recognizer.model_path is required for the native backend")
		}
	default:
		return fmt.Errorf("recognizer.backend must be websocket or native, got %q", c.Recognizer.Backend)
	}
	if c.Recognizer.DialTimeoutSeconds <= 0 {
		return errors.New("recognizer.dial_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Provider {
	case "libretranslate":
	case "openai":
		if c.Translation.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = defaultConfigPath
			}
			return fmt.Errorf("translation.api_key is required for the openai provider. Set OPENAI_API_KEY env var or edit %s (create with 'subgen config init')", defaultPath)
		}
	default:
		return fmt.Errorf("translation.provider must be libretranslate or openai, got %q", c.Translation.Provider)
	}
	if _, err := url.ParseRequestURI(c.Translation.BaseURL); err != nil {
		return fmt.Errorf("translation.base_url: %w", err)
	}
	if c.Translation.TimeoutSeconds <= 0 {
		return errors.New("translation.timeout_seconds must be positive")
	}
	if _, err := language.Parse(c.Translation.DefaultTarget); err != nil {
		return fmt.Errorf("translation.default_target: %w", err)
	}
	if _, err := language.Parse(c.Translation.BatchTarget); err != nil {
		return fmt.Errorf("translation.batch_target: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
