package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	if err := c.normalizeRecognizer(); err != nil {
		return err
	}
	c.normalizeTranslation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabase
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Audio.ChunkBytes == 0 {
		c.Audio.ChunkBytes = defaultChunkBytes
	}
}

func (c *Config) normalizeRecognizer() error {
	c.Recognizer.Backend = strings.ToLower(strings.TrimSpace(c.Recognizer.Backend))
	if c.Recognizer.Backend == "" {
		c.Recognizer.Backend = defaultRecognizerBackend
	}
	if value, ok := os.LookupEnv("SUBGEN_VOSK_URL"); ok && strings.TrimSpace(value) != "" {
		c.Recognizer.URL = value
	}
	c.Recognizer.URL = strings.TrimSpace(c.Recognizer.URL)
	if c.Recognizer.URL == "" {
		c.Recognizer.URL = defaultRecognizerURL
	}
	if strings.TrimSpace(c.Recognizer.ModelPath) == "" {
		c.Recognizer.ModelPath = defaultModelPath
	}
	var err error
	if c.Recognizer.ModelPath, err = expandPath(c.Recognizer.ModelPath); err != nil {
		return fmt.Errorf("recognizer.model_path: %w", err)
	}
	if c.Recognizer.DialTimeoutSeconds == 0 {
		c.Recognizer.DialTimeoutSeconds = defaultDialTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeTranslation() {
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	if c.Translation.Provider == "" {
		c.Translation.Provider = defaultTranslationProvider
	}

	if c.Translation.APIKey == "" {
		for _, key := range c.apiKeyEnvVars() {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.Translation.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}

	c.Translation.BaseURL = strings.TrimRight(strings.TrimSpace(c.Translation.BaseURL), "/")
	if c.Translation.BaseURL == "" {
		switch c.Translation.Provider {
		case "openai":
			c.Translation.BaseURL = defaultOpenAIBaseURL
		default:
			c.Translation.BaseURL = defaultLibreTranslateBaseURL
		}
	}
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" && c.Translation.Provider == "openai" {
		c.Translation.Model = defaultOpenAIModel
	}
	if c.Translation.TimeoutSeconds == 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
	c.Translation.DefaultTarget = strings.ToLower(strings.TrimSpace(c.Translation.DefaultTarget))
	if c.Translation.DefaultTarget == "" {
		c.Translation.DefaultTarget = defaultTranslationTarget
	}
	c.Translation.BatchTarget = strings.ToLower(strings.TrimSpace(c.Translation.BatchTarget))
	if c.Translation.BatchTarget == "" {
		c.Translation.BatchTarget = defaultBatchTranslationTarget
	}
}

// apiKeyEnvVars lists the environment variables consulted for the translation
// API key, most specific first.
func (c *Config) apiKeyEnvVars() []string {
	keys := []string{"SUBGEN_TRANSLATE_API_KEY"}
	switch c.Translation.Provider {
	case "openai":
		keys = append(keys, "OPENAI_API_KEY")
	default:
		keys = append(keys, "LIBRETRANSLATE_API_KEY")
	}
	return keys
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console", "text", "pretty":
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
