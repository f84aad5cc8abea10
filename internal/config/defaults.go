package config

const (
	defaultConfigPath             = "~/.config/subgen/config.toml"
	defaultDataDir                = "~/.local/share/subgen"
	defaultLogDir                 = "~/.local/share/subgen/logs"
	defaultDatabase               = "~/.local/share/subgen/subtitles.db"
	defaultFFmpegBinary           = "ffmpeg"
	defaultChunkBytes             = 4000
	defaultRecognizerBackend      = "websocket"
	defaultRecognizerURL          = "ws://127.0.0.1:2700"
	defaultModelPath              = "~/.local/share/subgen/models/vosk-model-small-en-us-0.15"
	defaultDialTimeoutSeconds     = 10
	defaultTranslationProvider    = "libretranslate"
	defaultLibreTranslateBaseURL  = "http://127.0.0.1:5000"
	defaultOpenAIBaseURL          = "https://api.openai.com/v1"
	defaultOpenAIModel            = "gpt-4o-mini"
	defaultTranslationTimeout     = 60
	defaultTranslationTarget      = "en"
	defaultBatchTranslationTarget = "es"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			Database: defaultDatabase,
		},
		Audio: Audio{
			FFmpegBinary: defaultFFmpegBinary,
			ChunkBytes:   defaultChunkBytes,
		},
		Recognizer: Recognizer{
			Backend:            defaultRecognizerBackend,
			URL:                defaultRecognizerURL,
			ModelPath:          defaultModelPath,
			DialTimeoutSeconds: defaultDialTimeoutSeconds,
		},
		Translation: Translation{
			Provider:       defaultTranslationProvider,
			TimeoutSeconds: defaultTranslationTimeout,
			DefaultTarget:  defaultTranslationTarget,
			BatchTarget:    defaultBatchTranslationTarget,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
