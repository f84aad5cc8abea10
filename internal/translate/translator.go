package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"subgen/internal/config"
	"subgen/internal/language"
	"subgen/internal/services"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 4
)

// Translator translates a whole subtitle document.
type Translator interface {
	Translate(ctx context.Context, text string, target language.Language) (string, error)
	HealthCheck(ctx context.Context) error
}

type options struct {
	httpClient       *http.Client
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes a provider client.
type Option func(*options)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default attempt count (defaults to 4).
func WithRetryMaxAttempts(attempts int) Option {
	return func(o *options) {
		o.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(o *options) {
		o.retryBaseDelay = baseDelay
		o.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(o *options) {
		o.sleeper = sleeper
	}
}

func newOptions(timeoutSeconds int, opts []Option) options {
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	o := options{
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the provider selected by cfg.Translation.Provider.
func New(cfg *config.Config, opts ...Option) (Translator, error) {
	t := cfg.Translation
	switch strings.ToLower(strings.TrimSpace(t.Provider)) {
	case "", "libretranslate":
		return NewLibreTranslate(LibreTranslateConfig{
			BaseURL:        t.BaseURL,
			APIKey:         t.APIKey,
			TimeoutSeconds: t.TimeoutSeconds,
		}, opts...), nil
	case "openai":
		return NewOpenAI(OpenAIConfig{
			BaseURL:        t.BaseURL,
			APIKey:         t.APIKey,
			Model:          t.Model,
			TimeoutSeconds: t.TimeoutSeconds,
		}, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown translation provider %q", services.ErrConfiguration, t.Provider)
	}
}

func checkTarget(provider string, target language.Language) error {
	if !target.Valid() {
		return services.Wrap(services.ErrTranslation, "translate", provider, fmt.Sprintf("unsupported target language %d", int(target)), nil)
	}
	return nil
}
