package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"subgen/internal/language"
	"subgen/internal/services"
)

const providerLibreTranslate = "libretranslate"

// LibreTranslateConfig captures the settings for a LibreTranslate server.
type LibreTranslateConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// LibreTranslate translates through the LibreTranslate REST API.
type LibreTranslate struct {
	cfg  LibreTranslateConfig
	opts options
}

// NewLibreTranslate constructs a LibreTranslate client.
func NewLibreTranslate(cfg LibreTranslateConfig, opts ...Option) *LibreTranslate {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return &LibreTranslate{cfg: cfg, opts: newOptions(cfg.TimeoutSeconds, opts)}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText *string `json:"translatedText"`
	Error          string  `json:"error"`
}

// Translate sends text to /translate with automatic source detection.
func (c *LibreTranslate) Translate(ctx context.Context, text string, target language.Language) (string, error) {
	if err := checkTarget(providerLibreTranslate, target); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	payload, err := json.Marshal(libreRequest{
		Q:      text,
		Source: "auto",
		Target: target.Code(),
		Format: "text",
		APIKey: c.cfg.APIKey,
	})
	if err != nil {
		return "", services.Wrap(services.ErrTranslation, "translate", providerLibreTranslate, "encode request", err)
	}
	out, err := c.opts.withRetry(ctx, "libretranslate request", func(ctx context.Context) (string, error) {
		return c.translateOnce(ctx, payload)
	})
	if err != nil {
		return "", services.Wrap(services.ErrTranslation, "translate", providerLibreTranslate, "translate to "+target.Code(), err)
	}
	return out, nil
}

func (c *LibreTranslate) translateOnce(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	var decoded libreResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("api error: %s", strings.TrimSpace(decoded.Error))
	}
	if decoded.TranslatedText == nil {
		return "", fmt.Errorf("response missing translatedText")
	}
	return *decoded.TranslatedText, nil
}

// HealthCheck lists the server's languages to confirm it is reachable.
func (c *LibreTranslate) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/languages", nil)
	if err != nil {
		return services.Wrap(services.ErrTranslation, "status", providerLibreTranslate, "new request", err)
	}
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req)
	if err != nil {
		return services.Wrap(services.ErrTranslation, "status", providerLibreTranslate, "list languages", err)
	}
	var langs []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &langs); err != nil {
		return services.Wrap(services.ErrTranslation, "status", providerLibreTranslate, "decode languages", err)
	}
	if len(langs) == 0 {
		return services.Wrap(services.ErrTranslation, "status", providerLibreTranslate, "server reports no languages", nil)
	}
	return nil
}

func (c *LibreTranslate) do(req *http.Request) ([]byte, error) {
	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error (timeout=%s): %w", c.opts.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return body, nil
}
