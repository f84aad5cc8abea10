//go:build vosk

package recognizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"

	"subgen/internal/logging"
	"subgen/internal/services"
)

// NativeAvailable reports whether the native Vosk backend is compiled in.
func NativeAvailable() bool { return true }

// NativeEngine runs Vosk in-process from a model directory.
type NativeEngine struct {
	mu     sync.Mutex
	model  *vosk.VoskModel
	path   string
	logger *slog.Logger
}

// NewNative loads the model at modelPath.
func NewNative(modelPath string, logger *slog.Logger) (Engine, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, services.Wrap(services.ErrRecognizer, "recognize", "load model", modelPath, err)
	}
	vosk.SetLogLevel(-1)
	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, services.Wrap(services.ErrRecognizer, "recognize", "load model", modelPath, err)
	}
	logger = logging.NewComponentLogger(logger, "recognizer")
	logger.Info("vosk model loaded", logging.String("model_path", modelPath))
	return &NativeEngine{model: model, path: modelPath, logger: logger}, nil
}

// NewSession creates a recognizer bound to the loaded model.
func (e *NativeEngine) NewSession(ctx context.Context, sampleRate int) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil, services.Wrap(services.ErrRecognizer, "recognize", "new session", "engine closed", nil)
	}
	rec, err := vosk.NewRecognizer(e.model, float64(sampleRate))
	if err != nil {
		return nil, services.Wrap(services.ErrRecognizer, "recognize", "new session", "", err)
	}
	rec.SetWords(1)
	return &nativeSession{rec: rec}, nil
}

// Check reports whether the model is still loaded.
func (e *NativeEngine) Check(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return fmt.Errorf("vosk model %s not loaded", e.path)
	}
	return nil
}

// Close frees the model.
func (e *NativeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}

type nativeSession struct {
	rec *vosk.VoskRecognizer
}

func (s *nativeSession) Feed(ctx context.Context, chunk []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, services.Wrap(services.ErrRecognizer, "recognize", "feed", "", err)
	}
	switch s.rec.AcceptWaveform(chunk) {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, services.Wrap(services.ErrRecognizer, "recognize", "feed", "vosk rejected waveform", nil)
	}
}

func (s *nativeSession) Partial() (Partial, error) {
	partial, _, _, err := decodeResult([]byte(s.rec.PartialResult()))
	if err != nil {
		return Partial{}, services.Wrap(services.ErrRecognizer, "recognize", "partial", "", err)
	}
	return partial, nil
}

func (s *nativeSession) Final() (Final, error) {
	final, err := decodeFinal([]byte(s.rec.Result()))
	if err != nil {
		return Final{}, services.Wrap(services.ErrRecognizer, "recognize", "final", "", err)
	}
	return final, nil
}

func (s *nativeSession) Flush(ctx context.Context) (Final, error) {
	final, err := decodeFinal([]byte(s.rec.FinalResult()))
	if err != nil {
		return Final{}, services.Wrap(services.ErrRecognizer, "recognize", "flush", "", err)
	}
	return final, nil
}

func (s *nativeSession) Close() error {
	if s.rec != nil {
		s.rec.Free()
		s.rec = nil
	}
	return nil
}
