//go:build !vosk

package recognizer

import "log/slog"

// NativeAvailable reports whether the native Vosk backend is compiled in.
func NativeAvailable() bool { return false }

// NewNative returns ErrNativeUnavailable when the binary is built without the vosk tag.
func NewNative(modelPath string, logger *slog.Logger) (Engine, error) {
	return nil, ErrNativeUnavailable
}
