package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"subgen/internal/deps"
	"subgen/internal/recognizer"
	"subgen/internal/translate"
)

const (
	recognizerCheckTimeout = 5 * time.Second
	translatorCheckTimeout = 30 * time.Second
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFFmpeg reports whether generate can decode media. transcribe reads WAV
// without it, so a missing binary is an optional failure.
func CheckFFmpeg(ctx context.Context, binary string) Result {
	status := deps.CheckFFmpeg(ctx, binary)
	result := Result{Name: NameFFmpeg, Passed: status.Available, Optional: status.Optional, Detail: status.Detail}
	if !status.Available {
		result.Detail = fmt.Sprintf("%s (generate unavailable; transcribe still reads WAV)", status.Detail)
	}
	return result
}

// CheckRecognizer verifies the recognizer backend answers.
func CheckRecognizer(ctx context.Context, engine recognizer.Engine, endpoint string) Result {
	const name = NameRecognizer
	if engine == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	checker, ok := engine.(recognizer.Checker)
	if !ok {
		return Result{Name: name, Passed: true, Detail: endpoint + " (no health probe)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, recognizerCheckTimeout)
	defer cancel()
	if err := checker.Check(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", endpoint, summarizeError(err))}
	}
	return Result{Name: name, Passed: true, Detail: endpoint + " (reachable)"}
}

// CheckTranslator verifies the translation provider is reachable and accepts
// the configured credentials. It uses a single attempt.
func CheckTranslator(ctx context.Context, tr translate.Translator, provider string) Result {
	const name = NameTranslator
	if tr == nil {
		return Result{Name: name, Detail: "not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, translatorCheckTimeout)
	defer cancel()
	if err := tr.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", provider, summarizeError(err))}
	}
	return Result{Name: name, Passed: true, Detail: provider + " (reachable)"}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (unreachable)"
	}
	return err.Error()
}
