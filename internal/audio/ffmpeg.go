package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"subgen/internal/services"
)

const stderrLimit = 4096

// TranscodeOptions configures a Transcoder.
type TranscodeOptions struct {
	Binary string
	Path   string
}

// Transcoder streams PCM decoded by an ffmpeg subprocess.
type Transcoder struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer
	path   string

	mu      sync.Mutex
	waited  bool
	waitErr error
}

// Transcode starts ffmpeg converting opts.Path to 16 kHz mono s16le on stdout.
// The subprocess is bound to ctx; Close must be called to reap it.
func Transcode(ctx context.Context, opts TranscodeOptions) (*Transcoder, error) {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", opts.Path,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "s16le",
		"-",
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stderr := &tailBuffer{limit: stderrLimit}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "audio", "ffmpeg pipe", "", err)
	}
	if err := cmd.Start(); err != nil {
		hint := ""
		if errors.Is(err, exec.ErrNotFound) {
			hint = fmt.Sprintf("decoder %q not found; install ffmpeg or set audio.ffmpeg_binary", binary)
		}
		return nil, services.Wrap(services.ErrDecode, "audio", "start ffmpeg", hint, err)
	}
	return &Transcoder{cmd: cmd, stdout: stdout, stderr: stderr, path: opts.Path}, nil
}

// Read reads decoded PCM. At end of stream the subprocess is reaped and a
// non-zero exit is reported as services.ErrDecode instead of io.EOF.
func (t *Transcoder) Read(p []byte) (int, error) {
	n, err := t.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		if waitErr := t.wait(); waitErr != nil {
			return n, t.decodeError(waitErr)
		}
	}
	return n, err
}

// Format returns the PCM format ffmpeg was asked to produce.
func (t *Transcoder) Format() Format {
	return Required
}

// Close stops the subprocess if it is still running and waits for it. Calling
// Close more than once is safe.
func (t *Transcoder) Close() error {
	t.mu.Lock()
	waited := t.waited
	t.mu.Unlock()
	if !waited && t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	_ = t.wait()
	return nil
}

func (t *Transcoder) wait() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.waited {
		return t.waitErr
	}
	t.waited = true
	t.waitErr = t.cmd.Wait()
	return t.waitErr
}

func (t *Transcoder) decodeError(err error) error {
	detail := strings.TrimSpace(t.stderr.String())
	if detail == "" {
		detail = fmt.Sprintf("decoding %s failed", t.path)
	}
	return services.Wrap(services.ErrDecode, "audio", "ffmpeg", detail, err)
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Write(p)
	if over := b.buf.Len() - b.limit; over > 0 {
		b.buf.Next(over)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
