package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subgen/internal/config"
	"subgen/internal/services"
	"subgen/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	vosk       *testsupport.VoskServer
	libre      *testsupport.LibreTranslateServer
}

func setupCLITestEnv(t *testing.T, script testsupport.VoskScript, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	env := &cliTestEnv{}
	env.vosk = testsupport.NewVoskServer(t, script)
	env.libre = testsupport.NewLibreTranslateServer(t, testsupport.Echo)
	opts = append([]testsupport.ConfigOption{
		testsupport.WithRecognizerURL(env.vosk.URL),
		testsupport.WithTranslationURL(env.libre.URL),
		// Pass the input through unchanged; generate inputs are raw PCM.
		testsupport.WithStubbedBinary("ffmpeg", `cat "$6"`),
	}, opts...)
	env.cfg = testsupport.NewConfig(t, opts...)
	env.cfg.Logging.Level = "error"
	env.baseDir = testsupport.BaseDir(env.cfg)

	homeDir := filepath.Join(env.baseDir, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env.configPath = filepath.Join(env.baseDir, "subgen.toml")
	writeTestConfig(t, env.configPath, env.cfg)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}

// requireStatusLine finds a status line with the given badge, label and detail.
func requireStatusLine(t *testing.T, output, badge, label, detail string) {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == badge && fields[1] == label && strings.Contains(line, detail) {
			return
		}
	}
	t.Fatalf("expected %s %s line containing %q, got:\n%s", badge, label, detail, output)
}

func helloScript() testsupport.VoskScript {
	return testsupport.VoskScript{
		Finals: map[int]string{
			1: testsupport.VoskFinal(testsupport.VoskWord{Word: "hello", Start: 0.5, End: 1.0, Conf: 1}),
		},
	}
}

func (env *cliTestEnv) writeMedia(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "media", name)
	testsupport.WriteFile(t, path, testsupport.PCM(8000))
	return path
}

func (env *cliTestEnv) writeWAV(t *testing.T, name string, spec testsupport.WAVSpec, pcmBytes int) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "media", name)
	testsupport.WriteWAV(t, path, spec, testsupport.PCM(pcmBytes))
	return path
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}

func TestGenerateWithLanguageFlag(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	input := env.writeMedia(t, "hello.mp3")

	out, _, err := env.run(t, "", "generate", input, "--language", "es")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	original := filepath.Join(filepath.Dir(input), "hello_subtitles.srt")
	translated := filepath.Join(filepath.Dir(input), "hello_subtitles_translated.srt")
	requireContains(t, out, "Subtitles saved to "+original)
	requireContains(t, out, "Translated subtitles (Spanish) saved to "+translated)
	requireContains(t, out, "Record #1 saved to")

	want := "1\n00:00:00,500 --> 00:00:01,000\nhello\n\n"
	if got := testsupport.ReadFile(t, original); got != want {
		t.Fatalf("original = %q, want %q", got, want)
	}
	if got := testsupport.ReadFile(t, translated); got != "[es] "+want {
		t.Fatalf("translated = %q", got)
	}
}

func TestGeneratePromptsForPathAndLanguage(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	input := env.writeMedia(t, "prompted.mkv")

	out, _, err := env.run(t, input+"\n3\n", "generate")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	requireContains(t, out, "Path to audio file: ")
	requireContains(t, out, "Select the subtitle translation language:")
	requireContains(t, out, "1) English [en] (default)")
	requireContains(t, out, "Translated subtitles (French)")

	reqs := env.libre.Requests()
	if len(reqs) != 1 || reqs[0].Target != "fr" {
		t.Fatalf("unexpected translation requests %#v", reqs)
	}
}

func TestGenerateLanguageMenuDefaultsOnEOF(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	input := env.writeMedia(t, "default.m4a")

	if _, _, err := env.run(t, "", "generate", input); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	reqs := env.libre.Requests()
	if len(reqs) != 1 || reqs[0].Target != "en" {
		t.Fatalf("expected default English target, got %#v", reqs)
	}
}

func TestGenerateMissingPathFails(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	_, _, err := env.run(t, "", "generate", "--language", "en")
	if err == nil || !strings.Contains(err.Error(), "no audio file path") {
		t.Fatalf("expected missing path error, got %v", err)
	}
}

func TestGenerateTranscodesMediaThroughFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	input := env.writeMedia(t, "clip.mp3")

	if _, _, err := env.run(t, "", "generate", input, "-l", "es"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if env.vosk.Sessions() != 1 || env.vosk.Frames() != 2 {
		t.Fatalf("expected one session with 2 frames, got %d sessions %d frames", env.vosk.Sessions(), env.vosk.Frames())
	}
	got := testsupport.ReadFile(t, filepath.Join(filepath.Dir(input), "clip_subtitles.srt"))
	if got != "1\n00:00:00,500 --> 00:00:01,000\nhello\n\n" {
		t.Fatalf("unexpected subtitles %q", got)
	}
}

func TestGenerateDecodeErrorExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.VoskScript{},
		testsupport.WithStubbedBinary("ffmpeg", `echo "moov atom not found" >&2; exit 1`))
	input := filepath.Join(env.baseDir, "media", "broken.m4a")
	testsupport.WriteFile(t, input, []byte("garbage"))

	_, _, err := env.run(t, "", "generate", input, "--language", "de")
	if !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("expected ffmpeg diagnostic in error, got %v", err)
	}
	if env.vosk.Sessions() != 0 {
		t.Fatal("expected recognizer to be untouched")
	}
	assertNoFile(t, filepath.Join(filepath.Dir(input), "broken_subtitles.srt"))
}

func TestTranscribeDefaultsToBatchTarget(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.VoskScript{Flush: testsupport.VoskText("good morning")})
	input := env.writeWAV(t, "talk.wav", testsupport.ConformingWAV, 16000)
	outDir := filepath.Join(env.baseDir, "subs")

	out, _, err := env.run(t, "", "transcribe", input, "--output", outDir)
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	original := filepath.Join(outDir, "talk_transcription.srt")
	translated := filepath.Join(outDir, "talk_transcription_translated.srt")
	requireContains(t, out, original)
	requireContains(t, out, translated)
	if got := testsupport.ReadFile(t, original); got != "0.000 --> 0.500\ngood morning\n\n" {
		t.Fatalf("unexpected transcription %q", got)
	}
	reqs := env.libre.Requests()
	if len(reqs) != 1 || reqs[0].Target != "es" {
		t.Fatalf("expected batch target es, got %#v", reqs)
	}

	out, _, err = env.run(t, "", "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, out, "good morning")
}

func TestTranscribeRejectsNonConformingWAV(t *testing.T) {
	cases := []struct {
		name string
		spec testsupport.WAVSpec
		want string
	}{
		{"stereo 44.1k", testsupport.WAVSpec{AudioFormat: 1, SampleRate: 44100, Channels: 2, BitsPerSample: 16}, "only mono supported"},
		{"8 kHz", testsupport.WAVSpec{AudioFormat: 1, SampleRate: 8000, Channels: 1, BitsPerSample: 16}, "only 16000 supported"},
		{"8 bit", testsupport.WAVSpec{AudioFormat: 1, SampleRate: 16000, Channels: 1, BitsPerSample: 8}, "only 16 supported"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupCLITestEnv(t, helloScript())
			input := env.writeWAV(t, "input.wav", tc.spec, 8000)

			out, _, err := env.run(t, "", "transcribe", input)
			if !errors.Is(err, services.ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected diagnostic %q, got %v", tc.want, err)
			}
			if env.vosk.Sessions() != 0 {
				t.Fatal("expected recognizer to be untouched")
			}
			if strings.Contains(out, "saved to") {
				t.Fatalf("unexpected success output:\n%s", out)
			}
			dir := filepath.Dir(input)
			assertNoFile(t, filepath.Join(dir, "input_transcription.srt"))
			assertNoFile(t, filepath.Join(dir, "input_transcription_translated.srt"))
		})
	}
}

func TestTranscribeRejectsNonWAVInput(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	input := env.writeMedia(t, "song.mp3")

	_, _, err := env.run(t, "", "transcribe", input, "-t", "fr")
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if env.vosk.Sessions() != 0 {
		t.Fatal("expected recognizer to be untouched")
	}
}

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t, helloScript())
	input := env.writeMedia(t, "history.ogg")
	if _, _, err := env.run(t, "", "generate", input, "-l", "it"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	out, _, err := env.run(t, "", "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, out, "Audio File")
	requireContains(t, out, "hello")
	requireContains(t, out, "yes")

	out, _, err = env.run(t, "", "history", "show", "1", "--check")
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}
	requireContains(t, out, "Record #1")
	requireContains(t, out, "Audio file: "+input)
	requireContains(t, out, "== Generated subtitles ==")
	requireContains(t, out, "Generated: ok (1 cues, word mode")

	if _, _, err := env.run(t, "", "history", "show", "99"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.VoskScript{})
	out, _, err := env.run(t, "", "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, out, "No subtitle records yet")
}

func TestStatusReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.VoskScript{},
		testsupport.WithStubbedBinary("ffmpeg", `echo "ffmpeg version 7.0"`))

	out, _, err := env.run(t, "", "status")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	requireContains(t, out, "\nChecks\n")
	requireStatusLine(t, out, "[OK]", "FFmpeg", "ffmpeg version 7.0")
	requireStatusLine(t, out, "[OK]", "Recognizer", "(reachable)")
	requireStatusLine(t, out, "[OK]", "generate", "ready")
	requireStatusLine(t, out, "[OK]", "transcribe", "ready")
	requireContains(t, out, "(0 records)")
	if strings.Contains(out, "\x1b[") {
		t.Fatal("expected no ANSI colors when stdout is not a terminal")
	}
}

func TestStatusFailsWhenTranslatorDown(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.VoskScript{},
		testsupport.WithStubbedBinary("ffmpeg", `echo "ffmpeg version 7.0"`),
		testsupport.WithTranslationURL("http://127.0.0.1:1"))

	out, _, err := env.run(t, "", "status")
	if err == nil {
		t.Fatal("expected status to fail")
	}
	requireStatusLine(t, out, "[ERROR]", "Translator", "libretranslate (error:")
	requireStatusLine(t, out, "[WARN]", "generate", "translations will be left empty")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.VoskScript{})
	target := filepath.Join(env.baseDir, "generated", "config.toml")

	out, _, err := env.run(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	if _, _, err := env.run(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = env.run(t, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Configuration valid")
}
