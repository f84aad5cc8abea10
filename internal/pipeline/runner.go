package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"subgen/internal/audio"
	"subgen/internal/fileutil"
	"subgen/internal/language"
	"subgen/internal/logging"
	"subgen/internal/recognizer"
	"subgen/internal/services"
	"subgen/internal/store"
	"subgen/internal/subtitles"
	"subgen/internal/translate"
)

const (
	stageDecode    = "decode"
	stageRecognize = "recognize"
	stageAssemble  = "assemble"
	stageTranslate = "translate"
	stagePersist   = "persist"
)

// RecordAppender stores a completed run.
type RecordAppender interface {
	Append(ctx context.Context, rec store.Record) (int64, error)
}

// Options configures a Runner.
type Options struct {
	Logger     *slog.Logger
	Engine     recognizer.Engine
	Translator translate.Translator
	Store      RecordAppender
	// FFmpegBinary is used when a request asks for transcoding.
	FFmpegBinary string
	// ChunkBytes is the PCM chunk size fed to the recognizer.
	ChunkBytes int
}

// Runner executes requests. It is safe to reuse across runs but not to run
// concurrently with itself on the same output paths.
type Runner struct {
	logger       *slog.Logger
	engine       recognizer.Engine
	translator   translate.Translator
	store        RecordAppender
	ffmpegBinary string
	chunkBytes   int
}

// New constructs a Runner. An engine is required; a nil translator or store
// turns the corresponding step into a recorded failure.
func New(opts Options) (*Runner, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("%w: recognizer engine is required", services.ErrConfiguration)
	}
	chunk := opts.ChunkBytes
	if chunk <= 0 {
		chunk = audio.DefaultChunkBytes
	}
	return &Runner{
		logger:       logging.NewComponentLogger(opts.Logger, "pipeline"),
		engine:       opts.Engine,
		translator:   opts.Translator,
		store:        opts.Store,
		ffmpegBinary: opts.FFmpegBinary,
		chunkBytes:   chunk,
	}, nil
}

// Run processes req. It returns an error only when no transcript could be
// produced; in that case nothing is translated or written.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithInputPath(ctx, req.Path)
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	logger.Info(
		"run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("mode", req.Mode.String()),
		logging.String("source", req.Source.String()),
		logging.String("target", req.Target.Code()),
	)

	doc, err := r.transcribe(ctx, req)
	if err != nil {
		logging.ErrorWithContext(ctx, r.logger, "run failed", "run_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, failureHint(err)),
		)
		return nil, err
	}

	result := &Result{RunID: runID, Document: doc}
	original := doc.Render()

	translated, terr := r.translateDocument(ctx, original, req.Target)
	if terr != nil {
		result.TranslationErr = terr
		translated = ""
	}
	result.Translated = translated

	result.PersistenceErr = r.persist(ctx, req, result, original, translated)

	logger.Info(
		"run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("cues", len(doc.Cues)),
		logging.Float64("audio_seconds", doc.Duration()),
		logging.Duration("elapsed", time.Since(started)),
		logging.Bool("translated", result.TranslationErr == nil),
		logging.Bool("persisted", result.PersistenceErr == nil),
	)
	return result, nil
}

func (r *Runner) transcribe(ctx context.Context, req Request) (subtitles.Document, error) {
	decodeCtx := services.WithStage(ctx, stageDecode)
	src, err := audio.Open(decodeCtx, req.Source, req.Path, audio.OpenOptions{FFmpegBinary: r.ffmpegBinary})
	if err != nil {
		return subtitles.Document{}, err
	}
	defer src.Close()

	format := src.Format()
	logging.WithContext(decodeCtx, r.logger).Debug("audio opened", logging.String("format", format.String()))

	asm := subtitles.NewAssembler(req.Mode, format.BytesPerSecond())
	chunker := audio.NewChunker(src, r.chunkBytes)

	// The first chunk is read before a session exists so unreadable input
	// never reaches the recognizer.
	first, err := nextChunk(chunker)
	if errors.Is(err, io.EOF) {
		return asm.Document()
	}
	if err != nil {
		return subtitles.Document{}, err
	}

	recCtx := services.WithStage(ctx, stageRecognize)
	session, err := r.engine.NewSession(recCtx, format.SampleRate)
	if err != nil {
		return subtitles.Document{}, err
	}
	defer session.Close()

	chunks := 0
	for chunk := first; ; {
		if err := recCtx.Err(); err != nil {
			return subtitles.Document{}, err
		}
		asm.Consume(len(chunk))
		boundary, err := session.Feed(recCtx, chunk)
		if err != nil {
			return subtitles.Document{}, err
		}
		chunks++
		if boundary {
			final, err := session.Final()
			if err != nil {
				return subtitles.Document{}, err
			}
			asm.Add(final)
		} else if _, err := session.Partial(); err != nil {
			return subtitles.Document{}, err
		}

		chunk, err = nextChunk(chunker)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return subtitles.Document{}, err
		}
	}

	final, err := session.Flush(recCtx)
	if err != nil {
		return subtitles.Document{}, err
	}
	asm.Add(final)

	logging.WithContext(recCtx, r.logger).Debug(
		"recognition finished",
		logging.Int("chunks", chunks),
		logging.Int64("pcm_bytes", chunker.Consumed),
		logging.Int("cues", asm.Len()),
	)

	return asm.Document()
}

func nextChunk(c *audio.Chunker) ([]byte, error) {
	chunk, err := c.Next()
	if err == nil || errors.Is(err, io.EOF) {
		return chunk, err
	}
	if errors.Is(err, services.ErrDecode) || errors.Is(err, services.ErrFormat) {
		return nil, err
	}
	return nil, services.Wrap(services.ErrDecode, stageDecode, "read pcm", "", err)
}

func (r *Runner) translateDocument(ctx context.Context, text string, target language.Language) (string, error) {
	ctx = services.WithStage(ctx, stageTranslate)
	var err error
	var out string
	if r.translator == nil {
		err = services.Wrap(services.ErrTranslation, stageTranslate, "", "no translator configured", nil)
	} else {
		out, err = r.translator.Translate(ctx, text, target)
	}
	if err != nil {
		logging.WarnWithContext(ctx, r.logger, "translation failed", "translation_failed",
			logging.Error(err),
			logging.String("target", target.Code()),
			logging.String(logging.FieldErrorHint, "run `subgen status` to check the translation provider"),
			logging.String(logging.FieldImpact, "translated subtitle file will be empty"),
		)
		return "", err
	}
	return out, nil
}

func (r *Runner) persist(ctx context.Context, req Request, result *Result, original, translated string) error {
	ctx = services.WithStage(ctx, stagePersist)
	originalPath, translatedPath := OutputPaths(req)

	var errs []error
	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			errs = append(errs, fmt.Errorf("create output directory: %w", err))
		}
	}
	if err := fileutil.WriteFileAtomic(originalPath, []byte(original), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", originalPath, err))
	} else {
		result.OriginalPath = originalPath
	}
	if err := fileutil.WriteFileAtomic(translatedPath, []byte(translated), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", translatedPath, err))
	} else {
		result.TranslatedPath = translatedPath
	}

	if r.store == nil {
		errs = append(errs, errors.New("record store unavailable"))
	} else {
		id, err := r.store.Append(ctx, store.Record{
			AudioPath:  req.Path,
			Generated:  original,
			Translated: translated,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("append record: %w", err))
		} else {
			result.RecordID = id
		}
	}

	if len(errs) == 0 {
		return nil
	}
	err := services.Wrap(services.ErrPersistence, stagePersist, "", "", errors.Join(errs...))
	logging.WarnWithContext(ctx, r.logger, "persistence failed", "persistence_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check write permissions for the output directory and record store"),
		logging.String(logging.FieldImpact, "some outputs were not saved"),
	)
	return err
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrFormat):
		return "provide 16 kHz mono 16-bit PCM WAV, or use generate for other formats"
	case errors.Is(err, services.ErrDecode):
		return "check that ffmpeg is installed and the file is readable media"
	case errors.Is(err, services.ErrEmptyTranscript):
		return "the audio contained no recognizable speech"
	case errors.Is(err, services.ErrRecognizer):
		return "run `subgen status` to check the recognizer"
	default:
		return "check logs for details"
	}
}
