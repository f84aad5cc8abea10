package main

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subgen/internal/config"
	"subgen/internal/logging"
	"subgen/internal/pipeline"
	"subgen/internal/recognizer"
	"subgen/internal/store"
	"subgen/internal/translate"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	logger  *slog.Logger
	closers []io.Closer
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// loggerFor builds the process logger on first use. Logs go to the command's
// stderr so stdout stays reserved for results.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closer)
	c.logger = logger
	return logger, nil
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Paths.Database)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, st)
	return st, nil
}

// newRunner wires the recognizer, translator and record store into a pipeline.
func (c *commandContext) newRunner(cmd *cobra.Command) (*pipeline.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.loggerFor(cmd)
	if err != nil {
		return nil, err
	}
	engine, err := recognizer.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, engine)

	translator, err := translate.New(cfg)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		Logger:       logger,
		Engine:       engine,
		Translator:   translator,
		FFmpegBinary: cfg.FFmpegBinary(),
		ChunkBytes:   cfg.Audio.ChunkBytes,
	}
	// A store that cannot open degrades to a persistence warning on the run.
	if st, err := c.openStore(); err != nil {
		logging.WarnWithContext(cmd.Context(), logger, "record store unavailable", "store_unavailable",
			logging.Error(err),
			logging.String("database", cfg.Paths.Database),
			logging.String(logging.FieldImpact, "this run will not be recorded in history"),
		)
	} else {
		opts.Store = st
	}
	return pipeline.New(opts)
}

func (c *commandContext) close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
