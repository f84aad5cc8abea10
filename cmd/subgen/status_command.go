package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subgen/internal/language"
	"subgen/internal/logging"
	"subgen/internal/preflight"
	"subgen/internal/recognizer"
	"subgen/internal/translate"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, ffmpeg, the recognizer and the translation provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.loggerFor(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			configSection := statusSection{title: "Configuration"}
			configPath := ctx.configPath
			if !ctx.configSeen {
				configPath += " (missing; defaults used)"
			}
			configSection.add(statusInfo, "Config file", configPath)
			configSection.add(statusInfo, "Recognizer backend", cfg.Recognizer.Backend)
			configSection.add(statusInfo, "Translation", cfg.Translation.Provider+" @ "+cfg.Translation.BaseURL)
			configSection.add(statusInfo, "Default targets", fmt.Sprintf("generate=%s transcribe=%s",
				language.DisplayName(cfg.Translation.DefaultTarget),
				language.DisplayName(cfg.Translation.BatchTarget)))

			engine, engineErr := recognizer.New(cfg, logger)
			if engineErr != nil {
				logger.Debug("recognizer unavailable", logging.Error(engineErr))
			} else {
				ctx.closers = append(ctx.closers, engine)
			}
			translator, trErr := translate.New(cfg, translate.WithRetryMaxAttempts(1))
			if trErr != nil {
				logger.Debug("translator unavailable", logging.Error(trErr))
			}

			checkSection := statusSection{title: "Checks"}
			results := preflight.RunAll(cmd.Context(), cfg, engine, translator)
			for _, result := range results {
				detail := result.Detail
				if result.Name == preflight.NameRecognizer && engineErr != nil {
					detail = engineErr.Error()
				}
				checkSection.add(checkKind(result), result.Name, detail)
			}

			recordSection := statusSection{title: "Records"}
			if st, err := ctx.openStore(); err != nil {
				recordSection.add(statusError, "Database", err.Error())
			} else if count, err := st.Count(cmd.Context()); err != nil {
				recordSection.add(statusError, "Database", err.Error())
			} else {
				recordSection.add(statusOK, "Database", st.Path()+" ("+strconv.Itoa(count)+" records)")
			}

			sections := []statusSection{
				configSection,
				checkSection,
				{title: "Commands", entries: commandReadiness(results)},
				recordSection,
			}
			fmt.Fprint(out, renderStatus(sections, shouldColorize(out)))
			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}
}

// commandReadiness derives whether generate and transcribe can run from the
// preflight results. generate needs ffmpeg and the recognizer; transcribe
// needs only the recognizer. Translator and directory failures degrade a run
// without blocking it.
func commandReadiness(results []preflight.Result) []statusEntry {
	var ffmpegOK, recognizerOK, translatorOK bool
	storageOK := true
	for _, r := range results {
		switch r.Name {
		case preflight.NameFFmpeg:
			ffmpegOK = r.Passed
		case preflight.NameRecognizer:
			recognizerOK = r.Passed
		case preflight.NameTranslator:
			translatorOK = r.Passed
		default:
			storageOK = storageOK && r.Passed
		}
	}

	readiness := func(label string, blocked string) statusEntry {
		switch {
		case blocked != "":
			return statusEntry{kind: statusError, label: label, detail: "blocked: " + blocked}
		case !translatorOK:
			return statusEntry{kind: statusWarn, label: label, detail: "ready; translations will be left empty"}
		case !storageOK:
			return statusEntry{kind: statusWarn, label: label, detail: "ready; outputs may not be saved"}
		default:
			return statusEntry{kind: statusOK, label: label, detail: "ready"}
		}
	}

	generateBlocked := ""
	switch {
	case !recognizerOK:
		generateBlocked = "recognizer unavailable"
	case !ffmpegOK:
		generateBlocked = "ffmpeg unavailable"
	}
	transcribeBlocked := ""
	if !recognizerOK {
		transcribeBlocked = "recognizer unavailable"
	}
	return []statusEntry{
		readiness("generate", generateBlocked),
		readiness("transcribe", transcribeBlocked),
	}
}
