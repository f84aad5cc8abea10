package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subgen/internal/audio"
	"subgen/internal/language"
	"subgen/internal/pipeline"
	"subgen/internal/subtitles"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Create word-level subtitles for any audio or video file and translate them",
		Long: "Decode the input with ffmpeg, write one numbered subtitle per recognized word,\n" +
			"and translate the result to --language (prompted when omitted).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			prompt := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			path := ""
			if len(args) > 0 {
				path = strings.TrimSpace(args[0])
			}
			if path == "" {
				if path, err = prompt.audioPath("Path to audio file"); err != nil {
					return err
				}
			}

			fallback, err := language.Parse(cfg.Translation.DefaultTarget)
			if err != nil {
				return fmt.Errorf("translation.default_target: %w", err)
			}
			var target language.Language
			if strings.TrimSpace(languageFlag) != "" {
				if target, err = language.Parse(languageFlag); err != nil {
					return err
				}
			} else if target, err = prompt.chooseLanguage(fallback); err != nil {
				return err
			}

			runner, err := ctx.newRunner(cmd)
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context(), pipeline.Request{
				Path:      path,
				Mode:      subtitles.ModeWord,
				Source:    audio.ModeTranscode,
				Target:    target,
				OutputDir: strings.TrimSpace(outputDir),
				Label:     pipeline.LabelSubtitles,
			})
			if err != nil {
				return fmt.Errorf("generate subtitles for %s: %w", path, err)
			}
			reportRun(cmd.OutOrStdout(), result, target, cfg.Paths.Database)
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Translation language (en, es, fr, de, it)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for subtitle files (defaults to the audio file's directory)")
	return cmd
}
