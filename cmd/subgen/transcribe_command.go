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

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var targetFlag string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "transcribe [path]",
		Short: "Transcribe a 16 kHz mono 16-bit WAV file into utterance subtitles and translate them",
		Long: "Read the wave file directly, write one subtitle block per utterance, and\n" +
			"translate the result to --target (default: translation.batch_target).\n" +
			"Any other sample format is rejected before recognition starts.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := ""
			if len(args) > 0 {
				path = strings.TrimSpace(args[0])
			}
			if path == "" {
				prompt := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if path, err = prompt.audioPath("Path to WAV file"); err != nil {
					return err
				}
			}

			code := strings.TrimSpace(targetFlag)
			if code == "" {
				code = cfg.Translation.BatchTarget
			}
			target, err := language.Parse(code)
			if err != nil {
				return err
			}

			runner, err := ctx.newRunner(cmd)
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context(), pipeline.Request{
				Path:      path,
				Mode:      subtitles.ModeUtterance,
				Source:    audio.ModeDirect,
				Target:    target,
				OutputDir: strings.TrimSpace(outputDir),
				Label:     pipeline.LabelTranscription,
			})
			if err != nil {
				return fmt.Errorf("transcribe %s: %w", path, err)
			}
			reportRun(cmd.OutOrStdout(), result, target, cfg.Paths.Database)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetFlag, "target", "t", "", "Translation language code (defaults to translation.batch_target)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for subtitle files (defaults to the audio file's directory)")
	return cmd
}
