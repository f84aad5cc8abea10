package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subgen/internal/store"
	"subgen/internal/subtitles"
)

const previewWidth = 48

var historyColumns = []column{
	{header: "ID", align: alignRight},
	{header: "Audio File", maxWidth: 60},
	{header: "Cues", align: alignRight},
	{header: "Length", align: alignRight},
	{header: "Translated"},
	{header: "Preview"},
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored subtitle records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			records, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No subtitle records yet")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				inspection := subtitles.Inspect(rec.Generated)
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.AudioPath,
					strconv.Itoa(inspection.Cues),
					formatSeconds(inspection.Last),
					translatedLabel(rec.Translated),
					preview(inspection.Document.Text(), previewWidth),
				})
			}
			fmt.Fprintln(out, renderTable(historyColumns, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show (0 for all)")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			rec, err := st.Get(cmd.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("record #%d not found", id)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Record #%d\n", rec.ID)
			fmt.Fprintf(out, "Audio file: %s\n", rec.AudioPath)
			writeSection(out, "Generated subtitles", rec.Generated)
			writeSection(out, "Translated subtitles", rec.Translated)
			if !check {
				return nil
			}

			fmt.Fprintln(out)
			generated := subtitles.Inspect(rec.Generated)
			writeInspection(out, "Generated", generated)
			if !generated.OK() {
				return fmt.Errorf("record #%d: generated subtitles failed validation", id)
			}
			if strings.TrimSpace(rec.Translated) == "" {
				fmt.Fprintln(out, "Translated: empty (translation failed or was skipped)")
				return nil
			}
			writeInspection(out, "Translated", subtitles.Inspect(rec.Translated))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Validate the stored subtitle documents")
	return cmd
}

func writeSection(out io.Writer, title, body string) {
	fmt.Fprintf(out, "\n== %s ==\n", title)
	if strings.TrimSpace(body) == "" {
		fmt.Fprintln(out, "(empty)")
		return
	}
	fmt.Fprint(out, body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(out)
	}
}

func writeInspection(out io.Writer, label string, in subtitles.Inspection) {
	if in.OK() {
		fmt.Fprintf(out, "%s: ok (%d cues, %s mode, %s to %s)\n",
			label, in.Cues, in.Mode, formatSeconds(in.First), formatSeconds(in.Last))
		return
	}
	fmt.Fprintf(out, "%s: %d issue(s)\n", label, len(in.Issues))
	for _, issue := range in.Issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
}

func translatedLabel(text string) string {
	if strings.TrimSpace(text) == "" {
		return "no"
	}
	return "yes"
}

func formatSeconds(seconds float64) string {
	return subtitles.FormatTimestamp(seconds)
}

func preview(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}
