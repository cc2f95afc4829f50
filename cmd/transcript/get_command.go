package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var plain bool
	var languages []string

	cmd := &cobra.Command{
		Use:   "get <videoId>",
		Short: "Fetch the best available transcript of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.languages = languages
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}

			result, err := svc.GetTranscript(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				return writeJSON(cmd, result)
			case plain:
				fmt.Fprintln(cmd.OutOrStdout(), result.FullText())
				return nil
			default:
				fmt.Fprintln(cmd.OutOrStdout(), renderSegments(result, shouldColorize(cmd.OutOrStdout())))
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the response payload as JSON")
	cmd.Flags().BoolVar(&plain, "text", false, "Print only the joined transcript text")
	cmd.Flags().StringSliceVarP(&languages, "lang", "l", nil, "Preferred language codes, in order")
	cmd.MarkFlagsMutuallyExclusive("json", "text")

	return cmd
}

func renderSegments(result *models.TranscriptResult, colorize bool) string {
	rows := make([][]string, 0, len(result.Segments))
	for _, s := range result.Segments {
		rows = append(rows, []string{
			formatTimestamp(s.Start),
			fmt.Sprintf("%.2fs", s.Duration),
			strings.TrimSpace(s.Text),
		})
	}

	origin := "manual"
	if result.Metadata.IsGenerated {
		origin = "generated"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s (%s), %d segments\n",
		result.Metadata.Language, origin, result.Metadata.SegmentCount)
	b.WriteString(renderTable([]string{"Start", "Duration", "Text"}, rows,
		[]columnAlignment{alignRight, alignRight, alignLeft}, colorize))
	return b.String()
}

// formatTimestamp renders seconds as [h:]mm:ss.cc
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int64(seconds*100 + 0.5)
	h := centis / 360000
	m := (centis / 6000) % 60
	s := (centis / 100) % 60
	cs := centis % 100
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
	}
	return fmt.Sprintf("%02d:%02d.%02d", m, s, cs)
}
