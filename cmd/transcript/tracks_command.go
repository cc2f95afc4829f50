package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tracks <videoId>",
		Short: "List the caption tracks of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}

			listing, err := svc.ListTracks(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, listing)
			}
			if len(listing.Manual)+len(listing.Generated) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No caption tracks")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTracks(listing, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")

	return cmd
}

func renderTracks(listing *models.CatalogResponse, colorize bool) string {
	rows := make([][]string, 0, len(listing.Manual)+len(listing.Generated))
	add := func(tracks []models.CaptionTrack, origin string) {
		for _, t := range tracks {
			translatable := "no"
			if t.Translatable {
				translatable = "yes"
			}
			rows = append(rows, []string{t.LanguageCode, languageName(t), origin, translatable})
		}
	}
	add(listing.Manual, "manual")
	add(listing.Generated, "generated")

	return renderTable([]string{"Code", "Language", "Origin", "Translatable"}, rows, nil, colorize)
}

// languageName prefers the provider's display name and falls back to the
// English name of the BCP 47 tag
func languageName(t models.CaptionTrack) string {
	if name := strings.TrimSpace(t.Language); name != "" {
		return name
	}
	tag, err := language.Parse(t.LanguageCode)
	if err != nil {
		return t.LanguageCode
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return t.LanguageCode
}
