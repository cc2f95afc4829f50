package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(newResolver resolverFactory) *cobra.Command {
	var configFlag string
	var providerFlag string
	var verboseFlag bool

	ctx := newCommandContext(&configFlag, &providerFlag, &verboseFlag, newResolver)

	rootCmd := &cobra.Command{
		Use:           "transcript",
		Short:         "Fetch video transcripts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Caption provider (innertube or ytdlp)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log provider calls to stderr")

	rootCmd.AddCommand(newGetCommand(ctx))
	rootCmd.AddCommand(newTracksCommand(ctx))

	return rootCmd
}
