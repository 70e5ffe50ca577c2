package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "mediashelf",
	Short: "Media library scanner and metadata catalog",
	Long: `mediashelf - media library scanner and metadata catalog

Scans library folders, infers series and episode numbering from
filenames, matches them against AniList, MyAnimeList, and TVDB,
and maintains a local catalog with artwork and thumbnails.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediashelf {{.Version}}\n")
}
