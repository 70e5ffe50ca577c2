package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediashelf/pkg/mediafile"
)

// parseResult is the JSON-friendly output of the parse command.
type parseResult struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Season   *int     `json:"season,omitempty"`
	Episode  float64  `json:"episode"`
	Special  bool     `json:"special,omitempty"`
	Folder   string   `json:"folder,omitempty"`
	Part     *int     `json:"part,omitempty"`
	ID       string   `json:"id,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <filename>...",
	Short: "Parse filenames locally (no network needed)",
	Long: `Parse filenames locally (no network needed).

Shows the season, episode number, and cleaned title inferred from each
filename. With --folder, the folder name supplies season/part context
and the series identifier is printed too.

Examples:
  mediashelf parse "My Show S02E05.mkv"
  mediashelf parse --folder "My Show Season 2" "Episode 05.mkv"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().String("folder", "", "Parent folder name for season/part context")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	folder, _ := cmd.Flags().GetString("folder")
	results := parseFiles(args, folder)

	if jsonOutput {
		printJSON(results)
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s\n", r.Filename)
		fmt.Printf("  title:   %s\n", r.Title)
		if r.Season != nil {
			fmt.Printf("  season:  %d\n", *r.Season)
		}
		fmt.Printf("  episode: %s", mediafile.Number(r.Episode))
		if r.Special {
			fmt.Printf(" (special)")
		}
		fmt.Println()
		if r.ID != "" {
			fmt.Printf("  id:      %s\n", r.ID)
		}
	}
	return nil
}

// parseFiles tokenizes each filename, with the folder name supplying
// season/part context the filename itself lacks.
func parseFiles(names []string, folder string) []parseResult {
	var folderSeason, folderPart *int
	if folder != "" {
		folderSeason = mediafile.SeasonNumber(folder)
		folderPart = mediafile.PartNumber(folder)
	}

	results := make([]parseResult, 0, len(names))
	for _, name := range names {
		season, episode := mediafile.Tokenize(name)
		if season == nil {
			season = folderSeason
		}
		title := mediafile.CleanName(mediafile.StripExt(name))

		r := parseResult{
			Filename: name,
			Title:    title,
			Season:   season,
			Episode:  float64(episode),
			Special:  !episode.IsWhole(),
			Folder:   folder,
			Part:     folderPart,
		}
		if folder != "" {
			r.ID = mediafile.ID(title, folder, folderSeason, folderPart)
		}
		results = append(results, r)
	}
	return results
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
