package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediashelf/internal/metadata"
	"github.com/vmunix/mediashelf/internal/store"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Show the persisted catalog",
	Long: `Show the persisted catalog.

Lists every series in the catalog with its provider, episode totals,
and how many episodes are backed by local files.`,
	Args: cobra.NoArgs,
	RunE: runLibraryCmd,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.Flags().Bool("episodes", false, "List episodes per series")
}

func runLibraryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	showEpisodes, _ := cmd.Flags().GetBool("episodes")

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Load(context.Background())
	if err != nil {
		return err
	}

	list := make([]*metadata.SeriesRecord, 0, len(records))
	for _, rec := range records {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })

	if jsonOutput {
		printJSON(list)
		return nil
	}

	if len(list) == 0 {
		fmt.Println("Catalog is empty. Run 'mediashelf scan' first.")
		return nil
	}

	for _, rec := range list {
		source := rec.Provider
		if source == "" {
			source = "local"
		}
		fmt.Printf("%-40s %-12s %d/%d episodes\n",
			rec.Title, source, rec.FileEpisodeCount(), len(rec.Episodes))
		if !showEpisodes {
			continue
		}
		for _, ep := range rec.Episodes {
			marker := " "
			if ep.Downloaded() {
				marker = "*"
			}
			if ep.Season != nil {
				fmt.Printf("  %s S%02dE%-5s %s\n", marker, *ep.Season, ep.Number, ep.Title)
			} else {
				fmt.Printf("  %s E%-8s %s\n", marker, ep.Number, ep.Title)
			}
		}
	}
	return nil
}
