package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediashelf/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.toml",
	Long: `Write a starter config.toml.

Writes the commented default configuration to the current directory
(or --path) for editing. With --roots, writes a fully populated config
with the given library roots instead, ready to scan. Refuses to
overwrite an existing file unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("path", "config.toml", "Where to write the config")
	initCmd.Flags().StringSlice("roots", nil, "Library roots to configure")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	roots, _ := cmd.Flags().GetStringSlice("roots")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if len(roots) > 0 {
		cfg := config.Default()
		cfg.Scan.Roots = roots
		if err := cfg.Write(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote %s with %d library root(s).\n", path, len(roots))
		return nil
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s. Edit scan.roots before the first scan.\n", path)
	return nil
}
