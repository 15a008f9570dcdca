package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxidrome/frecent/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a default config file and create the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := config.DataDir()
		if err != nil {
			return fmt.Errorf("resolving data directory: %w", err)
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		cfgPath, err := config.GlobalPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); err == nil {
			cmd.Printf("config already exists at %s\n", cfgPath)
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		defaults := config.Defaults()
		historyPath := filepath.Join(dataDir, "history.json")
		out := map[string]any{
			"show_file_preview": defaults.ShowFilePreview,
			"debug":             defaults.Debug,
			"max_entries":       defaults.MaxEntries,
			"history_path":      historyPath,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfgPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		cmd.Printf("wrote %s\n", cfgPath)
		cmd.Printf("history will live at %s\n", historyPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
