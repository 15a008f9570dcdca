package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record <path>...",
	Short: "Record a visit to one or more files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		ts := now()
		for _, arg := range args {
			path, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", arg, err)
			}
			ws.mgr.RecordVisit(ws.windowID, path, ts)
		}

		// One-shot process: persist now rather than wait out the
		// save countdown.
		ws.mgr.SaveNow(ts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
}
