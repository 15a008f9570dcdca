package cmd

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oxidrome/frecent/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Record visits from filesystem activity until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		dir := ws.root
		if len(args) == 1 {
			if dir, err = filepath.Abs(args[0]); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = watcher.Watch(ctx, dir, ws.windowID, ws.mgr, lg)

		// Persist whatever the countdown had not flushed yet.
		ws.mgr.SaveNow(now())
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
