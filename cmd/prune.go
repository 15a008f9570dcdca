package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oxidrome/frecent/internal/history"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop history entries whose files no longer exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		before := ws.mgr.Master().Len()
		ws.mgr.Master().Walk(func(path string, _ *history.Entry) {
			ws.mgr.CheckPath(path)
		})
		ws.mgr.SaveNow(now())

		after := ws.mgr.Master().Len()
		cmd.Printf("pruned %d of %d entries\n", before-after, before)
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Close this workspace's window and forget its identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		ws.mgr.CloseWindow(ws.windowID)
		ws.registry.Forget(ws.root)
		return ws.registry.Save()
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(forgetCmd)
}
