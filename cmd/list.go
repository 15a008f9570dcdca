package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oxidrome/frecent/internal/tui"
	"github.com/oxidrome/frecent/internal/window"
)

var (
	listMaster bool
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the ranked recent-files listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		filter, ok := window.ParseFilter(listFilter)
		if !ok {
			lg.Debugf("got unexpected filter %q, using %q", listFilter, filter)
		}
		scope := window.ScopeWindow
		if listMaster {
			scope = window.ScopeMaster
		}

		ts := now()
		entries := ws.mgr.ListForPanel(ws.windowID, scope, filter, ts)
		folders := []string{ws.root}
		for _, pe := range entries {
			cmd.Printf("%s %s\n", tui.Symbol(pe.IsOpen, pe.WithinFolders), tui.ShortenPath(pe.Path, folders))
			cmd.Printf("    %s\n", tui.Subtitle(pe.Entry, pe.ScoreFrac, ts))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listMaster, "master", false, "list the full cross-window history")
	listCmd.Flags().StringVar(&listFilter, "filter", "both", "filter by open status: opened, closed, or both")
	rootCmd.AddCommand(listCmd)
}
