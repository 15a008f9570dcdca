package cmd

import (
	"errors"
	"os"
	"os/exec"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/oxidrome/frecent/internal/tui"
	"github.com/oxidrome/frecent/internal/window"
)

var (
	pickMaster bool
	pickFilter string
	pickOpen   bool
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively choose a recent file",
	Long: `Pick shows the ranked recent-files panel. Enter prints the chosen path
(or opens it in $EDITOR with --open); Esc cancels without touching the
history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return errors.New("pick needs an interactive terminal")
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		filter, ok := window.ParseFilter(pickFilter)
		if !ok {
			lg.Debugf("got unexpected filter %q, using %q", pickFilter, filter)
		}
		scope := window.ScopeWindow
		if pickMaster {
			scope = window.ScopeMaster
		}

		ts := now()
		entries := ws.mgr.ListForPanel(ws.windowID, scope, filter, ts)

		choice, err := tui.Run(ws.mgr, entries, []string{ws.root}, cfg.ShowFilePreview, ts)
		if err != nil {
			return err
		}
		if choice == "" {
			// Cancelled, or the selection no longer exists.
			return nil
		}

		// Choosing a file is visiting it.
		ts = now()
		ws.mgr.RecordVisit(ws.windowID, choice, ts)
		ws.mgr.SaveNow(ts)

		if pickOpen {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				return errors.New("--open needs $EDITOR to be set")
			}
			open := exec.Command(editor, choice)
			open.Stdin = os.Stdin
			open.Stdout = os.Stdout
			open.Stderr = os.Stderr
			return open.Run()
		}

		cmd.Println(choice)
		return nil
	},
}

func init() {
	pickCmd.Flags().BoolVar(&pickMaster, "master", false, "pick from the full cross-window history")
	pickCmd.Flags().StringVar(&pickFilter, "filter", "both", "filter by open status: opened, closed, or both")
	pickCmd.Flags().BoolVar(&pickOpen, "open", false, "open the chosen file in $EDITOR instead of printing it")
	rootCmd.AddCommand(pickCmd)
}
