package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxidrome/frecent/internal/config"
	"github.com/oxidrome/frecent/internal/history"
	"github.com/oxidrome/frecent/internal/host"
	"github.com/oxidrome/frecent/internal/logging"
	"github.com/oxidrome/frecent/internal/window"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// lg is the shared debug logger, built from the merged config.
var lg *logging.Logger

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "frecent",
	Short: "Track recently viewed files and rank them by frecency",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		if debugFlag {
			cfg.Debug = true
		}
		lg = logging.New(cfg.Debug)

		if cfg.HistoryPath == "" {
			dir, err := config.DataDir()
			if err != nil {
				return fmt.Errorf("resolving data directory: %w", err)
			}
			cfg.HistoryPath = filepath.Join(dir, "history.json")
		}
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// workspace bundles everything a command needs to act on the current
// working directory's window.
type workspace struct {
	mgr      *window.Manager
	windowID string
	root     string
	registry *host.Registry
}

// openWorkspace loads the master history and opens the window for the
// current working directory: folders are the workspace root, open paths
// come from editor state found on the machine.
func openWorkspace() (*workspace, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	registry := host.OpenRegistry(filepath.Join(dataDir, "windows.json"))
	id := registry.WindowID(root)
	if err := registry.Save(); err != nil {
		lg.Debugf("could not save window registry: %v", err)
	}

	master := history.Load(cfg.HistoryPath, lg)

	tabs := host.OpenTabs(root)
	local := host.NewLocal()
	local.AddWindow(id, []string{root}, tabs)

	mgr := window.NewManager(master, local, cfg, lg)
	mgr.OpenWindow(id, []string{root}, tabs, now())

	return &workspace{mgr: mgr, windowID: id, root: root, registry: registry}, nil
}

func now() int64 {
	return time.Now().Unix()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable verbose logging")
}
