package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"cogsaver/core/config"
	"cogsaver/core/logger"
	"cogsaver/core/savefile"
	"cogsaver/feature/slots"
	"cogsaver/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command. Called without a subcommand it opens
// the interactive save manager window.
var RootCmd = &cobra.Command{
	Use:   "cogsaver",
	Short: "Save manager for Choice of Games titles",
	Long: `CoG Saver manages save files for Choice of Games titles bought on Steam.
It adds quicksave, quickload and named save slots on top of the single
live save the games give you, and keeps a catalog of everything it copies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// runWindow starts the interactive terminal window. Bubble Tea owns the
// terminal, so services log into a no-op logger and the message pane is the
// user-facing channel instead.
func runWindow() error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg := zap.NewNop()

	rebuild := func(saveLocation string) (savefile.Config, *slots.Service, error) {
		path, err := filepath.Abs(saveLocation)
		if err != nil {
			return savefile.Config{}, nil, err
		}

		game := cfg.Game
		game.SaveLocation = path
		if err := savefile.Validate(path, game.StrictSuffix); err != nil {
			return savefile.Config{}, nil, err
		}

		// Persist so the next run starts with the same game.
		if err := config.SaveSelection(path); err != nil {
			return savefile.Config{}, nil, err
		}

		return game, buildSlots(game, cfg.Database, logg), nil
	}

	model := tui.New(tui.Deps{
		Cfg:     cfg.Game,
		Slots:   buildSlots(cfg.Game, cfg.Database, logg),
		Rebuild: rebuild,
		Logger:  logg,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
