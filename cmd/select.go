package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"cogsaver/core/config"
	"cogsaver/core/savefile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select [path]",
	Short: "Select the game's live save file",
	Long: `Selects the live save file of the game to manage. The file is the one
named storePS<gamename>PSstate, usually found in
Steam/userdata/<yourSteamID#>/<SteamGame#>/remote.

The selection is persisted, so every later command and the interactive
window start with the same game.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		if err := savefile.Validate(path, cfg.Game.StrictSuffix); err != nil {
			if errors.Is(err, savefile.ErrNotPSState) {
				logg.Error("Not a live save file", zap.String("hint", savefile.SelectHint))
				logg.Error(`The file selected MUST be the one that ends with "PSstate" only!`)
			}
			return err
		}

		if err := config.SaveSelection(path); err != nil {
			return fmt.Errorf("failed to persist selection: %w", err)
		}

		game := cfg.Game
		game.SaveLocation = path

		logg.Info("Selected", zap.String("file", path), zap.String("game", game.Game()))
		logg.Info("Custom saves directory", zap.String("dir", game.SavesPath()))
		logg.Info("Quicksave file", zap.String("file", game.QuicksavePath()))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(selectCmd)
}
