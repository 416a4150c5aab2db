package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"cogsaver/core/savefile"
	"cogsaver/feature/autosave"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the live save and snapshot every settled write",
	Long: `Watches the live save file while you play. Every time the game finishes
writing, a snapshot lands in the saves/auto folder, so a bad choice is
never more than one restore away. Old snapshots are pruned past the
retention limit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		cat := openCatalog(cfg.Game, cfg.Database, logg)
		auto := autosave.NewService(cfg.Game, cat, logg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := auto.StartWatching(ctx); err != nil {
			if errors.Is(err, savefile.ErrNoGame) {
				logg.Error("No game selected. Run 'cogsaver select' with your game's save file first.")
			}
			return err
		}

		logg.Info("Watching live save",
			zap.String("file", cfg.Game.SaveLocation),
			zap.String("debounce", cfg.Game.Debounce().String()),
			zap.Int("keep", cfg.Game.AutosaveKeep),
		)

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		logg.Info("Stopping watcher...")
		auto.StopWatching()

		status := auto.Status()
		logg.Info("Watch session finished",
			zap.Int("writes_seen", status.WritesSeen),
			zap.Int("snapshots", status.SessionCount),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
