package cmd

import (
	"errors"
	"fmt"
	"strings"

	"cogsaver/feature/slots"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deleteYes bool

// quicksaveCmd represents the quicksave command
var quicksaveCmd = &cobra.Command{
	Use:   "quicksave",
	Short: "Copy the live save into the quicksave slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildSlots(cfg.Game, cfg.Database, logg)
		path, err := svc.Quicksave(cmd.Context())
		if err != nil {
			return describeSlotError(logg, err)
		}

		logg.Info("Quicksaved", zap.String("file", path))
		return nil
	},
}

// quickloadCmd represents the quickload command
var quickloadCmd = &cobra.Command{
	Use:   "quickload",
	Short: "Copy the quicksave slot back over the live save",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildSlots(cfg.Game, cfg.Database, logg)
		if err := svc.Quickload(cmd.Context()); err != nil {
			if errors.Is(err, slots.ErrNoQuicksave) {
				logg.Warn("No quicksave found", zap.String("file", cfg.Game.QuicksavePath()))
			}
			return describeSlotError(logg, err)
		}

		logg.Info("Loaded", zap.String("file", cfg.Game.QuicksavePath()))
		return nil
	},
}

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Create a named permanent save from the live save",
	Long: `Copies the live save into the saves folder under the given label.
Without a label the name is suggested from the save's character, scene
and timestamp, the same way the interactive window does it.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildSlots(cfg.Game, cfg.Database, logg)
		save, err := svc.Create(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return describeSlotError(logg, err)
		}

		logg.Info("Saved", zap.String("file", save.Path))
		return nil
	},
}

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [save]",
	Short: "Restore a permanent save over the live save",
	Long: `Restores a save from the saves folder over the live save. The save can
be referenced by file name, by label, by catalog record id, or by path.
The live save is snapshotted before it is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildSlots(cfg.Game, cfg.Database, logg)
		src, err := svc.Restore(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, slots.ErrSaveNotFound) {
				logg.Error("No save matches", zap.String("ref", args[0]))
			}
			return describeSlotError(logg, err)
		}

		logg.Info("Loaded", zap.String("from", src))
		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List permanent saves, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildSlots(cfg.Game, cfg.Database, logg)
		saves, err := svc.List(cmd.Context())
		if err != nil {
			return describeSlotError(logg, err)
		}

		if len(saves) == 0 {
			fmt.Printf("No saves found in %s\n", cfg.Game.SavesPath())
			return nil
		}

		// Pretty Console Output
		fmt.Printf("\n=== Saves for %s ===\n", cfg.Game.Game())
		for _, s := range saves {
			marker := " "
			if s.Drifted {
				// Content changed since the catalog recorded it.
				marker = "*"
			}

			detail := s.Character
			if s.Scene != "" {
				if detail != "" {
					detail += ", "
				}
				detail += s.Scene
			}

			fmt.Printf("%s %-44s %8d  %s  %s\n",
				marker, s.FileName, s.Size, s.ModTime.Format("2006-01-02 15:04"), detail)
		}
		fmt.Printf("\nFound %d files.\n", len(saves))
		return nil
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [save]",
	Short: "Delete a permanent save and its catalog row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildSlots(cfg.Game, cfg.Database, logg)

		if !confirmDestructiveAction(deleteYes) {
			logg.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		path, err := svc.Delete(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, slots.ErrSaveNotFound) {
				logg.Error("No save matches", zap.String("ref", args[0]))
			}
			return describeSlotError(logg, err)
		}

		logg.Info("Deleted", zap.String("file", path))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(quicksaveCmd, quickloadCmd, saveCmd, loadCmd, listCmd, deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Auto-confirm deletion (non-interactive)")
}

// describeSlotError adds the selection hint to the no-game error so the
// command output tells the user what to do next.
func describeSlotError(logg *zap.Logger, err error) error {
	if errors.Is(err, slots.ErrNoGame) {
		logg.Error("No game selected. Run 'cogsaver select' with your game's save file first.")
	}
	return err
}
