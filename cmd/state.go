package cmd

import (
	"errors"
	"fmt"

	"cogsaver/core/savefile"
	"cogsaver/feature/statefield"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for state set
	setForceString bool
	setCreatePath  bool
)

// stateCmd is the parent command for live save state operations.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and edit fields of the live save state",
	Long: `Reads and edits the JSON state embedded in the live save file. Paths
address nested fields with dots, e.g. stats.name or temps.choice_darkness.
Every edit snapshots the live save first, so a bad edit can be undone by
loading the latest autosave.`,
}

// stateShowCmd represents the state show command
var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the character summary and the stats table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildStateEditor(cfg.Game, cfg.Database, logg)
		view, err := svc.Show(cmd.Context())
		if err != nil {
			return describeStateError(logg, err)
		}

		// Pretty Console Output
		fmt.Println("\n--- Save State ---")
		fmt.Printf("Character:  %s\n", view.Character)
		fmt.Printf("Scene:      %s\n", view.Scene)
		fmt.Printf("Line:       %d\n", view.Line)
		if view.Version != "" {
			fmt.Printf("Version:    %s\n", view.Version)
		}
		fmt.Println("------------------")
		for _, f := range view.Fields {
			fmt.Printf("%-32s %-8s %s\n", f.Path, f.Type, f.Value)
		}
		return nil
	},
}

// stateGetCmd represents the state get command
var stateGetCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Print the value of one state field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildStateEditor(cfg.Game, cfg.Database, logg)
		field, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, statefield.ErrFieldNotFound) {
				logg.Error("No such field", zap.String("path", args[0]))
			}
			return describeStateError(logg, err)
		}

		fmt.Println(field.Value)
		return nil
	},
}

// stateSetCmd represents the state set command
var stateSetCmd = &cobra.Command{
	Use:   "set [path] [value]",
	Short: "Set one state field in the live save",
	Long: `Writes a value into the live save state. Numbers and booleans are
stored typed; use --string to force text. Unknown paths are rejected
unless --create is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildStateEditor(cfg.Game, cfg.Database, logg)
		field, err := svc.Set(cmd.Context(), args[0], args[1], statefield.SetOptions{
			ForceString: setForceString,
			Create:      setCreatePath,
		})
		if err != nil {
			if errors.Is(err, statefield.ErrFieldNotFound) {
				logg.Error("No such field. Use --create to add it.", zap.String("path", args[0]))
			}
			return describeStateError(logg, err)
		}

		logg.Info("Field set",
			zap.String("path", field.Path),
			zap.String("type", field.Type),
			zap.String("value", field.Value),
		)
		return nil
	},
}

// stateUnsetCmd represents the state unset command
var stateUnsetCmd = &cobra.Command{
	Use:   "unset [path]",
	Short: "Remove one state field from the live save",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}

		svc := buildStateEditor(cfg.Game, cfg.Database, logg)
		if err := svc.Unset(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, statefield.ErrFieldNotFound) {
				logg.Error("No such field", zap.String("path", args[0]))
			}
			return describeStateError(logg, err)
		}

		logg.Info("Field removed", zap.String("path", args[0]))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd, stateGetCmd, stateSetCmd, stateUnsetCmd)

	stateSetCmd.Flags().BoolVar(&setForceString, "string", false, "Store the value as text without scalar coercion")
	stateSetCmd.Flags().BoolVar(&setCreatePath, "create", false, "Create the path if it does not exist")
}

// describeStateError adds the selection hint to the no-game error.
func describeStateError(logg *zap.Logger, err error) error {
	if errors.Is(err, savefile.ErrNoGame) {
		logg.Error("No game selected. Run 'cogsaver select' with your game's save file first.")
	}
	return err
}
