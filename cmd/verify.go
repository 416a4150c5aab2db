package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/autosave"
	"cogsaver/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Perform integrity checks on the slot layout and the saves",
	Long:  `Checks that the slot folders exist, that every save still parses as a CoG state, and that the catalog and the vault are reachable.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runVerifyChecks(cmd.Context(), false, false, false, false)
	},
}

// structureCmd represents the verify structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the slot folder layout",
	Run: func(cmd *cobra.Command, args []string) {
		runVerifyChecks(cmd.Context(), true, false, false, false)
	},
}

// savesCheckCmd represents the verify saves command
var savesCheckCmd = &cobra.Command{
	Use:   "saves",
	Short: "Check every save file for damage and drift",
	Run: func(cmd *cobra.Command, args []string) {
		runVerifyChecks(cmd.Context(), false, true, false, false)
	},
}

// vaultCheckCmd represents the verify vault command
var vaultCheckCmd = &cobra.Command{
	Use:   "vault",
	Short: "Check and fix the backup vault bucket",
	Run: func(cmd *cobra.Command, args []string) {
		runVerifyChecks(cmd.Context(), false, false, true, false)
	},
}

// catalogCheckCmd represents the verify catalog command
var catalogCheckCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Check the catalog database schema",
	Run: func(cmd *cobra.Command, args []string) {
		runVerifyChecks(cmd.Context(), false, false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.AddCommand(structureCmd, savesCheckCmd, vaultCheckCmd, catalogCheckCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	vaultCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket")
}

func runVerifyChecks(ctx context.Context, onlyStructure, onlySaves, onlyVault, onlyCatalog bool) {
	cfg, logg, err := setup()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	client := buildVault(cfg.Storage, logg)
	cat := openCatalog(cfg.Game, cfg.Database, logg)

	if cfg.Game.Selected() {
		logg = logg.With(zap.String("game", cfg.Game.Game()))
	}

	svc := integrity.NewService(cfg.Game, cat, client, cfg.Storage.Bucket, logg)
	runStructure := !onlySaves && !onlyVault && !onlyCatalog
	runSaves := onlySaves || (!onlyStructure && !onlyVault && !onlyCatalog)
	runVault := onlyVault || (!onlyStructure && !onlySaves && !onlyCatalog)
	runCatalog := onlyCatalog || (!onlyStructure && !onlySaves && !onlyVault)

	// Run Checks

	if runStructure {
		logg.Info("Checking slot folder layout...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			if errors.Is(err, savefile.ErrNoGame) {
				logg.Fatal("No game selected. Run 'cogsaver select' with your game's save file first.")
			}
			logg.Fatal("Structure check failed", zap.Error(err))
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if onlyStructure && fixFlag {
				logg.Info("Fixing missing folders...")
				fixed, err := svc.FixStructure(ctx, missing)
				if err != nil {
					logg.Fatal("Failed to fix structure", zap.Error(err))
				}
				logg.Info("Structure fixed successfully.", zap.Strings("created", fixed))
			} else if onlyStructure {
				logg.Info("Run with --fix to create missing folders.")
			}
		}
	}

	if runSaves {
		logg.Info("Checking save files...")
		report, err := svc.CheckSaves(ctx)
		if err != nil {
			if errors.Is(err, savefile.ErrNoGame) {
				logg.Fatal("No game selected. Run 'cogsaver select' with your game's save file first.")
			}
			logg.Fatal("Saves check failed", zap.Error(err))
		}

		if report.Healthy {
			logg.Info("Saves are healthy.", zap.Int("scanned", report.Scanned))
		} else {
			logg.Warn("Save problems detected", zap.Int("scanned", report.Scanned))
			if len(report.Unparsable) > 0 {
				logg.Warn("Unparsable saves", zap.Strings("files", report.Unparsable))
			}
			if len(report.Drifted) > 0 {
				logg.Warn("Content drifted since cataloging", zap.Strings("files", report.Drifted))
			}
			if len(report.Uncataloged) > 0 {
				logg.Warn("Saves the catalog has never seen", zap.Strings("files", report.Uncataloged))
				logg.Info("Run 'cogsaver reconcile --sync' to register them.")
			}
		}
		if !report.CatalogAvailable {
			logg.Warn("Catalog unavailable, drift checks skipped.")
		}

		// Stale autosave snapshots only waste disk, so they are reported
		// rather than fixed here.
		status := autosave.NewService(cfg.Game, cat, logg).Status()
		if status.Snapshots > status.Keep {
			logg.Warn("Autosave folder holds more snapshots than the retention limit",
				zap.Int("snapshots", status.Snapshots),
				zap.Int("keep", status.Keep),
			)
		}
	}

	if runVault {
		logg.Info("Checking backup vault...")
		ok, err := svc.CheckVault(ctx)
		switch {
		case errors.Is(err, storage.ErrDisabled):
			logg.Info("Vault is disabled, skipping.")
		case err != nil:
			logg.Error("Vault check failed", zap.Error(err))
		case ok:
			logg.Info("Vault bucket exists.", zap.String("bucket", cfg.Storage.Bucket))
		default:
			logg.Warn("Vault bucket is missing", zap.String("bucket", cfg.Storage.Bucket))

			if onlyVault && fixFlag {
				logg.Info("Creating vault bucket...")
				if err := svc.FixVault(ctx); err != nil {
					logg.Fatal("Failed to create bucket", zap.Error(err))
				}
				logg.Info("Vault bucket created successfully.")
			} else if onlyVault {
				logg.Info("Run with --fix to create the bucket.")
			}
		}
	}

	if runCatalog {
		logg.Info("Checking catalog schema...")
		report, err := svc.CheckCatalog()
		if err != nil {
			logg.Error("Catalog schema check failed", zap.Error(err))
		} else {
			if report.Matched {
				logg.Info("Catalog schema matches expected definition.", zap.String("table", report.Table))
			} else {
				logg.Warn("Catalog schema mismatches found", zap.String("table", report.Table))
				if len(report.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.Strings("columns", report.MissingColumns))
				}
				if len(report.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.Strings("mismatches", report.TypeMismatches))
				}
				for _, e := range report.Errors {
					logg.Error("Inspection Error", zap.String("error", e))
				}
			}
		}
	}
}
