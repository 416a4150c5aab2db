package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"cogsaver/core/reconcile"
	catalogReconcile "cogsaver/feature/catalog/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile command
	purgeSaves  bool
	syncSaves   bool
	dryRunSaves bool
	yesConfirm  bool
)

// reconcileCmd compares the saves folder, the catalog and the vault, and
// optionally repairs the differences.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile saves between the saves folder, catalog, and vault",
	Long: `Reconcile saves across the saves folder, the catalog database and the
backup vault.

Reports files the catalog has never seen, catalog rows whose file is gone,
saves missing from the vault, and checksum drift.
Optionally purge (delete) rows and backups of vanished files, or sync
(register, refresh, upload) to repair the differences.

Examples:
  # Report only (dry-run)
  cogsaver reconcile

  # Purge rows and backups of vanished files (with interactive confirmation)
  cogsaver reconcile --purge

  # Purge with auto-confirm (non-interactive)
  cogsaver reconcile --purge --yes

  # Sync new and drifted saves with auto-confirm
  cogsaver reconcile --sync --yes

  # Both purge and sync
  cogsaver reconcile --purge --sync --yes`,
	RunE: runSavesReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&purgeSaves, "purge", false, "Enable purge (delete catalog rows and backups of vanished files)")
	reconcileCmd.Flags().BoolVar(&syncSaves, "sync", false, "Enable sync (register new files, refresh drifted rows, upload missing backups)")
	reconcileCmd.Flags().BoolVar(&dryRunSaves, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runSavesReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := setup()
	if err != nil {
		return err
	}

	l.Info("Starting save reconciliation", zap.String("game", cfg.Game.Game()))

	// The catalog is the point of reconciling, so unlike the slot commands
	// it is required here.
	cat := openCatalog(cfg.Game, cfg.Database, l)
	if !cat.Ready() {
		return fmt.Errorf("catalog database is required for reconcile")
	}

	client := buildVault(cfg.Storage, l)

	// Create save adapter
	adapter := catalogReconcile.NewAdapter(cfg.Game.Game(), cfg.Game.SaveExt)

	// Set mutation context for purge/sync
	if purgeSaves || syncSaves {
		adapter.SetMutationContext(
			cat,
			client,
			cfg.Storage.Bucket,
			catalogReconcile.VaultPrefix(cfg.Game.Game()),
		)
	}

	// Build spec. No caching so a second run sees the repairs.
	spec := catalogReconcile.NewSpec(adapter, cfg.Game, client != nil, 0)

	// Build reconcile options
	opts := reconcile.ReconcileOptions{
		DoPurge:   purgeSaves,
		DoSync:    syncSaves,
		DryRun:    dryRunSaves,
		Confirmed: false, // Will be set after confirmation prompt
	}

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...")
	plan, err := reconcile.ReconcileWithPlan(ctx, spec, cat.DB(), client, cfg.Storage.Bucket, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	// Step 2: Print report
	printReconcileReport(l, plan)

	// Step 3: Check if actions are requested
	if !purgeSaves && !syncSaves {
		l.Info("No actions requested. Use --purge to drop vanished files or --sync to repair differences.")
		return nil
	}

	// Step 4: Apply (if confirmed)
	if !dryRunSaves {
		if len(plan.Actions) == 0 {
			l.Info("No actions required based on current flags.")
			return nil
		}

		// Check confirmation
		if !confirmDestructiveAction(yesConfirm) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		opts.Confirmed = true

		// Execute actions
		l.Info("Applying actions...")
		executed, err := reconcile.ApplyPlan(ctx, spec, cat.DB(), client, cfg.Storage.Bucket, plan, opts)
		if err != nil {
			return fmt.Errorf("failed to apply plan: %w", err)
		}

		l.Info("Successfully executed actions", zap.Int("count", executed))
	} else {
		l.Info("Dry-run mode: No changes were made.")
	}

	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("missing_catalog", s.MissingCatalog),
		zap.Int("missing_local", s.MissingLocal),
		zap.Int("missing_vault", s.MissingVault),
		zap.Int("mismatches", s.Mismatches),
	)

	if len(plan.Actions) > 0 {
		l.Info("Planned actions",
			zap.Int("purge_actions", s.PurgeActions),
			zap.Int("sync_actions", s.SyncActions),
			zap.Int("total_actions", len(plan.Actions)),
		)

		// Show sample of actions (max 5 for logger)
		maxShow := 5
		if len(plan.Actions) < maxShow {
			maxShow = len(plan.Actions)
		}
		for i := 0; i < maxShow; i++ {
			action := plan.Actions[i]
			l.Info("Sample action",
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key),
				zap.String("reason", action.Reason),
			)
		}
		if len(plan.Actions) > maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses the
// command's --yes flag.
func confirmDestructiveAction(autoYes bool) bool {
	if autoYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
