package cmd

import (
	"errors"
	"fmt"

	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/backup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// backupCmd is the parent command for vault operations.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy saves between the saves folder and the backup vault",
	Long: `Copies permanent saves to and from the backup vault (S3, Minio).
Push uploads saves the vault is missing or holds stale, pull downloads
backups the folder is missing. Neither direction overwrites newer work.`,
}

// backupPushCmd represents the backup push command
var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload missing and changed saves to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := vaultService()
		if err != nil {
			return err
		}

		result, err := svc.Push(cmd.Context())
		if err != nil {
			return describeVaultError(logg, err)
		}

		logg.Info("Push finished",
			zap.Int("uploaded", len(result.Uploaded)),
			zap.Int("skipped", result.Skipped),
		)
		for _, key := range result.Uploaded {
			logg.Info("Uploaded", zap.String("save", key))
		}
		return nil
	},
}

// backupPullCmd represents the backup pull command
var backupPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download backups the saves folder is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := vaultService()
		if err != nil {
			return err
		}

		result, err := svc.Pull(cmd.Context())
		if err != nil {
			return describeVaultError(logg, err)
		}

		logg.Info("Pull finished",
			zap.Int("downloaded", len(result.Downloaded)),
			zap.Int("skipped", result.Skipped),
		)
		for _, key := range result.Downloaded {
			logg.Info("Downloaded", zap.String("save", key))
		}
		return nil
	},
}

// backupListCmd represents the backup list command
var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saves backed up in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := vaultService()
		if err != nil {
			return err
		}

		entries, err := svc.List(cmd.Context())
		if err != nil {
			return describeVaultError(logg, err)
		}

		if len(entries) == 0 {
			fmt.Println("The vault holds no saves for this game.")
			return nil
		}

		// Pretty Console Output
		fmt.Println("\n=== Vault Saves ===")
		for _, e := range entries {
			fmt.Printf("%-44s %8d  %s\n", e.Key, e.Size, e.Modified.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\nFound %d backups.\n", len(entries))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupPushCmd, backupPullCmd, backupListCmd)
}

// vaultService wires the backup service for the CLI commands.
func vaultService() (*backup.Service, *zap.Logger, error) {
	cfg, logg, err := setup()
	if err != nil {
		return nil, nil, err
	}

	client := buildVault(cfg.Storage, logg)
	cat := openCatalog(cfg.Game, cfg.Database, logg)

	svc := backup.NewService(cfg.Game, client, cfg.Storage.Bucket, cat, logg)
	return svc, logg, nil
}

// describeVaultError adds hints to the recurring vault errors.
func describeVaultError(logg *zap.Logger, err error) error {
	switch {
	case errors.Is(err, storage.ErrDisabled):
		logg.Error("Vault is disabled. Set STORAGE_ENABLED=true and the endpoint credentials first.")
	case errors.Is(err, savefile.ErrNoGame):
		logg.Error("No game selected. Run 'cogsaver select' with your game's save file first.")
	}
	return err
}
