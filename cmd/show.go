package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cogsaver/core/savefile"
	"cogsaver/feature/backup"
	"cogsaver/feature/slots"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [save]",
	Short: "View details and validity of one save",
	Long:  `Checks the presence and health of a save across the saves folder, the catalog database, and the backup vault. The save can be referenced by file name, by label, or by a unique prefix of either.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSaveDetailCheck(cmd.Context(), args[0])
	},
}

func init() {
	RootCmd.AddCommand(showCmd)
}

func runSaveDetailCheck(ctx context.Context, ref string) {
	cfg, logg, err := setup()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	client := buildVault(cfg.Storage, logg)
	cat := openCatalog(cfg.Game, cfg.Database, logg)

	svc := slots.NewService(cfg.Game, cat, nil, logg)

	logg.Info("Checking save...", zap.String("ref", ref))
	saves, err := svc.List(ctx)
	if err != nil {
		if errors.Is(err, slots.ErrNoGame) {
			logg.Fatal("No game selected. Run 'cogsaver select' with your game's save file first.")
		}
		logg.Fatal("Listing saves failed", zap.Error(err))
	}

	save, err := matchSave(saves, ref)
	if err != nil {
		logg.Fatal("Save lookup failed", zap.Error(err))
	}

	// Vault presence goes through the backup listing so a disabled vault
	// degrades instead of failing the whole view.
	inVault := false
	vaultNote := "disabled"
	if client != nil {
		vaultNote = "missing"
		entries, err := backup.NewService(cfg.Game, client, cfg.Storage.Bucket, cat, logg).List(ctx)
		if err != nil {
			vaultNote = fmt.Sprintf("unreachable (%v)", err)
		} else {
			for _, e := range entries {
				if e.Key == save.FileName {
					inVault = true
					vaultNote = "present"
					break
				}
			}
		}
	}

	// A save that no longer parses as a CoG state is damaged regardless of
	// what the catalog says.
	parses := true
	if raw, err := os.ReadFile(save.Path); err != nil {
		parses = false
	} else if _, err := savefile.ExtractState(raw); err != nil {
		parses = false
	}

	var mismatches []string
	if !parses {
		mismatches = append(mismatches, "file no longer parses as a CoG state")
	}
	if save.Drifted {
		mismatches = append(mismatches, "content drifted since cataloging")
	}
	if !save.Cataloged && cat.Ready() {
		mismatches = append(mismatches, "catalog has never seen this file")
	}
	if client != nil && !inVault {
		mismatches = append(mismatches, "no backup in the vault")
	}

	status := "OK"
	if len(mismatches) > 0 {
		status = "WARNING"
	}
	if !parses {
		status = "FAIL"
	}

	summary := savefile.Describe(save.Path)

	// Pretty Console Output
	fmt.Println("\n--- Save Detail View ---")
	fmt.Printf("Query:          %s\n", ref)
	fmt.Printf("File:           %s\n", save.FileName)
	if save.Label != "" {
		fmt.Printf("Label:          %s\n", save.Label)
	}
	fmt.Printf("Character:      %s\n", summary.Character)
	fmt.Printf("Scene:          %s (line %d)\n", summary.Scene, summary.Line)
	fmt.Printf("Size:           %d\n", save.Size)
	fmt.Printf("Modified:       %s\n", save.ModTime.Format("2006-01-02 15:04:05"))
	fmt.Println("------------------------")
	fmt.Printf("On Disk:        %v\n", true)
	fmt.Printf("In Catalog:     %v\n", save.Cataloged)
	fmt.Printf("In Vault:       %s\n", vaultNote)

	statusColor := "\033[32m" // Green
	if status == "FAIL" {
		statusColor = "\033[31m" // Red
	} else if status == "WARNING" {
		statusColor = "\033[33m" // Yellow
	}
	resetColor := "\033[0m"

	fmt.Printf("Integrity:      %s%s%s\n", statusColor, status, resetColor)

	if len(mismatches) > 0 {
		fmt.Println("\nMismatches/Errors:")
		for _, m := range mismatches {
			fmt.Printf("- %s\n", m)
		}
	}
	fmt.Println("------------------------")
}

// matchSave resolves a listing entry by file name or label, allowing a
// unique prefix of either.
func matchSave(saves []slots.Save, ref string) (*slots.Save, error) {
	for i := range saves {
		if saves[i].FileName == ref || saves[i].Label == ref {
			return &saves[i], nil
		}
	}

	var hits []*slots.Save
	for i := range saves {
		if strings.HasPrefix(saves[i].FileName, ref) || (saves[i].Label != "" && strings.HasPrefix(saves[i].Label, ref)) {
			hits = append(hits, &saves[i])
		}
	}

	switch len(hits) {
	case 0:
		return nil, fmt.Errorf("no save matches %q", ref)
	case 1:
		return hits[0], nil
	default:
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = h.FileName
		}
		return nil, fmt.Errorf("%q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}
