package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/connectors/google/drive"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
)

// syncPollInterval is how often progress is refreshed during a sync.
var syncPollInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync [folder]",
	Short: "Synchronise the Drive folder into the index",
	Long: `Crawls the Drive folder tree and updates the index incrementally.
Unchanged files keep their chunks; new and modified files are downloaded,
decoded and chunked; removed files are dropped.

The folder may be a folder id or a Drive folder URL. Without an argument
the configured drive.root_folder_id is synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

var statusCmd = &cobra.Command{
	Use:   "status [folder]",
	Short: "Show the last sync of a Drive folder",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errors.New("drive sync not configured: set drive.root_folder_id and credentials")
	}

	rootID, err := resolveRoot(args)
	if err != nil {
		return err
	}

	cmd.Printf("Synchronising folder %s...\n", rootID)

	report, err := syncWithProgress(cmd.Context(), cmd, syncService, rootID)
	if err != nil {
		var crawlErr *domain.CrawlError
		if errors.As(err, &crawlErr) {
			cmd.PrintErrf("Listing folder %s failed [%d]: %s\n", crawlErr.FolderID, crawlErr.Status, crawlErr.Message)
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	printSyncReport(cmd, report)
	return nil
}

// resolveRoot returns the folder named in args or the configured root.
func resolveRoot(args []string) (string, error) {
	if len(args) == 0 {
		if defaultRoot == "" {
			return "", errors.New("no folder given and drive.root_folder_id is not set")
		}
		return defaultRoot, nil
	}
	id, err := drive.ParseFolderID(args[0])
	if err != nil {
		return "", fmt.Errorf("folder %q: %w", args[0], err)
	}
	return id, nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	svc driving.SyncService,
	rootID string,
) (*domain.SyncReport, error) {
	type result struct {
		report *domain.SyncReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := svc.Sync(ctx, rootID)
		done <- result{report, err}
	}()

	ticker := time.NewTicker(syncPollInterval)
	defer ticker.Stop()

	interactive := isTerminal(cmd.OutOrStdout())
	lastLine := ""
	for {
		select {
		case r := <-done:
			if interactive && lastLine != "" {
				cmd.Println()
			}
			return r.report, r.err
		case <-ticker.C:
			// Progress is best effort.
			status, err := svc.Status(ctx, rootID)
			if err != nil || status == nil || !status.Running {
				continue
			}
			line := progressLine(status)
			if line == lastLine {
				continue
			}
			if interactive {
				cmd.Printf("\r\033[K%s", line)
			} else {
				cmd.Println(line)
			}
			lastLine = line
		}
	}
}

func progressLine(s *domain.SyncStatus) string {
	if s.Total > 0 {
		return fmt.Sprintf("%s %d/%d: %s", s.Phase, s.Current, s.Total, s.Message)
	}
	return fmt.Sprintf("%s: %s", s.Phase, s.Message)
}

func printSyncReport(cmd *cobra.Command, r *domain.SyncReport) {
	st := newStyles(cmd.OutOrStdout())

	cmd.Println(st.Success.Render(fmt.Sprintf("Folder %s synchronised in %s.", r.RootID, r.Duration().Round(time.Millisecond))))
	cmd.Printf("  %s %d\n", st.Label.Render("Scanned:  "), r.Scanned)
	cmd.Printf("  %s %d\n", st.Label.Render("Unchanged:"), r.Reused)
	cmd.Printf("  %s %d\n", st.Label.Render("Processed:"), r.Processed)
	cmd.Printf("  %s %d\n", st.Label.Render("Removed:  "), r.Stale)
	cmd.Printf("  %s %d\n", st.Label.Render("Chunks:   "), r.Chunks)

	if r.Skipped > 0 || r.Failed > 0 {
		cmd.Println(st.Warning.Render(fmt.Sprintf("%d skipped, %d failed:", r.Skipped, r.Failed)))
		for _, s := range r.SkippedList {
			cmd.Printf("  %s %s\n", s.Name, st.Muted.Render("("+s.Reason+")"))
		}
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	rootID, err := resolveRoot(args)
	if err != nil {
		return err
	}
	if syncService == nil {
		cmd.Printf("Drive sync is not configured for folder %s.\n", rootID)
		return nil
	}

	ctx := cmd.Context()
	if status, err := syncService.Status(ctx, rootID); err == nil && status != nil && status.Running {
		cmd.Printf("Sync in progress: %s\n", progressLine(status))
	}

	meta, err := syncService.LastSync(ctx, rootID)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Printf("Folder %s has not been synchronised yet.\n", rootID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read sync state: %w", err)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Folder " + meta.RootID))
	cmd.Printf("  %s %s\n", st.Label.Render("Last sync:  "), meta.LastSyncAt.Local().Format(time.RFC1123))
	cmd.Printf("  %s %s\n", st.Label.Render("Fingerprint:"), meta.Fingerprint)
	cmd.Printf("  %s %d files, %d chunks\n", st.Label.Render("Indexed:    "),
		meta.Stats.Reused+meta.Stats.Processed, meta.Stats.Chunks)
	return nil
}
