package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/connectors/filesystem"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Add local files to the library",
	Long: `Decodes files and folders into the local library. Folders are walked
recursively; hidden entries are skipped. Files already in the library, by
size, modification time and path, are reported as duplicates.

Press Ctrl+C to stop: files processed so far are kept.

With --watch, a single folder is watched after the initial pass and new or
changed files are ingested as they appear.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the folder for changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}
	if ingestWatch && len(args) != 1 {
		return errors.New("--watch takes exactly one folder")
	}

	ctx := cmd.Context()
	connectors := make([]*filesystem.Connector, len(args))
	var items []domain.IngestItem
	for i, path := range args {
		c := filesystem.New(path)
		if err := c.Validate(); err != nil {
			return err
		}
		found, err := c.Collect(ctx)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		connectors[i] = c
		items = append(items, found...)
	}

	if len(items) == 0 {
		cmd.Println("No files found.")
	} else if err := ingestItems(ctx, cmd, items); err != nil {
		return err
	}

	if ingestWatch {
		return watchAndIngest(ctx, cmd, connectors[0])
	}
	return nil
}

func ingestItems(ctx context.Context, cmd *cobra.Command, items []domain.IngestItem) error {
	cmd.Printf("Ingesting %d files...\n", len(items))

	result, err := libraryService.Ingest(ctx, items)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printIngestResult(cmd, result, len(items))
	return nil
}

func printIngestResult(cmd *cobra.Command, r *domain.IngestResult, total int) {
	st := newStyles(cmd.OutOrStdout())

	cmd.Println(st.Success.Render(fmt.Sprintf("Added %d documents.", len(r.Documents))))
	cmd.Printf("  %d success, %d skipped, %d failed, %d duplicate\n",
		r.Count(domain.OutcomeSuccess), r.Count(domain.OutcomeSkipped),
		r.Count(domain.OutcomeFailed), r.Count(domain.OutcomeDuplicate))

	for _, o := range r.Outcomes {
		switch o.Status {
		case domain.OutcomeFailed:
			cmd.Printf("  %s %s: %s\n", st.Error.Render("failed "), o.Name, o.Reason)
		case domain.OutcomeSkipped:
			cmd.Printf("  %s %s: %s\n", st.Muted.Render("skipped"), o.Name, o.Reason)
		}
	}

	if r.Cancelled {
		cmd.Println(st.Warning.Render(fmt.Sprintf("Cancelled after %d of %d files.", len(r.Outcomes), total)))
	}
	if r.Warning != nil {
		cmd.Println(st.Warning.Render("Warning: " + r.Warning.Error()))
	}
}

func watchAndIngest(ctx context.Context, cmd *cobra.Command, c *filesystem.Connector) error {
	batches, err := c.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", c.RootPath(), err)
	}
	defer c.Close()

	cmd.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", c.RootPath())
	for batch := range batches {
		if err := ingestItems(ctx, cmd, batch); err != nil {
			logger.Error("%v", err)
		}
	}
	return nil
}
