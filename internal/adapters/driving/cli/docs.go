package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

var (
	docsJSON     bool
	docsYes      bool
	outcomeLimit int
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the local library",
	Long:  `List, view and remove documents added with ingest.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document's decoded text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

var docsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document and the outcome log",
	Args:  cobra.NoArgs,
	RunE:  runDocsClear,
}

var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Show recent ingestion outcomes",
	Args:  cobra.NoArgs,
	RunE:  runOutcomes,
}

func init() {
	docsListCmd.Flags().BoolVar(&docsJSON, "json", false, "output documents as JSON")
	docsClearCmd.Flags().BoolVarP(&docsYes, "yes", "y", false, "do not ask for confirmation")
	outcomesCmd.Flags().IntVarP(&outcomeLimit, "limit", "n", 20, "maximum number of entries (0 = all)")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsClearCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(outcomesCmd)
}

// documentSummary is the listing form of a document, without content.
type documentSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RelativePath string    `json:"relativePath"`
	MIMEType     string    `json:"mimeType,omitempty"`
	Size         int64     `json:"size"`
	Characters   int       `json:"characters"`
	UploadDate   time.Time `json:"uploadDate"`
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docs, err := libraryService.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if docsJSON {
		summaries := make([]documentSummary, len(docs))
		for i, d := range docs {
			summaries[i] = documentSummary{
				ID:           d.ID,
				Name:         d.Name,
				RelativePath: d.RelativePath,
				MIMEType:     d.MIMEType,
				Size:         d.Size,
				Characters:   len([]rune(d.Content)),
				UploadDate:   d.UploadDate,
			}
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("The library is empty.")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	for _, d := range docs {
		cmd.Printf("  %s\n", st.Title.Render(d.RelativePath))
		cmd.Printf("    %s %s\n", st.Label.Render("ID:   "), d.ID)
		cmd.Printf("    %s %s\n", st.Label.Render("Added:"), d.UploadDate.Local().Format(time.DateTime))
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docs, err := libraryService.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	for _, d := range docs {
		if d.ID == args[0] {
			cmd.Println(d.Content)
			return nil
		}
	}
	return fmt.Errorf("document %s: %w", args[0], domain.ErrNotFound)
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if err := libraryService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}

func runDocsClear(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if !docsYes {
		cmd.Print("Remove every library document? [y/N]: ")
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer) //nolint:errcheck // empty input means no
		if answer != "y" && answer != "Y" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := libraryService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear library: %w", err)
	}
	cmd.Println("Library cleared.")
	return nil
}

func runOutcomes(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	log, err := libraryService.Outcomes(cmd.Context(), outcomeLimit)
	if err != nil {
		return fmt.Errorf("failed to read outcome log: %w", err)
	}
	if len(log) == 0 {
		cmd.Println("No ingestion outcomes recorded.")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	for _, o := range log {
		status := string(o.Status)
		switch o.Status {
		case domain.OutcomeSuccess:
			status = st.Success.Render(status)
		case domain.OutcomeFailed:
			status = st.Error.Render(status)
		default:
			status = st.Muted.Render(status)
		}
		line := fmt.Sprintf("  %s  %-9s %s", o.Timestamp.Local().Format(time.DateTime), status, o.Name)
		if o.Reason != "" {
			line += " (" + o.Reason + ")"
		}
		cmd.Println(line)
	}
	return nil
}
