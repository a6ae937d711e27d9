package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/connectors/google/drive"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

var (
	searchScope string
	searchTopK  int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed passages",
	Long: `Scores every chunk in scope against the query terms and prints the
best matches. Terms found in a file name count more than terms in the text.

Scopes:
  remote - the synchronised Drive folder
  local  - the local library
  both   - everything (default)`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	addRetrieveFlags(searchCmd, &searchScope, &searchTopK)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func addRetrieveFlags(cmd *cobra.Command, scope *string, topK *int) {
	cmd.Flags().StringVarP(scope, "scope", "s", string(domain.ScopeBoth), "sources to search: remote, local or both")
	cmd.Flags().IntVarP(topK, "top-k", "k", 0, "maximum number of passages (0 = configured default)")
}

func retrieveOptions(scope string, topK int) (domain.RetrieveOptions, error) {
	sc, err := domain.ParseScope(scope)
	if err != nil {
		return domain.RetrieveOptions{}, fmt.Errorf("scope %q: %w", scope, err)
	}
	if topK < 0 {
		return domain.RetrieveOptions{}, fmt.Errorf("top-k %d: %w", topK, domain.ErrInvalidInput)
	}
	return domain.RetrieveOptions{Scope: sc, TopK: topK, RootID: defaultRoot}, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	opts, err := retrieveOptions(searchScope, searchTopK)
	if err != nil {
		return err
	}

	hits, err := retrievalService.Retrieve(cmd.Context(), args[0], opts)
	var retrievalErr *domain.RetrievalError
	if errors.As(err, &retrievalErr) {
		cmd.Println(retrievalErr.Error())
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	outputSearchTable(cmd, hits)
	return nil
}

// searchResult is the JSON form of a hit.
type searchResult struct {
	Rank     int     `json:"rank"`
	Score    float64 `json:"score"`
	FileID   string  `json:"fileId"`
	FileName string  `json:"fileName"`
	Path     string  `json:"path,omitempty"`
	Source   string  `json:"source"`
	URL      string  `json:"url,omitempty"`
	Snippet  string  `json:"snippet"`
}

func toSearchResults(hits []domain.ScoredChunk) []searchResult {
	results := make([]searchResult, len(hits))
	for i, h := range hits {
		results[i] = searchResult{
			Rank:     i + 1,
			Score:    h.Score,
			FileID:   h.FileID,
			FileName: h.FileName,
			Path:     h.Path,
			Source:   string(h.Source),
			URL:      hitURL(h.Chunk),
			Snippet:  h.Snippet,
		}
	}
	return results
}

// hitURL links remote chunks back to Drive.
func hitURL(c domain.Chunk) string {
	if c.Source != domain.DocSourceRemote {
		return ""
	}
	return drive.ResolveWebURL(c.FileID, "")
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.ScoredChunk) error {
	data, err := json.MarshalIndent(toSearchResults(hits), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.ScoredChunk) {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Results:"))
	cmd.Println()
	for _, r := range toSearchResults(hits) {
		cmd.Printf("  [%d] %s %s\n", r.Rank, r.FileName, st.Muted.Render(fmt.Sprintf("(%s, %.0f)", r.Source, r.Score)))
		if r.Path != "" {
			cmd.Printf("      %s %s\n", st.Label.Render("Path:"), r.Path)
		}
		if r.URL != "" {
			cmd.Printf("      %s\n", st.Muted.Render(r.URL))
		}
		if r.Snippet != "" {
			cmd.Printf("      %s\n", r.Snippet)
		}
		cmd.Println()
	}
}
