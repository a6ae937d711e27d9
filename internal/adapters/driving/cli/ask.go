package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

var (
	askScope string
	askTopK  int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from indexed passages",
	Long: `Retrieves the passages most relevant to the question and asks Gemini to
summarise them into a structured answer with cited sources.

Requires llm.api_key or the GEMINI_API_KEY environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	addRetrieveFlags(askCmd, &askScope, &askTopK)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}

	opts, err := retrieveOptions(askScope, askTopK)
	if err != nil {
		return err
	}

	answer, hits, err := askService.Ask(cmd.Context(), args[0], opts)
	var retrievalErr *domain.RetrievalError
	switch {
	case errors.As(err, &retrievalErr):
		cmd.Println(retrievalErr.Error())
		return nil
	case errors.Is(err, domain.ErrLLMUnavailable):
		return errors.New("answer synthesis not configured: set llm.api_key or GEMINI_API_KEY")
	case err != nil:
		return fmt.Errorf("ask failed: %w", err)
	}

	linkSources(answer, hits)

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, answer)
	return nil
}

// linkSources fills missing source URLs from the remote hits they cite.
func linkSources(answer *domain.Answer, hits []domain.ScoredChunk) {
	urls := make(map[string]string)
	for _, h := range hits {
		if u := hitURL(h.Chunk); u != "" {
			urls[h.FileName] = u
		}
	}
	for i := range answer.Sources {
		if answer.Sources[i].URL == "" {
			answer.Sources[i].URL = urls[answer.Sources[i].Title]
		}
	}
}

func printAnswer(cmd *cobra.Command, a *domain.Answer) {
	st := newStyles(cmd.OutOrStdout())

	cmd.Println(st.Title.Render(a.Topic))
	if a.Category != "" {
		cmd.Println(st.Muted.Render(a.Category))
	}
	cmd.Println()
	cmd.Println(a.Summary)

	// Findings keep the model's order; each group is printed once.
	var groups []string
	byGroup := make(map[string][]domain.Finding)
	for _, f := range a.Findings {
		if _, seen := byGroup[f.Group]; !seen {
			groups = append(groups, f.Group)
		}
		byGroup[f.Group] = append(byGroup[f.Group], f)
	}
	for _, g := range groups {
		cmd.Println()
		if g != "" {
			cmd.Println(st.Label.Render(g))
		}
		for _, f := range byGroup[g] {
			cmd.Printf("  - %s: %s\n", f.Item, f.Limit)
			if f.Note != "" {
				cmd.Printf("    %s\n", st.Muted.Render(f.Note))
			}
		}
	}

	if len(a.Sources) > 0 {
		cmd.Println()
		cmd.Println(st.Label.Render("Sources:"))
		for i, s := range a.Sources {
			cmd.Printf("  [%d] %s %s\n", i+1, s.Title, st.Muted.Render("("+s.SourceType+")"))
			if s.URL != "" {
				cmd.Printf("      %s\n", st.Muted.Render(s.URL))
			}
		}
	}
}
