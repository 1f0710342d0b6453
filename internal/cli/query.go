package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"photofind/internal/usecase"
)

var (
	queryText    string
	queryJSON    bool
	queryShowURL bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find the photo closest to a text query",
	Long: `Embed the query text and return the single photo whose stored embedding
is most similar. Uses the record store's native vector query when available,
otherwise an exhaustive cosine-similarity scan.

Examples:
  photofind query -q "photo with city"
  photofind query -q "sunset at the beach" --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryShowURL, "show-url", false, "also print the matched photo's URL")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	recordStore, err := newRecordStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer recordStore.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	queryVec, err := embedder.EmbedText(ctx, queryText)
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}

	engine := usecase.NewSearchEngine(recordStore, logger, cfg.Query.MinScore)

	match, err := engine.FindBestMatch(ctx, queryVec)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		out := struct {
			Query string `json:"query"`
			Match any    `json:"match"`
			URL   string `json:"url,omitempty"`
		}{Query: queryText, Match: match}
		if match != nil && queryShowURL {
			if rec, err := recordStore.Get(ctx, match.PhotoID); err == nil {
				out.URL = rec.URL
			}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if match == nil {
		fmt.Println("No match found.")
		return nil
	}

	fmt.Printf("Closest photo: %s (score: %.4f) for the query: %s\n", match.PhotoID, match.Score, queryText)
	if queryShowURL {
		rec, err := recordStore.Get(ctx, match.PhotoID)
		if err != nil {
			return fmt.Errorf("failed to fetch matched record: %w", err)
		}
		fmt.Printf("URL: %s\n", rec.URL)
	}

	return nil
}
