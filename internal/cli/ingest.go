package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"photofind/internal/adapter/fs"
	"photofind/internal/adapter/imaging"
	"photofind/internal/usecase"
)

var ingestFailFast bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Ingest a folder of photos",
	Long: `Ingest every photo in the given folder: upload the original bytes to the
blob store, generate an embedding from a resized working copy, and write a
metadata record. Failures are per photo; the batch continues past them.

Examples:
  photofind ingest .                # Ingest current directory
  photofind ingest ~/Pictures/2024  # Ingest a specific folder`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestFailFast, "fail-fast", false, "abort the batch on the first failed photo")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	ctx := cmd.Context()

	recordStore, err := newRecordStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer recordStore.Close()

	blobStore, err := newBlobStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)

	ingestUC := usecase.NewIngestUseCase(
		recordStore,
		blobStore,
		embedder,
		imaging.NewResizer(),
		walker,
		logger,
		cfg.Ingest.Tags,
		cfg.Ingest.ResizeFactor,
		ingestFailFast || cfg.Ingest.FailFast,
	)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time
	var initialized bool

	progress := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Ingesting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := ingestUC.Ingest(ctx, path, progress)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Photos ingested: %d\n", len(result.Records))
	fmt.Printf("  Photos failed:   %d\n", len(result.Failures))
	fmt.Printf("  Embedding model: %s (dimension %d)\n", embedder.ModelName(), embedder.Dimension())

	if len(result.Failures) > 0 {
		fmt.Printf("\nFailures:\n")
		for _, f := range result.Failures {
			fmt.Printf("  - %s\n", f.Error())
		}
	}

	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
