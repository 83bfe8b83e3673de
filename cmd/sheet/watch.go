package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
	"github.com/KirkDiggler/agency-sheet/internal/watch"
)

var (
	watchPDF      bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <record.json>...",
	Short: "Re-render records whenever they change",
	Long: `Watch record JSON files and re-render each into an HTML file next to it
(<name>.json becomes <name>.html) after every change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchPDF, "pdf", false, "also print each render to PDF")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before re-rendering (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	debounce := cfg.Watch.Debounce
	if watchDebounce > 0 {
		debounce = watchDebounce
	}
	withPDF := watchPDF || cfg.Watch.PDF

	rerender := func(ctx context.Context, path string) error {
		out, err := a.service.RenderRecord(ctx, &sheet.RenderRecordInput{
			JSONPath: path,
			OutPath:  strings.TrimSuffix(path, filepath.Ext(path)) + ".html",
			PDF:      withPDF,
		})
		if out != nil {
			printStep(cmd.OutOrStdout(), "HTML", out.HTMLPath)
			if withPDF {
				printStep(cmd.OutOrStdout(), "PDF", out.PDFPath)
			}
		}
		return err
	}

	w, err := watch.New(&watch.Config{
		Paths:    args,
		Debounce: debounce,
		OnChange: rerender,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	for _, p := range w.Paths() {
		if err := rerender(ctx, p); err != nil {
			return err
		}
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	<-w.Done()
	return nil
}
