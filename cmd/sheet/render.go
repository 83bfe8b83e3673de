package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-sheet/internal/pdf"
	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
)

var (
	renderJSON     string
	renderOut      string
	renderTemplate string
	renderPDF      bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a saved record to HTML",
	Long: `Render a character record JSON file into the sheet template. Without --out the
HTML is written to the HTML output directory as <name>_<timestamp>.html.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <sheet.html> [sheet.pdf]",
	Short: "Print an HTML sheet to PDF with a headless browser",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPDF,
}

func init() {
	renderCmd.Flags().StringVar(&renderJSON, "json", "", "record JSON file (required)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output HTML path")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "template file (default built-in or configured)")
	renderCmd.Flags().BoolVar(&renderPDF, "pdf", false, "also print the HTML to PDF")
	_ = renderCmd.MarkFlagRequired("json") // nolint:errcheck // safe to ignore in init
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.RenderRecord(cmd.Context(), &sheet.RenderRecordInput{
		JSONPath:     renderJSON,
		TemplatePath: renderTemplate,
		OutPath:      renderOut,
		PDF:          renderPDF,
	})
	if out != nil {
		printStep(cmd.OutOrStdout(), "HTML", out.HTMLPath)
		if renderPDF {
			printStep(cmd.OutOrStdout(), "PDF", out.PDFPath)
		}
	}
	return err
}

func runPDF(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	htmlPath := args[0]
	pdfPath := strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".pdf"
	if len(args) == 2 {
		pdfPath = args[1]
	}

	if err := a.converter.Convert(cmd.Context(), &pdf.ConvertInput{HTMLPath: htmlPath, PDFPath: pdfPath}); err != nil {
		return err
	}
	printStep(cmd.OutOrStdout(), "PDF", pdfPath)
	return nil
}

func printStep(w io.Writer, label, path string) {
	if path == "" {
		fmt.Fprintf(w, "[--] %s\n", label)
		return
	}
	fmt.Fprintf(w, "[OK] %s %s\n", label, path)
}
