package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/form"
	"github.com/KirkDiggler/agency-sheet/internal/pdf"
	"github.com/KirkDiggler/agency-sheet/internal/render"
	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
)

// Filename sanitization settings.
const (
	UnnamedFallback = "Unnamed"
	MaxFilenameLen  = 50
	illegalChars    = `<>:"/\|?*`
	trimChars       = "._ "
)

// SaveDraft writes the draft's record as JSON, HTML and PDF into
// <output dir>/<name>/<name>.*. Validation failures create no files. A PDF
// failure returns the output holding the files already written.
func (o *Orchestrator) SaveDraft(ctx context.Context, input *sheet.SaveDraftInput) (*sheet.SaveDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	rec := o.aggregator.Gather(draft)
	if err := form.Validate(rec); err != nil {
		return nil, err
	}

	name := Sanitize(rec.Name)
	dir := filepath.Join(o.outputDir, name)
	base := filepath.Join(dir, name)
	out := &sheet.SaveDraftOutput{Record: rec, Dir: dir}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create character directory").WithMeta("path", dir)
	}

	jsonPath := base + ".json"
	if err := WriteRecord(jsonPath, rec); err != nil {
		return nil, err
	}
	out.JSONPath = jsonPath

	rendered, err := o.renderer.RenderFile(ctx, &render.RenderFileInput{Record: &rec, OutPath: base + ".html"})
	if err != nil {
		return out, err
	}
	out.HTMLPath = rendered.Path

	if input.SkipPDF {
		slog.InfoContext(ctx, "character saved", "dir", dir, "pdf", false)
		return out, nil
	}

	pdfPath := base + ".pdf"
	if err := o.converter.Convert(ctx, &pdf.ConvertInput{HTMLPath: out.HTMLPath, PDFPath: pdfPath}); err != nil {
		slog.WarnContext(ctx, "pdf conversion failed", "html", out.HTMLPath, "error", err)
		return out, errors.Wrap(err, "failed to convert html to pdf").
			WithMeta("json", out.JSONPath).
			WithMeta("html", out.HTMLPath)
	}
	out.PDFPath = pdfPath

	slog.InfoContext(ctx, "character saved", "dir", dir, "pdf", true)
	return out, nil
}

// WriteRecord writes a record as UTF-8 JSON with two-space indentation.
// Non-ASCII text and HTML characters are written unescaped.
func WriteRecord(path string, rec agency.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return errors.Wrap(err, "failed to encode record")
	}

	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write record").WithMeta("path", path)
	}
	return nil
}

// Sanitize turns a character name into a file and directory name: illegal
// characters and control codes become underscores, whitespace runs collapse
// to one underscore, and leading or trailing dots, underscores and spaces are
// stripped. An empty result falls back to "Unnamed". The result is at most
// MaxFilenameLen runes.
func Sanitize(name string) string {
	v := strings.TrimSpace(name)
	if v == "" {
		v = UnnamedFallback
	}

	v = strings.Map(func(c rune) rune {
		if c < 32 || strings.ContainsRune(illegalChars, c) {
			return '_'
		}
		return c
	}, v)
	v = strings.Join(strings.Fields(v), "_")
	v = strings.Trim(v, trimChars)
	if v == "" {
		v = UnnamedFallback
	}

	if runes := []rune(v); len(runes) > MaxFilenameLen {
		v = string(runes[:MaxFilenameLen])
	}
	return v
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
