package pdf

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

// RodConverter drives the browser over the DevTools protocol and prints the
// page with background graphics at the template's page size.
type RodConverter struct {
	browser string
	timeout time.Duration
}

// NewRodConverter creates a DevTools converter. Without a configured
// browser the launcher's own lookup is used.
func NewRodConverter(cfg *Config) *RodConverter {
	return &RodConverter{
		browser: cfg.Browser,
		timeout: timeoutOrDefault(cfg.Timeout),
	}
}

// Convert prints input.HTMLPath to input.PDFPath.
func (c *RodConverter) Convert(ctx context.Context, input *ConvertInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	htmlPath, pdfPath, err := absPaths(input)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	l := launcher.New().Context(runCtx).Headless(true)
	if c.browser != "" {
		l = l.Bin(c.browser)
	}
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		if e := c.contextError(ctx, runCtx); e != nil {
			return e
		}
		return errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to launch browser")
	}

	browser := rod.New().ControlURL(controlURL).Context(runCtx)
	if err := browser.Connect(); err != nil {
		return c.fail(ctx, runCtx, err, "failed to connect to browser")
	}
	defer func() {
		_ = browser.Close() // nolint:errcheck // launcher cleanup kills the process anyway
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: FileURL(htmlPath)})
	if err != nil {
		return c.fail(ctx, runCtx, err, "failed to open sheet")
	}
	if err := page.WaitLoad(); err != nil {
		return c.fail(ctx, runCtx, err, "failed to load sheet")
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return c.fail(ctx, runCtx, err, "failed to print sheet")
	}
	if err := utils.OutputFile(pdfPath, stream); err != nil {
		return errors.Wrap(err, "failed to write pdf").WithMeta("path", pdfPath)
	}

	slog.InfoContext(ctx, "pdf generated", "path", pdfPath, "engine", EngineRod)
	return nil
}

func (c *RodConverter) fail(ctx, runCtx context.Context, err error, message string) error {
	if e := c.contextError(ctx, runCtx); e != nil {
		return e
	}
	return errors.WrapWithCode(err, errors.CodeInternal, message)
}

func (c *RodConverter) contextError(ctx, runCtx context.Context) error {
	if ctx.Err() != nil {
		return errors.Canceled("pdf conversion canceled")
	}
	if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return errors.DeadlineExceededf("browser did not finish within %s", c.timeout)
	}
	return nil
}

// FileURL returns the file:// URL of an absolute path.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
