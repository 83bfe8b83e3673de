package pdf

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

// PathNames are looked up on PATH when no browser is configured and no
// install location matches.
var PathNames = []string{"msedge", "microsoft-edge", "google-chrome", "chromium", "chromium-browser"}

// BrowserConverter runs the browser's own print-to-pdf mode as a subprocess.
type BrowserConverter struct {
	browser    string
	timeout    time.Duration
	candidates []string
	lookPath   func(string) (string, error)
}

// NewBrowserConverter creates a subprocess converter.
func NewBrowserConverter(cfg *Config) *BrowserConverter {
	return &BrowserConverter{
		browser:    cfg.Browser,
		timeout:    timeoutOrDefault(cfg.Timeout),
		candidates: installCandidates(runtime.GOOS),
		lookPath:   exec.LookPath,
	}
}

func installCandidates(goos string) []string {
	switch goos {
	case "windows":
		var out []string
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles", "LocalAppData"} {
			base := os.Getenv(env)
			if base == "" {
				continue
			}
			out = append(out,
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return out
	case "darwin":
		return []string{
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	default:
		return nil
	}
}

// FindBrowser returns the executable to run: the configured one, then the
// first existing install location, then the first name found on PATH.
func (c *BrowserConverter) FindBrowser() (string, error) {
	if c.browser != "" {
		if isFile(c.browser) {
			return c.browser, nil
		}
		if p, err := c.lookPath(c.browser); err == nil {
			return p, nil
		}
		return "", errors.FailedPreconditionf("configured browser %q not found", c.browser)
	}

	for _, p := range c.candidates {
		if isFile(p) {
			return p, nil
		}
	}
	for _, name := range PathNames {
		if p, err := c.lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", errors.FailedPrecondition("no Edge or Chrome executable found; set a browser path").
		WithMeta("searched", append(append([]string{}, c.candidates...), PathNames...))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Convert runs <browser> --headless --disable-gpu --print-to-pdf=<pdf> <html>.
func (c *BrowserConverter) Convert(ctx context.Context, input *ConvertInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	browser, err := c.FindBrowser()
	if err != nil {
		return err
	}

	htmlPath, pdfPath, err := absPaths(input)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, browser,
		"--headless",
		"--disable-gpu",
		"--print-to-pdf="+pdfPath,
		htmlPath,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	slog.DebugContext(ctx, "running browser", "browser", browser, "html", htmlPath, "pdf", pdfPath)

	err = cmd.Run()
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return errors.Canceled("pdf conversion canceled")
	case stderrors.Is(runCtx.Err(), context.DeadlineExceeded):
		return errors.DeadlineExceededf("browser did not finish within %s", c.timeout).
			WithMeta("browser", browser)
	default:
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			diag := strings.TrimSpace(stderr.String())
			if diag == "" {
				diag = strings.TrimSpace(stdout.String())
			}
			return errors.Internalf("browser exited with status %d: %s", exitErr.ExitCode(), diag).
				WithMeta("browser", browser).
				WithMeta("stderr", stderr.String()).
				WithMeta("stdout", stdout.String())
		}
		return errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to start browser").
			WithMeta("browser", browser)
	}

	if !isFile(pdfPath) {
		return errors.Internalf("browser exited without writing %s", pdfPath).
			WithMeta("stderr", stderr.String())
	}

	slog.InfoContext(ctx, "pdf generated", "path", pdfPath)
	return nil
}
