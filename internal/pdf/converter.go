// Package pdf converts rendered sheets to PDF through a headless browser.
package pdf

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

//go:generate mockgen -destination=mock/mock_converter.go -package=pdfmock github.com/KirkDiggler/agency-sheet/internal/pdf Converter

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 60 * time.Second

// Engines selectable in Config.
const (
	EngineExec = "exec"
	EngineRod  = "rod"
)

// ConvertInput names the source HTML and the PDF to produce.
type ConvertInput struct {
	HTMLPath string
	PDFPath  string
}

// Converter prints an HTML file to PDF.
type Converter interface {
	// Convert fails with FailedPrecondition when no browser is available,
	// DeadlineExceeded when the browser does not finish in time and Internal
	// when it reports a failure.
	Convert(ctx context.Context, input *ConvertInput) error
}

// Config selects and configures a converter.
type Config struct {
	// Engine is EngineExec (default) or EngineRod.
	Engine string
	// Browser is an executable path or name. Discovered when empty.
	Browser string
	Timeout time.Duration
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Engine != "" {
		errors.ValidateEnum("Engine", c.Engine, []string{EngineExec, EngineRod}, vb)
	}
	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}
	return vb.Build()
}

// New returns the converter selected by cfg.
func New(cfg *Config) (Converter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pdf config")
	}

	if cfg.Engine == EngineRod {
		return NewRodConverter(cfg), nil
	}
	return NewBrowserConverter(cfg), nil
}

func validateInput(input *ConvertInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("HTMLPath", input.HTMLPath, vb)
	errors.ValidateRequired("PDFPath", input.PDFPath, vb)
	return vb.Build()
}

// absPaths resolves both paths and creates the PDF's directory.
func absPaths(input *ConvertInput) (htmlPath, pdfPath string, err error) {
	htmlPath, err = filepath.Abs(input.HTMLPath)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to resolve html path")
	}
	if _, err := os.Stat(htmlPath); err != nil {
		return "", "", errors.NotFoundf("html file %s not found", htmlPath)
	}
	pdfPath, err = filepath.Abs(input.PDFPath)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to resolve pdf path")
	}
	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return "", "", errors.Wrap(err, "failed to create pdf directory").WithMeta("path", pdfPath)
	}
	return htmlPath, pdfPath, nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
