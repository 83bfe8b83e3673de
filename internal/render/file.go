package render

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/clock"
)

// TimestampLayout formats the time part of default output file names.
const TimestampLayout = "20060102_150405"

// Config configures a Renderer.
type Config struct {
	// Template is used when a request names no template file. Defaults to
	// the built-in template.
	Template *Template
	// ProjectRoot resolves relative portrait paths.
	ProjectRoot string
	// OutputDir receives files rendered without an explicit output path.
	OutputDir string
	Clock     clock.Clock
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("OutputDir", c.OutputDir, vb)
	return vb.Build()
}

// Renderer renders records to HTML files.
type Renderer struct {
	tmpl        *Template
	projectRoot string
	outputDir   string
	clock       clock.Clock
}

// New creates a renderer.
func New(cfg *Config) (*Renderer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid renderer config")
	}

	r := &Renderer{
		tmpl:        cfg.Template,
		projectRoot: cfg.ProjectRoot,
		outputDir:   cfg.OutputDir,
		clock:       cfg.Clock,
	}
	if r.tmpl == nil {
		r.tmpl = DefaultTemplate()
	}
	if r.clock == nil {
		r.clock = clock.New()
	}
	return r, nil
}

// Render renders a record with the configured template.
func (r *Renderer) Render(ctx context.Context, rec agency.Record) (string, error) {
	html, err := r.tmpl.Execute(ctx, rec, r.projectRoot)
	if err != nil {
		return "", errors.Wrap(err, "failed to render sheet")
	}
	return html, nil
}

// RenderFileInput names the record, template and destination of a render.
type RenderFileInput struct {
	// Record is rendered when set; otherwise the record is read from JSONPath.
	Record   *agency.Record
	JSONPath string
	// TemplatePath overrides the configured template.
	TemplatePath string
	// OutPath is the destination. When empty a timestamped file named after
	// the character is created in the output directory.
	OutPath string
}

// RenderFileOutput reports where the HTML was written.
type RenderFileOutput struct {
	Path string
}

// RenderFile renders a record into an HTML file. Missing optional record
// keys never fail; unreadable inputs and unwritable outputs do.
func (r *Renderer) RenderFile(ctx context.Context, input *RenderFileInput) (*RenderFileOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	rec, err := r.record(input)
	if err != nil {
		return nil, err
	}

	tmpl := r.tmpl
	if input.TemplatePath != "" {
		tmpl, err = LoadTemplate(input.TemplatePath)
		if err != nil {
			return nil, err
		}
	}

	html, err := tmpl.Execute(ctx, rec, r.projectRoot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render sheet")
	}

	outPath := input.OutPath
	if outPath == "" {
		outPath = r.DefaultOutPath(rec)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory").WithMeta("path", outPath)
	}
	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		return nil, errors.Wrap(err, "failed to write html").WithMeta("path", outPath)
	}

	slog.InfoContext(ctx, "html generated", "path", outPath, "abilities", len(rec.Abilities))
	return &RenderFileOutput{Path: outPath}, nil
}

func (r *Renderer) record(input *RenderFileInput) (agency.Record, error) {
	if input.Record != nil {
		return *input.Record, nil
	}
	if input.JSONPath == "" {
		return agency.Record{}, errors.InvalidArgument("record or json path is required")
	}
	return ReadRecord(input.JSONPath)
}

// DefaultOutPath returns <output dir>/<safe name>_<timestamp>.html, using
// "unknown" when the record has no name.
func (r *Renderer) DefaultOutPath(rec agency.Record) string {
	name := rec.Name
	if name == "" {
		name = "unknown"
	}
	file := SafeFilename(name) + "_" + r.clock.Now().Format(TimestampLayout) + ".html"
	return filepath.Join(r.outputDir, file)
}

// SafeFilename keeps letters, digits and "-_." and replaces every other
// character with an underscore.
func SafeFilename(s string) string {
	mapped := strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == '.' {
			return c
		}
		return '_'
	}, s)
	return strings.TrimSpace(mapped)
}

// LoadTemplate reads and parses a template file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("template %s not found", path)
		}
		return nil, errors.Wrap(err, "failed to read template").WithMeta("path", path)
	}
	return Parse(string(data)), nil
}

// ReadRecord reads a character record JSON file.
func ReadRecord(path string) (agency.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agency.Record{}, errors.NotFoundf("record %s not found", path)
		}
		return agency.Record{}, errors.Wrap(err, "failed to read record").WithMeta("path", path)
	}
	var rec agency.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return agency.Record{}, errors.InvalidArgumentf("record %s is not valid JSON: %v", path, err)
	}
	return rec, nil
}
