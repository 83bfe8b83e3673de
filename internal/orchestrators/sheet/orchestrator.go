// Package sheet implements the character sheet orchestrator
package sheet

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/form"
	"github.com/KirkDiggler/agency-sheet/internal/pdf"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/agency-sheet/internal/render"
	"github.com/KirkDiggler/agency-sheet/internal/repositories/drafts"
	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
)

// Config holds the dependencies for the sheet orchestrator
type Config struct {
	Aggregator  *form.Aggregator
	DraftRepo   drafts.Repository
	Renderer    *render.Renderer
	Converter   pdf.Converter
	IDGenerator idgen.Generator
	Clock       clock.Clock

	// OutputDir receives one directory per saved character.
	OutputDir string
	// ProjectRoot is the base portrait paths are stored relative to.
	ProjectRoot string
	// DraftTTL bounds the lifetime of a draft. Defaults to drafts.DefaultTTL.
	DraftTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Aggregator == nil {
		vb.RequiredField("Aggregator")
	}
	if c.DraftRepo == nil {
		vb.RequiredField("DraftRepo")
	}
	if c.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if c.Converter == nil {
		vb.RequiredField("Converter")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	errors.ValidateRequired("OutputDir", c.OutputDir, vb)
	if c.DraftTTL < 0 {
		vb.Field("DraftTTL", "must not be negative")
	}

	return vb.Build()
}

// Orchestrator implements the sheet.Service interface
type Orchestrator struct {
	aggregator  *form.Aggregator
	draftRepo   drafts.Repository
	renderer    *render.Renderer
	converter   pdf.Converter
	idGenerator idgen.Generator
	clock       clock.Clock
	outputDir   string
	projectRoot string
	draftTTL    time.Duration
}

// New creates a new sheet orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		aggregator:  cfg.Aggregator,
		draftRepo:   cfg.DraftRepo,
		renderer:    cfg.Renderer,
		converter:   cfg.Converter,
		idGenerator: cfg.IDGenerator,
		clock:       cfg.Clock,
		outputDir:   cfg.OutputDir,
		projectRoot: cfg.ProjectRoot,
		draftTTL:    cfg.DraftTTL,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.draftTTL == 0 {
		o.draftTTL = drafts.DefaultTTL
	}
	return o, nil
}

// Ensure Orchestrator implements the Service interface
var _ sheet.Service = (*Orchestrator)(nil)

// CreateDraft creates a draft holding the sheet defaults
func (o *Orchestrator) CreateDraft(ctx context.Context, input *sheet.CreateDraftInput) (*sheet.CreateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	draft := o.aggregator.NewDraft()
	if input.Record != nil {
		o.aggregator.Apply(draft, *input.Record, form.ModeEdit)
	}

	now := o.clock.Now()
	draft.ID = o.idGenerator.Generate()
	draft.CreatedAt = now.Unix()
	draft.UpdatedAt = now.Unix()
	draft.ExpiresAt = drafts.Expiry(now, o.draftTTL)

	if _, err := o.draftRepo.Create(ctx, drafts.CreateInput{Draft: draft}); err != nil {
		return nil, errors.Wrap(err, "failed to create draft")
	}

	slog.InfoContext(ctx, "draft created", "draft_id", draft.ID, "anomaly", draft.Value(agency.KeyAnomaly))
	return &sheet.CreateDraftOutput{Draft: draft}, nil
}

// GetDraft retrieves a draft by ID
func (o *Orchestrator) GetDraft(ctx context.Context, input *sheet.GetDraftInput) (*sheet.GetDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	return &sheet.GetDraftOutput{Draft: draft}, nil
}

// UpdateDraft applies field edits in order and stores the draft
func (o *Orchestrator) UpdateDraft(ctx context.Context, input *sheet.UpdateDraftInput) (*sheet.UpdateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if len(input.Updates) == 0 {
		return nil, errors.InvalidArgument("at least one update is required")
	}

	draft, err := o.getDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	for _, u := range input.Updates {
		if u.Key == agency.KeyImagePath {
			o.aggregator.SetImage(draft, u.Value, o.projectRoot)
			continue
		}
		if err := o.aggregator.Set(draft, u.Key, u.Value, form.ModeEdit); err != nil {
			return nil, errors.Wrapf(err, "failed to set %s", u.Key).
				WithMeta("draft_id", draft.ID)
		}
	}

	if err := o.storeDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &sheet.UpdateDraftOutput{Draft: draft}, nil
}

// DeleteDraft deletes a draft
func (o *Orchestrator) DeleteDraft(ctx context.Context, input *sheet.DeleteDraftInput) (*sheet.DeleteDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.draftRepo.Delete(ctx, drafts.DeleteInput{ID: input.DraftID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete draft").
			WithMeta("draft_id", input.DraftID)
	}

	slog.InfoContext(ctx, "draft deleted", "draft_id", input.DraftID)
	return &sheet.DeleteDraftOutput{}, nil
}

// PreviewDraft gathers the draft, or takes the given record, and optionally
// renders it
func (o *Orchestrator) PreviewDraft(ctx context.Context, input *sheet.PreviewDraftInput) (*sheet.PreviewDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &sheet.PreviewDraftOutput{}
	if input.Record != nil {
		out.Record = *input.Record
	} else {
		draft, err := o.getDraft(ctx, input.DraftID)
		if err != nil {
			return nil, err
		}
		out.Record = o.aggregator.Gather(draft)
	}

	if input.HTML {
		var err error
		out.HTML, err = o.renderer.Render(ctx, out.Record)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadRecord reads a saved record into a draft without running derivations,
// so every stored value survives as written
func (o *Orchestrator) LoadRecord(ctx context.Context, input *sheet.LoadRecordInput) (*sheet.LoadRecordOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("jsonPath", input.JSONPath, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	rec, err := render.ReadRecord(input.JSONPath)
	if err != nil {
		return nil, err
	}

	var draft *agency.Draft
	if input.DraftID != "" {
		draft, err = o.getDraft(ctx, input.DraftID)
	} else {
		var created *sheet.CreateDraftOutput
		created, err = o.CreateDraft(ctx, &sheet.CreateDraftInput{})
		if created != nil {
			draft = created.Draft
		}
	}
	if err != nil {
		return nil, err
	}

	o.aggregator.Apply(draft, rec, form.ModeLoad)
	if err := o.storeDraft(ctx, draft); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "record loaded", "draft_id", draft.ID, "path", input.JSONPath)
	return &sheet.LoadRecordOutput{Draft: draft}, nil
}

// ListCatalogs returns the choices the selection fields offer
func (o *Orchestrator) ListCatalogs(_ context.Context, input *sheet.ListCatalogsInput) (*sheet.ListCatalogsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &sheet.ListCatalogsOutput{
		Anomalies:    o.aggregator.Choices(agency.KeyAnomaly),
		Roles:        o.aggregator.Choices(agency.KeyRole),
		Stats:        agency.StatNames,
		Competencies: []sheet.CompetencyChoice{},
	}
	for _, name := range o.aggregator.Choices(agency.KeyReality) {
		out.Competencies = append(out.Competencies, sheet.CompetencyChoice{
			Name:  name,
			Types: o.aggregator.CompetencyTypes(name),
		})
	}
	return out, nil
}

// RenderRecord renders a record to HTML and, when asked, converts it to PDF
func (o *Orchestrator) RenderRecord(ctx context.Context, input *sheet.RenderRecordInput) (*sheet.RenderRecordOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	rendered, err := o.renderer.RenderFile(ctx, &render.RenderFileInput{
		Record:       input.Record,
		JSONPath:     input.JSONPath,
		TemplatePath: input.TemplatePath,
		OutPath:      input.OutPath,
	})
	if err != nil {
		return nil, err
	}

	out := &sheet.RenderRecordOutput{HTMLPath: rendered.Path}
	if !input.PDF {
		return out, nil
	}

	pdfPath := input.PDFPath
	if pdfPath == "" {
		pdfPath = replaceExt(rendered.Path, ".pdf")
	}
	if err := o.converter.Convert(ctx, &pdf.ConvertInput{HTMLPath: rendered.Path, PDFPath: pdfPath}); err != nil {
		return out, errors.Wrap(err, "failed to convert html to pdf").
			WithMeta("html", rendered.Path)
	}
	out.PDFPath = pdfPath
	return out, nil
}

func (o *Orchestrator) getDraft(ctx context.Context, id string) (*agency.Draft, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", id, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	got, err := o.draftRepo.Get(ctx, drafts.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get draft").
			WithMeta("draft_id", id)
	}
	return got.Draft, nil
}

func (o *Orchestrator) storeDraft(ctx context.Context, draft *agency.Draft) error {
	draft.UpdatedAt = o.clock.Now().Unix()
	if _, err := o.draftRepo.Update(ctx, drafts.UpdateInput{Draft: draft}); err != nil {
		return errors.Wrap(err, "failed to update draft").
			WithMeta("draft_id", draft.ID)
	}
	return nil
}
