// Package sheet defines the interface for character sheet operations
package sheet

//go:generate mockgen -destination=mock/mock_service.go -package=sheetmock github.com/KirkDiggler/agency-sheet/internal/services/sheet Service

import (
	"context"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
)

// Service defines the interface for character sheet operations
type Service interface {
	// Draft lifecycle
	CreateDraft(ctx context.Context, input *CreateDraftInput) (*CreateDraftOutput, error)
	GetDraft(ctx context.Context, input *GetDraftInput) (*GetDraftOutput, error)
	UpdateDraft(ctx context.Context, input *UpdateDraftInput) (*UpdateDraftOutput, error)
	DeleteDraft(ctx context.Context, input *DeleteDraftInput) (*DeleteDraftOutput, error)

	// Record production
	PreviewDraft(ctx context.Context, input *PreviewDraftInput) (*PreviewDraftOutput, error)
	SaveDraft(ctx context.Context, input *SaveDraftInput) (*SaveDraftOutput, error)
	LoadRecord(ctx context.Context, input *LoadRecordInput) (*LoadRecordOutput, error)

	// Reference data and standalone rendering
	ListCatalogs(ctx context.Context, input *ListCatalogsInput) (*ListCatalogsOutput, error)
	RenderRecord(ctx context.Context, input *RenderRecordInput) (*RenderRecordOutput, error)
}

// CreateDraftInput defines the request for creating a draft
type CreateDraftInput struct {
	// Record is applied over the defaults when set, as an edit would be.
	Record *agency.Record
}

// CreateDraftOutput defines the response for creating a draft
type CreateDraftOutput struct {
	Draft *agency.Draft
}

// GetDraftInput defines the request for getting a draft
type GetDraftInput struct {
	DraftID string
}

// GetDraftOutput defines the response for getting a draft
type GetDraftOutput struct {
	Draft *agency.Draft
}

// FieldUpdate sets one form field. Key is a record key, or 图片路径 for the
// portrait path.
type FieldUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateDraftInput defines the request for editing a draft. Updates are
// applied in order, each deriving dependent fields as a user edit does.
type UpdateDraftInput struct {
	DraftID string
	Updates []FieldUpdate
}

// UpdateDraftOutput defines the response for editing a draft
type UpdateDraftOutput struct {
	Draft *agency.Draft
}

// DeleteDraftInput defines the request for deleting a draft
type DeleteDraftInput struct {
	DraftID string
}

// DeleteDraftOutput defines the response for deleting a draft
type DeleteDraftOutput struct{}

// PreviewDraftInput defines the request for previewing a draft
type PreviewDraftInput struct {
	DraftID string
	// Record is previewed as given instead of a stored draft when set.
	Record *agency.Record
	// HTML also renders the record when set.
	HTML bool
}

// PreviewDraftOutput defines the response for previewing a draft
type PreviewDraftOutput struct {
	Record agency.Record
	HTML   string
}

// SaveDraftInput defines the request for saving a draft
type SaveDraftInput struct {
	DraftID string
	// SkipPDF stops the pipeline after the HTML file.
	SkipPDF bool
}

// SaveDraftOutput lists the files the save produced. On a PDF failure it is
// returned together with the error, holding the JSON and HTML paths.
type SaveDraftOutput struct {
	Record   agency.Record
	Dir      string
	JSONPath string
	HTMLPath string
	PDFPath  string
}

// LoadRecordInput defines the request for loading a saved record
type LoadRecordInput struct {
	JSONPath string
	// DraftID names the draft to load into. A new draft is created when empty.
	DraftID string
}

// LoadRecordOutput defines the response for loading a saved record
type LoadRecordOutput struct {
	Draft *agency.Draft
}

// ListCatalogsInput defines the request for listing catalog choices
type ListCatalogsInput struct{}

// CompetencyChoice is a competency name with the types it offers.
type CompetencyChoice struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// ListCatalogsOutput defines the response for listing catalog choices
type ListCatalogsOutput struct {
	Anomalies    []string           `json:"anomalies"`
	Competencies []CompetencyChoice `json:"competencies"`
	Roles        []string           `json:"roles"`
	Stats        []string           `json:"stats"`
}

// RenderRecordInput defines the request for rendering a record file
type RenderRecordInput struct {
	// Record is rendered when set; otherwise it is read from JSONPath.
	Record       *agency.Record
	JSONPath     string
	TemplatePath string
	OutPath      string
	// PDF also converts the rendered HTML, to PDFPath or next to the HTML.
	PDF     bool
	PDFPath string
}

// RenderRecordOutput defines the response for rendering a record file
type RenderRecordOutput struct {
	HTMLPath string
	PDFPath  string
}
