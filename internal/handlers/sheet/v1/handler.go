// Package v1 serves the character sheet service over HTTP
package v1

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KirkDiggler/agency-sheet/internal/entities/agency"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	SheetService sheet.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.SheetService == nil {
		return errors.InvalidArgument("sheet service is required")
	}
	return nil
}

// Handler implements the sheet HTTP API
type Handler struct {
	sheetService sheet.Service
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		sheetService: cfg.SheetService,
	}, nil
}

// UpdateDraftRequest is the body of a draft edit
type UpdateDraftRequest struct {
	Updates []sheet.FieldUpdate `json:"updates"`
}

// SaveDraftRequest is the body of a save
type SaveDraftRequest struct {
	SkipPDF bool `json:"skip_pdf"`
}

// SaveDraftResponse lists the files a save produced. Error is set when the
// PDF step failed after the JSON and HTML were written.
type SaveDraftResponse struct {
	Dir      string     `json:"dir"`
	JSONPath string     `json:"json_path"`
	HTMLPath string     `json:"html_path"`
	PDFPath  string     `json:"pdf_path,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// ErrorResponse wraps ErrorBody at the top level of a response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Health reports that the server is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListCatalogs returns the selection choices
func (h *Handler) ListCatalogs(c *gin.Context) {
	out, err := h.sheetService.ListCatalogs(c.Request.Context(), &sheet.ListCatalogsInput{})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CreateDraft creates a draft, seeded from an optional record body
func (h *Handler) CreateDraft(c *gin.Context) {
	input := &sheet.CreateDraftInput{}
	if c.Request.ContentLength != 0 {
		var rec agency.Record
		if err := c.ShouldBindJSON(&rec); err != nil {
			h.fail(c, errors.InvalidArgumentf("invalid record: %v", err))
			return
		}
		input.Record = &rec
	}

	out, err := h.sheetService.CreateDraft(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out.Draft)
}

// GetDraft returns a draft
func (h *Handler) GetDraft(c *gin.Context) {
	out, err := h.sheetService.GetDraft(c.Request.Context(), &sheet.GetDraftInput{DraftID: c.Param("id")})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Draft)
}

// UpdateDraft applies field edits to a draft
func (h *Handler) UpdateDraft(c *gin.Context) {
	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.InvalidArgumentf("invalid update: %v", err))
		return
	}

	out, err := h.sheetService.UpdateDraft(c.Request.Context(), &sheet.UpdateDraftInput{
		DraftID: c.Param("id"),
		Updates: req.Updates,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Draft)
}

// DeleteDraft deletes a draft
func (h *Handler) DeleteDraft(c *gin.Context) {
	if _, err := h.sheetService.DeleteDraft(c.Request.Context(), &sheet.DeleteDraftInput{DraftID: c.Param("id")}); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRecord returns the record a draft gathers into
func (h *Handler) GetRecord(c *gin.Context) {
	out, err := h.sheetService.PreviewDraft(c.Request.Context(), &sheet.PreviewDraftInput{DraftID: c.Param("id")})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Record)
}

// PreviewDraft renders a draft as HTML
func (h *Handler) PreviewDraft(c *gin.Context) {
	out, err := h.sheetService.PreviewDraft(c.Request.Context(), &sheet.PreviewDraftInput{
		DraftID: c.Param("id"),
		HTML:    true,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out.HTML))
}

// SaveDraft writes the draft's JSON, HTML and PDF files
func (h *Handler) SaveDraft(c *gin.Context) {
	var req SaveDraftRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, errors.InvalidArgumentf("invalid save request: %v", err))
			return
		}
	}

	out, err := h.sheetService.SaveDraft(c.Request.Context(), &sheet.SaveDraftInput{
		DraftID: c.Param("id"),
		SkipPDF: req.SkipPDF,
	})
	if err != nil && out == nil {
		h.fail(c, err)
		return
	}

	resp := SaveDraftResponse{
		Dir:      out.Dir,
		JSONPath: out.JSONPath,
		HTMLPath: out.HTMLPath,
		PDFPath:  out.PDFPath,
	}
	status := http.StatusOK
	if err != nil {
		body := errorBody(err)
		resp.Error = &body
		status = errors.GetCode(err).HTTPStatus()
		slog.WarnContext(c.Request.Context(), "save finished with errors", "draft_id", c.Param("id"), "error", err)
	}
	c.JSON(status, resp)
}

// RenderRecord renders a posted record as HTML without storing anything
func (h *Handler) RenderRecord(c *gin.Context) {
	var rec agency.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.fail(c, errors.InvalidArgumentf("invalid record: %v", err))
		return
	}

	out, err := h.sheetService.PreviewDraft(c.Request.Context(), &sheet.PreviewDraftInput{
		Record: &rec,
		HTML:   true,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out.HTML))
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeInternal {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(code.HTTPStatus(), ErrorResponse{Error: errorBody(err)})
}

func errorBody(err error) ErrorBody {
	return ErrorBody{
		Code:    errors.GetCode(err).String(),
		Message: err.Error(),
		Meta:    errors.GetMeta(err),
	}
}
