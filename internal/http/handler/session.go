package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/easel/internal/domain"
	"github.com/roguepikachu/easel/internal/validate"
	"github.com/roguepikachu/easel/pkg"
	"github.com/roguepikachu/easel/pkg/logger"
)

const (
	// TimeFormat is the standard format for time serialization.
	TimeFormat = "2006-01-02T15:04:05Z"
)

// PosterService defines the handler's dependency contract.
type PosterService interface {
	CreateSession(ctx context.Context) (domain.CanvasState, error)
	GetSession(ctx context.Context, id string) (domain.CanvasState, error)
	DeleteSession(ctx context.Context, id string) error
	GeneratePoster(ctx context.Context, id string, req domain.PosterRequest) (domain.CanvasState, error)
	CommitDrag(ctx context.Context, id string, kind domain.LayerKind, proposed domain.Point) (domain.CanvasState, error)
	CommitResize(ctx context.Context, id string, kind domain.LayerKind, delta domain.Size) (domain.CanvasState, error)
	Export(ctx context.Context, id string) (domain.ExportArtifact, error)
	LayerContent(ctx context.Context, id string, kind domain.LayerKind) ([]byte, string, error)
	LayerPreview(ctx context.Context, id string, kind domain.LayerKind) ([]byte, error)
}

// Handler handles HTTP requests for poster editor sessions.
type Handler struct {
	svc    PosterService
	limits validate.Limits
}

// NewHandler constructs a Handler with the given PosterService and
// validation limits.
func NewHandler(svc PosterService, limits validate.Limits) *Handler {
	return &Handler{svc: svc, limits: limits}
}

// CreateSession opens an empty editor session.
func (h *Handler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.svc.CreateSession(ctx)
	if err != nil {
		logger.Error(ctx, "failed to create session: %s", err.Error())
		c.JSON(http.StatusInternalServerError, pkg.NewErrorResponse("internal_error", "internal server error"))
		return
	}
	logger.WithField(ctx, "id", state.ID).Info("session created")
	c.JSON(http.StatusCreated, sessionDTO(state))
}

// GetSession returns the current canvas state projection of one session.
func (h *Handler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.svc.GetSession(ctx, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err, "failed to get session")
		return
	}
	c.JSON(http.StatusOK, sessionDTO(state))
}

// DeleteSession discards a session.
func (h *Handler) DeleteSession(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.svc.DeleteSession(ctx, id); err != nil {
		h.writeServiceError(c, err, "failed to delete session")
		return
	}
	logger.WithField(ctx, "id", id).Info("session deleted")
	c.Status(http.StatusNoContent)
}

// GeneratePoster validates a multipart form submission and replaces the
// session's layer set wholesale. Validation failures report every failing
// field at once plus a single notification; the canvas state is untouched.
func (h *Handler) GeneratePoster(c *gin.Context) {
	ctx := c.Request.Context()
	raw, err := h.readPosterForm(c)
	if err != nil {
		logger.Error(ctx, "failed to read poster form: %s", err.Error())
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", "invalid multipart form").WithDetails(err.Error()))
		return
	}

	req, fieldErrors := validate.Poster(raw, h.limits)
	if len(fieldErrors) > 0 {
		logger.With(ctx, map[string]any{"fields": fieldErrors.Strings()}).Warn("poster submission rejected")
		c.JSON(http.StatusBadRequest,
			pkg.NewErrorResponse("validation_failed", "poster submission failed validation").
				WithFieldErrors(fieldErrors.Strings()).
				WithNotification(pkg.Notify("Could not generate poster", "Please fix the highlighted fields and try again.", pkg.SeverityDestructive)))
		return
	}

	state, err := h.svc.GeneratePoster(ctx, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err, "failed to generate poster")
		return
	}
	logger.With(ctx, map[string]any{"id": state.ID, "revision": state.Revision, "canvas": fmt.Sprintf("%dx%d", state.CanvasWidth, state.CanvasHeight)}).Info("poster generated")
	c.JSON(http.StatusOK, sessionDTO(state))
}

// CommitPosition applies a drag-stop commit to one layer.
func (h *Handler) CommitPosition(c *gin.Context) {
	ctx := c.Request.Context()
	kind, err := domain.ParseLayerKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", err.Error()))
		return
	}
	var req domain.CommitPositionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", "invalid request").WithDetails(err.Error()))
		return
	}
	state, err := h.svc.CommitDrag(ctx, c.Param("id"), kind, domain.Point{X: req.X, Y: req.Y})
	if err != nil {
		h.writeServiceError(c, err, "failed to commit drag")
		return
	}
	logger.With(ctx, map[string]any{"id": state.ID, "layer": kind, "revision": state.Revision}).Debug("drag committed")
	c.JSON(http.StatusOK, sessionDTO(state))
}

// CommitSize applies a resize-stop commit to the image layer.
func (h *Handler) CommitSize(c *gin.Context) {
	ctx := c.Request.Context()
	kind, err := domain.ParseLayerKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", err.Error()))
		return
	}
	var req domain.CommitSizeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", "invalid request").WithDetails(err.Error()))
		return
	}
	state, err := h.svc.CommitResize(ctx, c.Param("id"), kind, domain.Size{Width: req.DeltaWidth, Height: req.DeltaHeight})
	if err != nil {
		h.writeServiceError(c, err, "failed to commit resize")
		return
	}
	logger.With(ctx, map[string]any{"id": state.ID, "layer": kind, "revision": state.Revision}).Debug("resize committed")
	c.JSON(http.StatusOK, sessionDTO(state))
}

// Export rasterizes the current composition and streams it back as a PNG
// download. Export failures carry a notification for the client's toast sink
// and leave the session untouched, so the user may simply retry.
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	artifact, err := h.svc.Export(ctx, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSurfaceUnavailable):
			c.JSON(http.StatusConflict,
				pkg.NewErrorResponse("surface_unavailable", "no poster has been generated yet").
					WithNotification(pkg.Notify("Nothing to export", "Generate a poster before exporting.", pkg.SeverityInfo)))
		case errors.Is(err, domain.ErrRenderFailed):
			logger.Error(ctx, "failed to render export: %s", err.Error())
			c.JSON(http.StatusInternalServerError,
				pkg.NewErrorResponse("render_failed", "the poster could not be rendered").
					WithNotification(pkg.Notify("Export failed", "The poster could not be rendered. Please try again.", pkg.SeverityDestructive)))
		default:
			h.writeServiceError(c, err, "failed to export poster")
		}
		return
	}
	logger.With(ctx, map[string]any{"id": c.Param("id"), "bytes": len(artifact.Data)}).Info("poster exported")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.MIME, artifact.Data)
}

// LayerContent streams the original uploaded image backing the image layer.
func (h *Handler) LayerContent(c *gin.Context) {
	ctx := c.Request.Context()
	kind, err := domain.ParseLayerKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", err.Error()))
		return
	}
	data, mime, err := h.svc.LayerContent(ctx, c.Param("id"), kind)
	if err != nil {
		h.writeServiceError(c, err, "failed to fetch layer content")
		return
	}
	c.Data(http.StatusOK, mime, data)
}

// LayerPreview streams a standalone render of the QR code layer.
func (h *Handler) LayerPreview(c *gin.Context) {
	ctx := c.Request.Context()
	kind, err := domain.ParseLayerKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", err.Error()))
		return
	}
	data, err := h.svc.LayerPreview(ctx, c.Param("id"), kind)
	if err != nil {
		h.writeServiceError(c, err, "failed to render layer preview")
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// readPosterForm extracts the raw multipart fields. The image part reads at
// most one byte past the configured ceiling, enough for the validator to
// classify the upload as too large without buffering an unbounded body.
func (h *Handler) readPosterForm(c *gin.Context) (validate.Input, error) {
	in := validate.Input{
		Title:    c.PostForm(validate.FieldTitle),
		Subtitle: c.PostForm(validate.FieldSubtitle),
		URL:      c.PostForm(validate.FieldURL),
		Width:    c.PostForm(validate.FieldWidth),
		Height:   c.PostForm(validate.FieldHeight),
	}
	fileHeader, err := c.FormFile(validate.FieldImage)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil
		}
		return validate.Input{}, fmt.Errorf("image part: %w", err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return validate.Input{}, fmt.Errorf("open image part: %w", err)
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(io.LimitReader(file, h.limits.MaxImageBytes+1))
	if err != nil {
		return validate.Input{}, fmt.Errorf("read image part: %w", err)
	}
	in.ImageBytes = data
	in.ImagePresent = true
	return in, nil
}

// writeServiceError translates service sentinels into the envelope and
// status map shared by every session endpoint.
func (h *Handler) writeServiceError(c *gin.Context, err error, logMsg string) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, pkg.NewErrorResponse("not_found", "session not found"))
	case errors.Is(err, domain.ErrSurfaceUnavailable):
		c.JSON(http.StatusConflict, pkg.NewErrorResponse("surface_unavailable", "no poster has been generated yet"))
	case errors.Is(err, domain.ErrUnknownLayerKind):
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", err.Error()))
	case errors.Is(err, domain.ErrLayerNotResizable):
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("layer_not_resizable", "only the image layer can be resized"))
	case errors.Is(err, domain.ErrLayerContentUnavailable):
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse("bad_request", err.Error()))
	case errors.Is(err, domain.ErrRenderFailed):
		logger.Error(ctx, "%s: %s", logMsg, err.Error())
		c.JSON(http.StatusInternalServerError, pkg.NewErrorResponse("render_failed", "rendering failed"))
	default:
		logger.Error(ctx, "%s: %s", logMsg, err.Error())
		c.JSON(http.StatusInternalServerError, pkg.NewErrorResponse("internal_error", "internal server error"))
	}
}

// sessionDTO projects the aggregate into its wire shape. Source image bytes
// never travel with the session; clients fetch them via the content endpoint.
func sessionDTO(state domain.CanvasState) domain.SessionResponseDTO {
	resp := domain.SessionResponseDTO{
		ID:           state.ID,
		Generated:    state.Generated,
		Revision:     state.Revision,
		CanvasWidth:  state.CanvasWidth,
		CanvasHeight: state.CanvasHeight,
		CreatedAt:    state.CreatedAt.UTC().Format(TimeFormat),
		UpdatedAt:    state.UpdatedAt.UTC().Format(TimeFormat),
	}
	if !state.ExpiresAt.IsZero() {
		v := state.ExpiresAt.UTC().Format(TimeFormat)
		resp.ExpiresAt = &v
	}
	for _, l := range state.Layers {
		dto := domain.LayerResponseDTO{
			Kind:   string(l.Kind),
			X:      l.Position.X,
			Y:      l.Position.Y,
			Width:  l.Size.Width,
			Height: l.Size.Height,
		}
		if l.Text != nil {
			dto.Text = l.Text.Text
			dto.FontSize = l.Text.Style.Size
			dto.Bold = l.Text.Style.Bold
		}
		if l.Image != nil {
			dto.IntrinsicWidth = l.Image.IntrinsicWidth
			dto.IntrinsicHeight = l.Image.IntrinsicHeight
			dto.UserResized = l.Image.UserResized
		}
		if l.QR != nil {
			dto.URL = l.QR.URL
		}
		resp.Layers = append(resp.Layers, dto)
	}
	return resp
}
