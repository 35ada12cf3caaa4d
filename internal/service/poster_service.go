// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roguepikachu/easel/internal/domain"
	"github.com/roguepikachu/easel/internal/geometry"
	"github.com/roguepikachu/easel/internal/repository"
)

// Reference layout applied when a poster is generated.
const (
	// LayoutInset is the pixel margin between default layer positions and
	// the canvas edges.
	LayoutInset = 24
	// TitleSubtitleGap separates the subtitle from the title block.
	TitleSubtitleGap = 12
	// DefaultQREdge is the QR code edge, shrunk when the canvas is smaller.
	DefaultQREdge = 128
	// MinResizeEdge is the smallest width and height a resize commit can
	// reach while the canvas allows it.
	MinResizeEdge = 100
	// TitleFontSize and SubtitleFontSize are the default text styles.
	TitleFontSize    = 56
	SubtitleFontSize = 32
)

var (
	titleStyle    = domain.TextStyle{Size: TitleFontSize, Bold: true}
	subtitleStyle = domain.TextStyle{Size: SubtitleFontSize}
)

// TextMeasurer resolves the pixel box of a text layer before placement.
type TextMeasurer interface {
	Measure(text string, style domain.TextStyle) (domain.Size, error)
}

// PosterRenderer rasterizes generated posters and layer previews.
type PosterRenderer interface {
	Export(ctx context.Context, state *domain.CanvasState) ([]byte, error)
	QRPreview(url string, edge int) ([]byte, error)
}

// Service owns every CanvasState transition: sessions move Empty →
// Generated on submit and loop on Generated for each commit. Every mutation
// loads the aggregate, applies exactly one transition, bumps Revision and
// saves the whole value back.
type Service struct {
	repo       repository.SessionRepository
	cache      repository.ExportCache
	renderer   PosterRenderer
	measurer   TextMeasurer
	clock      Clock
	newID      func() string
	sessionTTL time.Duration
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithIDGenerator overrides the session ID source.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// WithSessionTTL sets the idle lifetime applied to sessions; zero disables
// expiry.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

// NewService creates a new Service with the given collaborators.
func NewService(repo repository.SessionRepository, cache repository.ExportCache, renderer PosterRenderer, measurer TextMeasurer, clock Clock) *Service {
	return NewServiceWithOptions(repo, cache, renderer, measurer, clock)
}

// NewServiceWithOptions creates a Service and applies functional options.
func NewServiceWithOptions(repo repository.SessionRepository, cache repository.ExportCache, renderer PosterRenderer, measurer TextMeasurer, clock Clock, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		cache:    cache,
		renderer: renderer,
		measurer: measurer,
		clock:    clock,
		newID:    generateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateID returns a new unique ID for a session.
func generateID() string {
	return uuid.New().String()
}

// CreateSession opens an empty editor session. No layers exist until a
// poster is generated.
func (s *Service) CreateSession(ctx context.Context) (domain.CanvasState, error) {
	now := s.clock.Now()
	state := domain.CanvasState{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.sessionTTL > 0 {
		state.ExpiresAt = now.Add(s.sessionTTL)
	}
	if err := s.repo.Insert(ctx, state); err != nil {
		return domain.CanvasState{}, fmt.Errorf("insert session: %w", err)
	}
	return state, nil
}

// GetSession returns the current editor state.
func (s *Service) GetSession(ctx context.Context, id string) (domain.CanvasState, error) {
	return s.load(ctx, id)
}

// DeleteSession discards the session and anything cached for it.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w", domain.ErrSessionNotFound)
		}
		return fmt.Errorf("delete session: %w", err)
	}
	s.cache.Drop(ctx, id)
	return nil
}

// GeneratePoster replaces the whole layer set from a validated submission.
// Prior layers, including any user resize, do not survive a re-submit.
func (s *Service) GeneratePoster(ctx context.Context, id string, req domain.PosterRequest) (domain.CanvasState, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return domain.CanvasState{}, err
	}
	canvas := domain.Size{Width: req.CanvasWidth, Height: req.CanvasHeight}

	imageSize := geometry.ContainFit(domain.Size{Width: req.IntrinsicWidth, Height: req.IntrinsicHeight}, canvas)

	titleSize, err := s.measureBox(req.Title, titleStyle, canvas)
	if err != nil {
		return domain.CanvasState{}, fmt.Errorf("measure title: %w", err)
	}
	titlePos := geometry.ClampPoint(domain.Point{X: LayoutInset, Y: LayoutInset}, titleSize, canvas)

	subtitleSize, err := s.measureBox(req.Subtitle, subtitleStyle, canvas)
	if err != nil {
		return domain.CanvasState{}, fmt.Errorf("measure subtitle: %w", err)
	}
	subtitlePos := geometry.ClampPoint(
		domain.Point{X: LayoutInset, Y: titlePos.Y + titleSize.Height + TitleSubtitleGap},
		subtitleSize, canvas,
	)

	qrEdge := min(DefaultQREdge, canvas.Width, canvas.Height)
	qrSize := domain.Size{Width: qrEdge, Height: qrEdge}
	qrPos := geometry.ClampPoint(
		domain.Point{X: LayoutInset, Y: canvas.Height - LayoutInset - qrEdge},
		qrSize, canvas,
	)

	state.Generated = true
	state.CanvasWidth = req.CanvasWidth
	state.CanvasHeight = req.CanvasHeight
	state.SourceImage = req.ImageBytes
	state.SourceMIME = req.ImageMIME
	state.Layers = []domain.Layer{
		{
			Kind: domain.LayerImage,
			Size: imageSize,
			Image: &domain.ImageContent{
				IntrinsicWidth:  req.IntrinsicWidth,
				IntrinsicHeight: req.IntrinsicHeight,
			},
		},
		{
			Kind:     domain.LayerTitle,
			Position: titlePos,
			Size:     titleSize,
			Text:     &domain.TextContent{Text: req.Title, Style: titleStyle},
		},
		{
			Kind:     domain.LayerSubtitle,
			Position: subtitlePos,
			Size:     subtitleSize,
			Text:     &domain.TextContent{Text: req.Subtitle, Style: subtitleStyle},
		},
		{
			Kind:     domain.LayerQRCode,
			Position: qrPos,
			Size:     qrSize,
			QR:       &domain.QRContent{URL: req.URL},
		},
	}
	return s.commit(ctx, state)
}

// CommitDrag places a layer at the proposed corner, clamped so the layer
// rectangle stays inside the canvas. Re-committing an already clamped
// position yields the identical geometry.
func (s *Service) CommitDrag(ctx context.Context, id string, kind domain.LayerKind, proposed domain.Point) (domain.CanvasState, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return domain.CanvasState{}, err
	}
	layer, err := s.liveLayer(&state, kind)
	if err != nil {
		return domain.CanvasState{}, err
	}
	canvas := domain.Size{Width: state.CanvasWidth, Height: state.CanvasHeight}
	layer.Position = geometry.ClampPoint(proposed, layer.Size, canvas)
	return s.commit(ctx, state)
}

// CommitResize grows or shrinks the image layer by the given deltas. The
// result clamps to [min(100, canvas), canvas] per axis, so re-applying a
// boundary-exceeding delta never drifts past the clamp. Only the image
// layer is resizable.
func (s *Service) CommitResize(ctx context.Context, id string, kind domain.LayerKind, delta domain.Size) (domain.CanvasState, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return domain.CanvasState{}, err
	}
	layer, err := s.liveLayer(&state, kind)
	if err != nil {
		return domain.CanvasState{}, err
	}
	if kind != domain.LayerImage {
		return domain.CanvasState{}, fmt.Errorf("%w: %s", domain.ErrLayerNotResizable, kind)
	}
	canvas := domain.Size{Width: state.CanvasWidth, Height: state.CanvasHeight}
	proposed := domain.Size{
		Width:  layer.Size.Width + delta.Width,
		Height: layer.Size.Height + delta.Height,
	}
	layer.Size = geometry.ClampSize(proposed, domain.Size{Width: MinResizeEdge, Height: MinResizeEdge}, canvas)
	// Growing the layer can push its far edge past the canvas.
	layer.Position = geometry.ClampPoint(layer.Position, layer.Size, canvas)
	layer.Image.UserResized = true
	return s.commit(ctx, state)
}

// Export rasterizes the committed state to a PNG artifact. Artifacts are
// cached per revision, so repeated exports of an unchanged poster render
// once.
func (s *Service) Export(ctx context.Context, id string) (domain.ExportArtifact, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return domain.ExportArtifact{}, err
	}
	if !state.Generated {
		return domain.ExportArtifact{}, fmt.Errorf("%w", domain.ErrSurfaceUnavailable)
	}
	if data, ok := s.cache.Get(ctx, id, state.Revision); ok {
		return exportArtifact(data), nil
	}
	data, err := s.renderer.Export(ctx, &state)
	if err != nil {
		return domain.ExportArtifact{}, err
	}
	s.cache.Put(ctx, id, state.Revision, data)
	return exportArtifact(data), nil
}

// LayerContent returns the original uploaded bytes backing the image layer,
// so a re-attaching client can repaint its local canvas.
func (s *Service) LayerContent(ctx context.Context, id string, kind domain.LayerKind) ([]byte, string, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if _, err := s.liveLayer(&state, kind); err != nil {
		return nil, "", err
	}
	if kind != domain.LayerImage {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrLayerContentUnavailable, kind)
	}
	return state.SourceImage, state.SourceMIME, nil
}

// LayerPreview renders the QR code layer as a standalone PNG at its
// committed size.
func (s *Service) LayerPreview(ctx context.Context, id string, kind domain.LayerKind) ([]byte, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	layer, err := s.liveLayer(&state, kind)
	if err != nil {
		return nil, err
	}
	if kind != domain.LayerQRCode {
		return nil, fmt.Errorf("%w: %s", domain.ErrLayerContentUnavailable, kind)
	}
	data, err := s.renderer.QRPreview(layer.QR.URL, layer.Size.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return data, nil
}

// load translates storage absence into the domain not-found error.
func (s *Service) load(ctx context.Context, id string) (domain.CanvasState, error) {
	state, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CanvasState{}, fmt.Errorf("%w", domain.ErrSessionNotFound)
		}
		return domain.CanvasState{}, fmt.Errorf("find session: %w", err)
	}
	return state, nil
}

// liveLayer returns the layer of the given kind. A session that has not
// generated a poster has no layers and therefore no composition surface.
func (s *Service) liveLayer(state *domain.CanvasState, kind domain.LayerKind) (*domain.Layer, error) {
	if !state.Generated {
		return nil, fmt.Errorf("%w", domain.ErrSurfaceUnavailable)
	}
	layer, ok := state.Layer(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownLayerKind, kind)
	}
	return layer, nil
}

// commit stamps, bumps and saves the aggregate in one transition.
func (s *Service) commit(ctx context.Context, state domain.CanvasState) (domain.CanvasState, error) {
	now := s.clock.Now()
	state.Revision++
	state.UpdatedAt = now
	if s.sessionTTL > 0 {
		state.ExpiresAt = now.Add(s.sessionTTL)
	}
	if err := s.repo.Save(ctx, state); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CanvasState{}, fmt.Errorf("%w", domain.ErrSessionNotFound)
		}
		return domain.CanvasState{}, fmt.Errorf("save session: %w", err)
	}
	return state, nil
}

// measureBox measures text and caps the box at the canvas so committed
// bounds always hold.
func (s *Service) measureBox(text string, style domain.TextStyle, canvas domain.Size) (domain.Size, error) {
	measured, err := s.measurer.Measure(text, style)
	if err != nil {
		return domain.Size{}, err
	}
	return geometry.ClampSize(measured, domain.Size{Width: 1, Height: 1}, canvas), nil
}

func exportArtifact(data []byte) domain.ExportArtifact {
	return domain.ExportArtifact{
		Filename: domain.ExportFilename,
		MIME:     "image/png",
		Data:     data,
	}
}
