// Package domain contains domain models for the application.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// LayerKind identifies one of the four poster layers.
type LayerKind string

// Layer kinds, in paint order: image below, QR code on top.
const (
	LayerImage    LayerKind = "image"
	LayerTitle    LayerKind = "title"
	LayerSubtitle LayerKind = "subtitle"
	LayerQRCode   LayerKind = "qrcode"
)

// LayerKinds lists every layer kind in paint order.
var LayerKinds = []LayerKind{LayerImage, LayerTitle, LayerSubtitle, LayerQRCode}

// ParseLayerKind converts a path segment into a LayerKind.
func ParseLayerKind(s string) (LayerKind, error) {
	switch LayerKind(s) {
	case LayerImage, LayerTitle, LayerSubtitle, LayerQRCode:
		return LayerKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayerKind, s)
}

// Point is a top-left offset relative to the canvas origin, in whole pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in whole pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TextStyle describes how a text layer is set.
type TextStyle struct {
	Size float64 `json:"size"`
	Bold bool    `json:"bold"`
}

// TextContent is the payload of the title and subtitle layers.
type TextContent struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
}

// ImageContent is the payload of the image layer. UserResized records that
// the user performed an explicit resize, after which the contain-fit aspect
// ratio is advisory only and never re-imposed.
type ImageContent struct {
	IntrinsicWidth  int  `json:"intrinsic_width"`
	IntrinsicHeight int  `json:"intrinsic_height"`
	UserResized     bool `json:"user_resized"`
}

// QRContent is the payload of the QR code layer.
type QRContent struct {
	URL string `json:"url"`
}

// Layer is one positioned, sized visual element on the poster canvas.
// Exactly one of Text/Image/QR is set, matching Kind.
type Layer struct {
	Kind     LayerKind     `json:"kind"`
	Position Point         `json:"position"`
	Size     Size          `json:"size"`
	Text     *TextContent  `json:"text,omitempty"`
	Image    *ImageContent `json:"image,omitempty"`
	QR       *QRContent    `json:"qr,omitempty"`
}

// CanvasState is the per-session editor aggregate: the canvas rectangle and
// the committed state of every layer. It is replaced wholesale on each
// poster generation and mutated only through single-transition commits.
type CanvasState struct {
	ID           string    `json:"id"`
	Generated    bool      `json:"generated"`
	Revision     int64     `json:"revision"`
	CanvasWidth  int       `json:"canvas_width"`
	CanvasHeight int       `json:"canvas_height"`
	Layers       []Layer   `json:"layers"`
	SourceImage  []byte    `json:"source_image,omitempty"`
	SourceMIME   string    `json:"source_mime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Layer returns a pointer to the layer of the given kind, if present.
func (s *CanvasState) Layer(kind LayerKind) (*Layer, bool) {
	for i := range s.Layers {
		if s.Layers[i].Kind == kind {
			return &s.Layers[i], true
		}
	}
	return nil, false
}

// PosterRequest is a validated poster submission. Immutable once built;
// constructed exactly once per generate action by the validation adapter.
type PosterRequest struct {
	Title           string
	Subtitle        string
	URL             string
	ImageBytes      []byte
	ImageMIME       string
	IntrinsicWidth  int
	IntrinsicHeight int
	CanvasWidth     int
	CanvasHeight    int
}

// FieldErrorKind enumerates the validation failure kinds of a form submit.
type FieldErrorKind string

// The closed validation taxonomy.
const (
	ErrEmptyField           FieldErrorKind = "EMPTY_FIELD"
	ErrInvalidURL           FieldErrorKind = "INVALID_URL"
	ErrMissingImage         FieldErrorKind = "MISSING_IMAGE"
	ErrImageTooLarge        FieldErrorKind = "IMAGE_TOO_LARGE"
	ErrUnsupportedImageType FieldErrorKind = "UNSUPPORTED_IMAGE_TYPE"
	ErrInvalidDimension     FieldErrorKind = "INVALID_DIMENSION"
)

// FieldErrors maps a form field name to its validation failure kind.
type FieldErrors map[string]FieldErrorKind

// Strings converts the field errors into the wire representation.
func (fe FieldErrors) Strings() map[string]string {
	if len(fe) == 0 {
		return nil
	}
	out := make(map[string]string, len(fe))
	for field, kind := range fe {
		out[field] = string(kind)
	}
	return out
}

// ExportFilename is the fixed name of the downloaded poster file.
const ExportFilename = "magazine-poster.png"

// ExportArtifact is a rendered poster ready for download.
type ExportArtifact struct {
	Filename string
	MIME     string
	Data     []byte
}

// Sentinel errors shared across the service and HTTP layers.
var (
	// ErrSessionNotFound is returned when no live session has the given ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSurfaceUnavailable is returned when export is invoked before a
	// poster has been generated.
	ErrSurfaceUnavailable = errors.New("composition surface unavailable")
	// ErrRenderFailed wraps rasterization failures during export.
	ErrRenderFailed = errors.New("render failed")
	// ErrUnknownLayerKind is returned for a layer kind outside the four variants.
	ErrUnknownLayerKind = errors.New("unknown layer kind")
	// ErrLayerNotResizable is returned when a resize commit targets a layer
	// other than the image.
	ErrLayerNotResizable = errors.New("layer is not resizable")
	// ErrLayerContentUnavailable is returned when a layer content or preview
	// request targets a kind that has none.
	ErrLayerContentUnavailable = errors.New("layer has no downloadable content")
)
