package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/roguepikachu/easel/internal/domain"
)

// background is the opaque white every poster is flattened onto.
var background = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Exporter rasterizes composed poster state into PNG artifacts.
type Exporter struct {
	text *TextRenderer
}

// NewExporter constructs an Exporter drawing text through the given renderer.
func NewExporter(text *TextRenderer) *Exporter {
	return &Exporter{text: text}
}

// Export flattens the session state into PNG bytes. Layers paint in z order
// onto a white canvas and clip at its edges. All failures after the surface
// guard wrap ErrRenderFailed.
func (e *Exporter) Export(ctx context.Context, state *domain.CanvasState) ([]byte, error) {
	surface, err := Compose(state)
	if err != nil {
		return nil, err
	}
	canvas := imaging.New(surface.Width, surface.Height, background)
	for _, op := range surface.Ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch op.Layer.Kind {
		case domain.LayerImage:
			canvas, err = e.paintImage(canvas, op, state.SourceImage)
		case domain.LayerTitle, domain.LayerSubtitle:
			err = e.paintText(canvas, op)
		case domain.LayerQRCode:
			canvas, err = e.paintQR(canvas, op)
		}
		if err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", domain.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

// QRPreview renders a standalone QR code PNG at the given edge, used by the
// layer preview endpoint.
func (e *Exporter) QRPreview(url string, edge int) ([]byte, error) {
	return QRPNG(url, edge)
}

func (e *Exporter) paintImage(canvas *image.NRGBA, op PaintOp, source []byte) (*image.NRGBA, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: source image bytes absent", domain.ErrRenderFailed)
	}
	src, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: decode source image: %v", domain.ErrRenderFailed, err)
	}
	resized := imaging.Resize(src, op.Layer.Size.Width, op.Layer.Size.Height, imaging.Lanczos)
	return imaging.Paste(canvas, resized, image.Pt(op.Layer.Position.X, op.Layer.Position.Y)), nil
}

func (e *Exporter) paintText(canvas *image.NRGBA, op PaintOp) error {
	if op.Layer.Text == nil {
		return fmt.Errorf("%w: %s layer carries no text", domain.ErrRenderFailed, op.Layer.Kind)
	}
	if err := e.text.Draw(canvas, op.Layer.Text.Text, op.Layer.Text.Style, op.Layer.Position); err != nil {
		return fmt.Errorf("%w: draw %s: %v", domain.ErrRenderFailed, op.Layer.Kind, err)
	}
	return nil
}

func (e *Exporter) paintQR(canvas *image.NRGBA, op PaintOp) (*image.NRGBA, error) {
	if op.Layer.QR == nil {
		return nil, fmt.Errorf("%w: qrcode layer carries no content", domain.ErrRenderFailed)
	}
	qr, err := QRImage(op.Layer.QR.URL, op.Layer.Size.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	if b := qr.Bounds(); b.Dx() != op.Layer.Size.Width || b.Dy() != op.Layer.Size.Height {
		qr = imaging.Resize(qr, op.Layer.Size.Width, op.Layer.Size.Height, imaging.Lanczos)
	}
	return imaging.Paste(canvas, qr, image.Pt(op.Layer.Position.X, op.Layer.Position.Y)), nil
}
