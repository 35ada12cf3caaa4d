package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/roguepikachu/easel/internal/domain"
)

// textShadowOffset is the pixel offset of the drop shadow behind poster text.
const textShadowOffset = 2

var (
	textFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	textShadow = color.NRGBA{A: 0x99}
)

type faceKey struct {
	size float64
	bold bool
}

// TextRenderer measures and draws text layers using the embedded Go fonts.
// Font faces keep internal raster buffers, so every operation serializes on
// one mutex.
type TextRenderer struct {
	mu      sync.Mutex
	regular *sfnt.Font
	bold    *sfnt.Font
	faces   map[faceKey]font.Face
}

// NewTextRenderer parses the embedded regular and bold font programs once;
// faces at specific sizes are built lazily and cached.
func NewTextRenderer() (*TextRenderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &TextRenderer{
		regular: regular,
		bold:    bold,
		faces:   map[faceKey]font.Face{},
	}, nil
}

// face returns the cached face for a style. Callers must hold mu.
func (r *TextRenderer) face(style domain.TextStyle) (font.Face, error) {
	key := faceKey{size: style.Size, bold: style.Bold}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	program := r.regular
	if style.Bold {
		program = r.bold
	}
	f, err := opentype.NewFace(program, &opentype.FaceOptions{
		Size:    style.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build %gpx face: %w", style.Size, err)
	}
	r.faces[key] = f
	return f, nil
}

// Measure returns the pixel box the text occupies when drawn in the given
// style: advance width by full line height.
func (r *TextRenderer) Measure(text string, style domain.TextStyle) (domain.Size, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := r.face(style)
	if err != nil {
		return domain.Size{}, err
	}
	metrics := f.Metrics()
	return domain.Size{
		Width:  font.MeasureString(f, text).Ceil(),
		Height: (metrics.Ascent + metrics.Descent).Ceil(),
	}, nil
}

// Draw paints text onto dst with its top-left corner at pos: a translucent
// shadow first, then the white fill. Both clip at the dst bounds.
func (r *TextRenderer) Draw(dst draw.Image, text string, style domain.TextStyle, pos domain.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := r.face(style)
	if err != nil {
		return err
	}
	ascent := f.Metrics().Ascent.Ceil()
	(&font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textShadow),
		Face: f,
		Dot:  fixed.P(pos.X+textShadowOffset, pos.Y+ascent+textShadowOffset),
	}).DrawString(text)
	(&font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textFill),
		Face: f,
		Dot:  fixed.P(pos.X, pos.Y+ascent),
	}).DrawString(text)
	return nil
}
