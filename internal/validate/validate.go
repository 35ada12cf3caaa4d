// Package validate turns raw poster form input into a typed PosterRequest.
// Every field is checked independently and every failure is collected, so a
// single submit reports all problems at once.
package validate

import (
	"bytes"
	"image"
	"net/url"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	// Register the decoders used to read intrinsic image dimensions.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/roguepikachu/easel/internal/domain"
)

// Form field names, shared with the HTTP layer and the wire contract.
const (
	FieldTitle    = "title"
	FieldSubtitle = "subtitle"
	FieldURL      = "url"
	FieldImage    = "image"
	FieldWidth    = "width"
	FieldHeight   = "height"
)

// allowedImageMIMEs is the closed set of accepted upload types. Detection
// sniffs the actual bytes; the client-supplied Content-Type is ignored.
var allowedImageMIMEs = []string{"image/jpeg", "image/png", "image/webp"}

// Input is the raw, untyped poster form as received over the wire.
// ImagePresent distinguishes an absent file part from an empty one.
type Input struct {
	Title        string
	Subtitle     string
	URL          string
	Width        string
	Height       string
	ImageBytes   []byte
	ImagePresent bool
}

// Limits carries the configured validation ceilings.
type Limits struct {
	MaxImageBytes int64
	MaxCanvasDim  int
}

// Poster validates a raw submission. On success the returned FieldErrors is
// empty and the PosterRequest carries trimmed text, the sniffed MIME type
// and the intrinsic pixel dimensions of the decoded image. On failure the
// PosterRequest is the zero value.
func Poster(in Input, limits Limits) (domain.PosterRequest, domain.FieldErrors) {
	fieldErrors := domain.FieldErrors{}

	title := requireText(in.Title, FieldTitle, fieldErrors)
	// The subtitle is the one optional text field.
	subtitle := strings.TrimSpace(in.Subtitle)
	rawURL := validateURL(in.URL, fieldErrors)
	mime, intrinsic := validateImage(in, limits, fieldErrors)
	width := validateDimension(in.Width, FieldWidth, limits.MaxCanvasDim, fieldErrors)
	height := validateDimension(in.Height, FieldHeight, limits.MaxCanvasDim, fieldErrors)

	if len(fieldErrors) > 0 {
		return domain.PosterRequest{}, fieldErrors
	}
	return domain.PosterRequest{
		Title:           title,
		Subtitle:        subtitle,
		URL:             rawURL,
		ImageBytes:      in.ImageBytes,
		ImageMIME:       mime,
		IntrinsicWidth:  intrinsic.Width,
		IntrinsicHeight: intrinsic.Height,
		CanvasWidth:     width,
		CanvasHeight:    height,
	}, nil
}

func requireText(raw, field string, fe domain.FieldErrors) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		fe[field] = domain.ErrEmptyField
	}
	return trimmed
}

func validateURL(raw string, fe domain.FieldErrors) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		fe[FieldURL] = domain.ErrEmptyField
		return trimmed
	}
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		fe[FieldURL] = domain.ErrInvalidURL
	}
	return trimmed
}

func validateImage(in Input, limits Limits, fe domain.FieldErrors) (string, domain.Size) {
	if !in.ImagePresent || len(in.ImageBytes) == 0 {
		fe[FieldImage] = domain.ErrMissingImage
		return "", domain.Size{}
	}
	if int64(len(in.ImageBytes)) > limits.MaxImageBytes {
		fe[FieldImage] = domain.ErrImageTooLarge
		return "", domain.Size{}
	}
	detected := mimetype.Detect(in.ImageBytes)
	if !isAllowedImageMIME(detected) {
		fe[FieldImage] = domain.ErrUnsupportedImageType
		return "", domain.Size{}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.ImageBytes))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		// Sniffed fine but does not decode: treat as unsupported.
		fe[FieldImage] = domain.ErrUnsupportedImageType
		return "", domain.Size{}
	}
	return detected.String(), domain.Size{Width: cfg.Width, Height: cfg.Height}
}

func isAllowedImageMIME(detected *mimetype.MIME) bool {
	for _, allowed := range allowedImageMIMEs {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

func validateDimension(raw, field string, maxDim int, fe domain.FieldErrors) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 || v > maxDim {
		fe[field] = domain.ErrInvalidDimension
		return 0
	}
	return v
}
