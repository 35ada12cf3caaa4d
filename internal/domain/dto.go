package domain

// CommitPositionRequestDTO represents the expected request body for a
// drag-stop commit. Coordinates are the proposed top-left corner.
type CommitPositionRequestDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CommitSizeRequestDTO represents the expected request body for a
// resize-stop commit, expressed as deltas against the committed size.
type CommitSizeRequestDTO struct {
	DeltaWidth  int `json:"delta_width"`
	DeltaHeight int `json:"delta_height"`
}

// LayerResponseDTO represents one layer in a session response.
type LayerResponseDTO struct {
	Kind            string  `json:"kind"`
	X               int     `json:"x"`
	Y               int     `json:"y"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Text            string  `json:"text,omitempty"`
	FontSize        float64 `json:"font_size,omitempty"`
	Bold            bool    `json:"bold,omitempty"`
	URL             string  `json:"url,omitempty"`
	IntrinsicWidth  int     `json:"intrinsic_width,omitempty"`
	IntrinsicHeight int     `json:"intrinsic_height,omitempty"`
	UserResized     bool    `json:"user_resized,omitempty"`
}

// SessionResponseDTO represents the editor state of one session. The source
// image bytes are deliberately absent; clients fetch them through the layer
// content endpoint.
type SessionResponseDTO struct {
	ID           string             `json:"id"`
	Generated    bool               `json:"generated"`
	Revision     int64              `json:"revision"`
	CanvasWidth  int                `json:"canvas_width,omitempty"`
	CanvasHeight int                `json:"canvas_height,omitempty"`
	Layers       []LayerResponseDTO `json:"layers,omitempty"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
	ExpiresAt    *string            `json:"expires_at,omitempty"`
}
