package renderer

import (
	"context"
	"fmt"
)

// Renderer is methods that the external media tool must have
type Renderer interface {
	GetVideoWidthHeight(ctx context.Context, input string) (int, int, error)
	GetMediaDuration(ctx context.Context, input string) float64
	GetThumb(ctx context.Context, input string, output string) error
	BurnSubtitles(ctx context.Context, input string, subtitleContent string, output string) error
}

// RenderError carries the external tool's diagnostic output alongside the
// failure cause.
type RenderError struct {
	Output string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("render failed: %v", e.Err)
	}
	return fmt.Sprintf("render failed: %v: %s", e.Err, e.Output)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
