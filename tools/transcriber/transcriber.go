package transcriber

import (
	"context"

	"gitlab.com/transcodeuz/subtitle-translator/models"
)

// Transcriber is the speech-to-text engine contract. An empty segment slice
// with a nil error means no speech was detected.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, language string) ([]models.TranscriptSegment, error)
}
