package subtitle

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/transcodeuz/subtitle-translator/models"
)

// Translator converts one source-language text into the target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Placeholder replaces a segment's translated line when the translator fails,
// so raw error detail never lands inside a subtitle track.
const Placeholder = "[Translation failed]"

const (
	srtKoreanTag  = `{\fs16\c&HA7C1E8&}`
	srtEnglishTag = `{\fs15\c&HFFFFFF&}`
)

// BuildSRT renders the bilingual SRT track: one numbered block per segment,
// Korean line above the English one, joined with an ASS line break. A failed
// translation degrades that single entry to the placeholder and building
// continues.
func BuildSRT(ctx context.Context, segments []models.TranscriptSegment, tr Translator) string {
	blocks := make([]string, 0, len(segments))

	for i, seg := range segments {
		textKo := strings.TrimSpace(seg.Text)

		textEn, err := tr.Translate(ctx, textKo)
		if err != nil {
			textEn = Placeholder
		}

		koLine := srtKoreanTag + sanitizeLine(textKo)
		enLine := srtEnglishTag + sanitizeLine(textEn)

		blocks = append(blocks, fmt.Sprintf(
			"%d\n%s --> %s\n%s\\N%s\n",
			i+1, ToSRTTimestamp(seg.Start), ToSRTTimestamp(seg.End), koLine, enLine,
		))
	}

	return strings.Join(blocks, "\n")
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// NormalizeSRT applies the canonical form the downstream editor expects:
// LF line endings, runs of blank lines collapsed to a single blank line,
// and exactly one blank line at the end of the file. Normalizing already
// normalized text is a no-op.
func NormalizeSRT(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = blankRuns.ReplaceAllString(content, "\n\n")
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return "\n"
	}

	return content + "\n\n"
}

// sanitizeLine keeps a segment's text on one subtitle line; transcription
// output occasionally carries embedded newlines.
func sanitizeLine(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", `\N`)

	return text
}
