package subtitle

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/transcodeuz/subtitle-translator/models"
)

const (
	assKoreanOverride  = `{\fs24\c&HA7C1E8&}`
	assEnglishOverride = `{\fs20\c&HFFFFFF&}`
)

// BuildASS renders the styled track used for burn-in. When the source
// resolution is known it is declared as the canvas size, so the absolute font
// sizes map roughly one to one onto screen pixels whatever the input
// resolution is; with no resolution the renderer's default canvas applies.
//
// Each segment produces two dialogue entries: the Korean line on layer 1 so
// it stacks above the English line on layer 0, both carrying an inline
// override block duplicating the named style's size and color for renderers
// that ignore style definitions.
func BuildASS(ctx context.Context, segments []models.TranscriptSegment, tr Translator, width, height int) string {
	lines := []string{
		"[Script Info]",
		"Title: Bilingual Subtitles",
		"ScriptType: v4.00+",
	}
	if width > 0 && height > 0 {
		lines = append(lines,
			fmt.Sprintf("PlayResX: %d", width),
			fmt.Sprintf("PlayResY: %d", height),
		)
	}
	lines = append(lines,
		"",
		"[V4+ Styles]",
		"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding",
		"Style: Korean,Arial,24,&HA7C1E8,&HFFFFFF,&H000000,&H80000000,0,0,0,0,100,100,0,0,1,2,1,2,10,10,10,1",
		"Style: English,Arial,20,&HFFFFFF,&HFFFFFF,&H000000,&H80000000,0,0,0,0,100,100,0,0,1,2,1,2,10,10,50,1",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
	)

	for _, seg := range segments {
		textKo := strings.TrimSpace(seg.Text)

		textEn, err := tr.Translate(ctx, textKo)
		if err != nil {
			textEn = Placeholder
		}

		start := ToASSTimestamp(seg.Start)
		end := ToASSTimestamp(seg.End)

		lines = append(lines,
			fmt.Sprintf("Dialogue: 1,%s,%s,Korean,,0,0,0,,%s%s", start, end, assKoreanOverride, sanitizeLine(textKo)),
			fmt.Sprintf("Dialogue: 0,%s,%s,English,,0,0,0,,%s%s", start, end, assEnglishOverride, sanitizeLine(textEn)),
			"",
		)
	}

	return strings.Join(lines, "\n")
}
