package subtitle

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"gitlab.com/transcodeuz/subtitle-translator/models"
)

type scriptedTranslator struct {
	translations map[string]string
	err          error
	calls        int
}

func (s *scriptedTranslator) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if out, ok := s.translations[text]; ok {
		return out, nil
	}
	return "translated: " + text, nil
}

func TestToSRTTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3.25, "00:00:03,250"},
		{59.999, "00:00:59,999"},
		{61.75, "00:01:01,750"},
		{3600, "01:00:00,000"},
		{3725.042, "01:02:05,042"},
	}

	for _, c := range cases {
		got := ToSRTTimestamp(c.seconds)
		if got != c.want {
			t.Errorf("ToSRTTimestamp(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestToSRTTimestampPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}:\d{2}:\d{2},\d{3}$`)

	prev := ""
	for _, seconds := range []float64{0, 0.001, 0.5, 1, 1.999, 30, 59.99, 60, 3599.9, 3600, 7425.25} {
		got := ToSRTTimestamp(seconds)
		if !pattern.MatchString(got) {
			t.Fatalf("ToSRTTimestamp(%v) = %q does not match pattern", seconds, got)
		}
		if got < prev {
			t.Fatalf("ToSRTTimestamp not monotonic: %q after %q", got, prev)
		}
		prev = got
	}
}

func TestToASSTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00.00"},
		{1.5, "0:00:01.50"},
		{3.25, "0:00:03.25"},
		// centiseconds are truncated, never rounded up
		{1.999, "0:00:01.99"},
		{3661.07, "1:01:01.07"},
	}

	for _, c := range cases {
		got := ToASSTimestamp(c.seconds)
		if got != c.want {
			t.Errorf("ToASSTimestamp(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}

	pattern := regexp.MustCompile(`^\d+:\d{2}:\d{2}\.\d{2}$`)
	for _, seconds := range []float64{0, 12.34, 3600.5, 40000} {
		if got := ToASSTimestamp(seconds); !pattern.MatchString(got) {
			t.Errorf("ToASSTimestamp(%v) = %q does not match pattern", seconds, got)
		}
	}
}

func TestBuildSRT(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Start: 1.5, End: 3.25, Text: "안녕하세요"},
		{Start: 4, End: 6.5, Text: "감사합니다"},
	}
	tr := &scriptedTranslator{translations: map[string]string{
		"안녕하세요": "Hello",
		"감사합니다": "Thank you",
	}}

	got := BuildSRT(context.Background(), segments, tr)

	wantFirst := "1\n00:00:01,500 --> 00:00:03,250\n" +
		`{\fs16\c&HA7C1E8&}안녕하세요\N{\fs15\c&HFFFFFF&}Hello` + "\n"
	if !strings.HasPrefix(got, wantFirst) {
		t.Fatalf("unexpected first block:\n%q\nwant prefix:\n%q", got, wantFirst)
	}
	if tr.calls != len(segments) {
		t.Fatalf("expected %d translator calls, got %d", len(segments), tr.calls)
	}

	blocks := strings.Split(NormalizeSRT(got), "\n\n")
	// trailing blank line yields one empty element at the end
	var numbered int
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			numbered++
		}
	}
	if numbered != len(segments) {
		t.Fatalf("expected %d blocks, got %d", len(segments), numbered)
	}
}

func TestBuildSRTTranslationFailure(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Start: 0, End: 1, Text: "하나"},
		{Start: 1, End: 2, Text: "둘"},
		{Start: 2, End: 3, Text: "셋"},
	}
	tr := &scriptedTranslator{err: errors.New("HTTP 429")}

	got := BuildSRT(context.Background(), segments, tr)

	if n := strings.Count(got, Placeholder); n != len(segments) {
		t.Fatalf("expected %d placeholder lines, got %d", len(segments), n)
	}
	if strings.Contains(got, "429") {
		t.Fatal("raw error detail leaked into the track")
	}
	for i := range segments {
		if !strings.Contains(got, segments[i].Text) {
			t.Fatalf("Korean line for segment %d missing", i+1)
		}
	}
}

func TestNormalizeSRT(t *testing.T) {
	in := "1\r\n00:00:00,000 --> 00:00:01,000\r\ntext\r\n\r\n\r\n\r\n2\n00:00:01,000 --> 00:00:02,000\ntext2\n"
	got := NormalizeSRT(in)

	if strings.Contains(got, "\r") {
		t.Fatal("CR survived normalization")
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatal("blank-line run survived normalization")
	}
	if !strings.HasSuffix(got, "text2\n\n") {
		t.Fatalf("expected exactly one trailing blank line, got %q", got[len(got)-10:])
	}
}

func TestNormalizeSRTIdempotent(t *testing.T) {
	tr := &scriptedTranslator{}
	raw := BuildSRT(context.Background(), []models.TranscriptSegment{
		{Start: 0, End: 1.2, Text: "하나"},
		{Start: 1.2, End: 2.4, Text: "둘"},
	}, tr)

	once := NormalizeSRT(raw)
	twice := NormalizeSRT(once)
	if once != twice {
		t.Fatalf("normalization is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestBuildASS(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Start: 1.5, End: 3.25, Text: "안녕하세요"},
	}
	tr := &scriptedTranslator{translations: map[string]string{"안녕하세요": "Hello"}}

	got := BuildASS(context.Background(), segments, tr, 1920, 1080)

	for _, want := range []string{
		"[Script Info]",
		"PlayResX: 1920",
		"PlayResY: 1080",
		"Style: Korean,Arial,24,&HA7C1E8,",
		"Style: English,Arial,20,&HFFFFFF,",
		`Dialogue: 1,0:00:01.50,0:00:03.25,Korean,,0,0,0,,{\fs24\c&HA7C1E8&}안녕하세요`,
		`Dialogue: 0,0:00:01.50,0:00:03.25,English,,0,0,0,,{\fs20\c&HFFFFFF&}Hello`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ASS output missing %q", want)
		}
	}

	// a blank separator follows each segment's pair of entries
	if !strings.HasSuffix(got, "English,,0,0,0,,{\\fs20\\c&HFFFFFF&}Hello\n") {
		t.Errorf("expected trailing separator line, got %q", got[len(got)-40:])
	}
}

func TestBuildASSWithoutResolution(t *testing.T) {
	tr := &scriptedTranslator{}
	got := BuildASS(context.Background(), []models.TranscriptSegment{{Start: 0, End: 1, Text: "하나"}}, tr, 0, 0)

	if strings.Contains(got, "PlayResX") || strings.Contains(got, "PlayResY") {
		t.Fatal("canvas size declared with unknown resolution")
	}
}
