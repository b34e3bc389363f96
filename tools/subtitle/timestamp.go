package subtitle

import "fmt"

// ToSRTTimestamp converts seconds into the SRT notation HH:MM:SS,mmm.
// Fractions are truncated, not rounded. Negative input is not defined.
func ToSRTTimestamp(seconds float64) string {
	h := int(seconds / 3600)
	m := int(seconds/60) % 60
	s := int(seconds) % 60
	ms := int(seconds*1000) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ToASSTimestamp converts seconds into the ASS notation H:MM:SS.cc with an
// un-padded hour field and truncated centiseconds.
func ToASSTimestamp(seconds float64) string {
	h := int(seconds / 3600)
	m := int(seconds/60) % 60
	s := int(seconds) % 60
	cs := int(seconds*100) % 100

	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
