package subtitle

// Segment is a single timed unit of transcribed or translated text.
// Start and End are offsets from the beginning of the media, in seconds.
// Text may span multiple lines; callers trim surrounding whitespace before
// constructing a Segment.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Duration returns the length of the segment in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}
