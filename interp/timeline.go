package interp

// SegmentEntry records one object's visibility and pending motion at
// the start of a segment.
type SegmentEntry struct {
	Object  *Object
	Visible bool
	Moving  *Vec // nil when the object is not moving during this segment
}

// Segment is a contiguous interval of simulated time delimited by a
// duration statement. Segment 0 is the implicit zero-duration boot
// segment created at interpreter init.
type Segment struct {
	Index    int
	Duration Number // zero for segment 0
	Begin    Number // start time, equal to the prior segment's end time
	Entries  []SegmentEntry
}

// End returns the segment's end time (Begin + Duration).
func (s Segment) End() Number { return s.Begin.Add(s.Duration) }

// Timeline is the ordered sequence of segments.
type Timeline struct {
	Segments []Segment
}

func newTimeline() *Timeline {
	return &Timeline{Segments: []Segment{{Index: 0, Duration: NewInt(0), Begin: NewInt(0)}}}
}

func (t *Timeline) last() Segment { return t.Segments[len(t.Segments)-1] }
