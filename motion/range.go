package motion

import (
	"fmt"

	"github.com/milk9111/motionpath/settings"
)

// FrameRange is an inclusive frame interval.
type FrameRange struct {
	Start int
	End   int
}

// Len is the number of frames in the range.
func (r FrameRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

func (r FrameRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// Validate rejects ranges with start after end.
func (r FrameRange) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// ResolveRange picks the timeline or the explicit bounds from s and
// validates the result. Explicit bounds must also be at least 1.
func ResolveRange(s settings.Settings, timeline FrameRange) (FrameRange, error) {
	if s.UseTimeline {
		return timeline, timeline.Validate()
	}
	r := FrameRange{Start: s.StartFrame, End: s.EndFrame}
	if r.Start < settings.MinFrame || r.End < settings.MinFrame {
		return r, fmt.Errorf("%w: explicit frames must be >= %d, got %s", ErrInvalidRange, settings.MinFrame, r)
	}
	return r, r.Validate()
}
