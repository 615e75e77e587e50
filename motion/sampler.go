package motion

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// SamplePoint is one successful sample.
type SamplePoint struct {
	Frame    int
	Position r3.Vec
}

// Sampler evaluates a reference at a frame through its Evaluator.
type Sampler struct {
	eval Evaluator
}

func NewSampler(eval Evaluator) *Sampler {
	return &Sampler{eval: eval}
}

// Sample moves evaluation to frame and resolves ref there. ok is false when
// the reference does not resolve at that frame; err is only set when the
// evaluator itself fails.
func (s *Sampler) Sample(ref EntityRef, frame int) (pt SamplePoint, ok bool, err error) {
	snap, err := s.eval.EvaluateAt(frame)
	if err != nil {
		return SamplePoint{}, false, err
	}
	pos, ok := ResolvePosition(ref, snap)
	if !ok {
		return SamplePoint{}, false, nil
	}
	return SamplePoint{Frame: frame, Position: pos}, true, nil
}

// SampleRange samples every frame of r in increasing order. Frames that do
// not resolve are returned separately; the points are compacted.
func (s *Sampler) SampleRange(ref EntityRef, r FrameRange) (points []SamplePoint, skipped []int, err error) {
	points = make([]SamplePoint, 0, r.Len())
	for frame := r.Start; frame <= r.End; frame++ {
		pt, ok, err := s.Sample(ref, frame)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			skipped = append(skipped, frame)
			continue
		}
		points = append(points, pt)
	}
	return points, skipped, nil
}
