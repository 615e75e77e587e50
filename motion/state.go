package motion

import (
	"github.com/google/uuid"
	"github.com/milk9111/motionpath/ecs"
)

// State is a step of one operator invocation.
type State uint8

const (
	StateIdle State = iota
	StateValidatingSelection
	StateResolvingRange
	StateSampling
	StateAssemblingMarkers
	StateDone
	StateRejected
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateValidatingSelection: "validating_selection",
	StateResolvingRange:      "resolving_range",
	StateSampling:            "sampling",
	StateAssemblingMarkers:   "assembling_markers",
	StateDone:                "done",
	StateRejected:            "rejected",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether s ends an invocation.
func (s State) Terminal() bool {
	return s == StateDone || s == StateRejected
}

type Level uint8

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "ERROR"
	}
	return "INFO"
}

// Context is the host selection an entry point reads.
type Context struct {
	Active     ecs.Entity
	ActiveBone string
	Timeline   FrameRange
	EditMode   bool
}

// Status is the terminal report of an entry point.
type Status struct {
	State   State
	Level   Level
	Message string
	Err     error
	// Trace lists every state the invocation passed through.
	Trace []State

	Kind     EntityKind
	RunID    uuid.UUID
	Path     ecs.Entity
	Template ecs.Entity
	Range    FrameRange
	Points   int
	Skipped  []int
	Markers  int
	Cleanup  CleanupResult

	// ShadeByObjectColor asks the host to switch its viewport to
	// object-color shading. Set by every path entry point.
	ShadeByObjectColor bool
	// EditMode is the mesh mode the host should be in afterwards.
	EditMode bool
}

func (s Status) String() string {
	return s.Level.String() + ": " + s.Message
}
