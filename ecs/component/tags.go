package component

import "github.com/google/uuid"

// Tag marks an entity as generated by a motion path run.
type Tag uint8

const (
	TagNone Tag = iota
	PathTag
	MarkerTag
)

func (t Tag) String() string {
	switch t {
	case PathTag:
		return "motion_path"
	case MarkerTag:
		return "motion_path_marker"
	default:
		return "none"
	}
}

// Generated is stamped on every path and marker at creation time. Cleanup
// finds artifacts through this component alone.
type Generated struct {
	Tag   Tag
	RunID uuid.UUID
}

var GeneratedComponent = NewComponent[Generated]()
