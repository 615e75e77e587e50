package scenes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SceneSpec describes a scene file.
type SceneSpec struct {
	Name       string       `yaml:"name"`
	FrameStart int          `yaml:"frame_start"`
	FrameEnd   int          `yaml:"frame_end"`
	Active     string       `yaml:"active"`
	ActiveBone string       `yaml:"active_bone"`
	Objects    []ObjectSpec `yaml:"objects"`
}

type ObjectSpec struct {
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	Components map[string]any `yaml:"components"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scenes: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scenes: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type ObjectComponentSpec struct {
	Kind string `yaml:"kind"`
}

// TransformComponentSpec takes rotation in degrees.
type TransformComponentSpec struct {
	Location []float64 `yaml:"location"`
	Rotation []float64 `yaml:"rotation"`
	Scale    []float64 `yaml:"scale"`
}

type MeshComponentSpec struct {
	Primitive    string      `yaml:"primitive"`
	Size         float64     `yaml:"size"`
	Subdivisions int         `yaml:"subdivisions"`
	Vertices     [][]float64 `yaml:"vertices"`
	Faces        [][3]int    `yaml:"faces"`
	Selected     []int       `yaml:"selected"`
}

type BoneSpec struct {
	Name   string    `yaml:"name"`
	Head   []float64 `yaml:"head"`
	Tail   []float64 `yaml:"tail"`
	Parent string    `yaml:"parent"`
}

type ArmatureComponentSpec struct {
	Bones []BoneSpec `yaml:"bones"`
}

type KeyframeSpec struct {
	Frame float64   `yaml:"frame"`
	Value []float64 `yaml:"value"`
}

// ChannelSpec is either keyframes, an inline script or a script file under
// scripts/.
type ChannelSpec struct {
	Keyframes  []KeyframeSpec `yaml:"keyframes"`
	Script     string         `yaml:"script"`
	ScriptFile string         `yaml:"script_file"`
}

type AnimationComponentSpec struct {
	Location *ChannelSpec           `yaml:"location"`
	Rotation *ChannelSpec           `yaml:"rotation"`
	Scale    *ChannelSpec           `yaml:"scale"`
	Bones    map[string]ChannelSpec `yaml:"bones"`
}

type DisplayComponentSpec struct {
	Color        []float64 `yaml:"color"`
	HideRender   bool      `yaml:"hide_render"`
	HideViewport bool      `yaml:"hide_viewport"`
	Smooth       bool      `yaml:"smooth"`
}
