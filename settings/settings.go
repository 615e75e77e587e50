// Package settings holds the frame range and marker appearance settings and
// the process-wide store the host edits live.
package settings

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/spf13/viper"
)

const (
	MinRadius     = 0.001
	MaxRadius     = 1.0
	MinFrame      = 1
	DefaultRadius = 0.2
)

// DefaultColor is the stock marker color.
var DefaultColor = Color{R: 1.0, G: 0.0, B: 0.6}

// Color is an RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float64
}

type Marker struct {
	Radius float64
	Color  Color
}

type Settings struct {
	UseTimeline bool
	StartFrame  int
	EndFrame    int
	Marker      Marker
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		UseTimeline: true,
		StartFrame:  1,
		EndFrame:    250,
		Marker:      Marker{Radius: DefaultRadius, Color: DefaultColor},
	}
}

// Clamp forces every value into its allowed bounds. It does not reorder
// start and end; that check belongs to range resolution.
func (s Settings) Clamp() Settings {
	s.StartFrame = max(s.StartFrame, MinFrame)
	s.EndFrame = max(s.EndFrame, MinFrame)
	s.Marker.Radius = clamp(s.Marker.Radius, MinRadius, MaxRadius)
	s.Marker.Color = Color{
		R: clamp(s.Marker.Color.R, 0, 1),
		G: clamp(s.Marker.Color.G, 0, 1),
		B: clamp(s.Marker.Color.B, 0, 1),
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

type rawSettings struct {
	UseTimeline bool `mapstructure:"use_timeline"`
	StartFrame  int  `mapstructure:"start_frame"`
	EndFrame    int  `mapstructure:"end_frame"`
	Marker      struct {
		Radius float64   `mapstructure:"radius"`
		Color  []float64 `mapstructure:"color"`
	} `mapstructure:"marker"`
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("use_timeline", d.UseTimeline)
	v.SetDefault("start_frame", d.StartFrame)
	v.SetDefault("end_frame", d.EndFrame)
	v.SetDefault("marker.radius", d.Marker.Radius)
	v.SetDefault("marker.color", []float64{d.Marker.Color.R, d.Marker.Color.G, d.Marker.Color.B})
}

// Load reads settings from path (yaml, json or toml by extension) on top of
// the defaults. An empty path yields the defaults.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
		}
	}

	var raw rawSettings
	if err := v.Unmarshal(&raw); err != nil {
		return Settings{}, fmt.Errorf("settings: decode %s: %w", path, err)
	}
	if n := len(raw.Marker.Color); n != 3 {
		return Settings{}, fmt.Errorf("settings: marker.color needs 3 channels, got %d", n)
	}

	s := Settings{
		UseTimeline: raw.UseTimeline,
		StartFrame:  raw.StartFrame,
		EndFrame:    raw.EndFrame,
		Marker: Marker{
			Radius: raw.Marker.Radius,
			Color:  Color{R: raw.Marker.Color[0], G: raw.Marker.Color[1], B: raw.Marker.Color[2]},
		},
	}
	return s.Clamp(), nil
}

// Store is the process-wide settings cell. Reads never block and see either
// the old or the new value.
type Store struct {
	current atomic.Pointer[Settings]
}

func NewStore(s Settings) *Store {
	st := &Store{}
	st.Set(s)
	return st
}

func (st *Store) Get() Settings {
	if p := st.current.Load(); p != nil {
		return *p
	}
	return Default()
}

// Set stores a clamped copy of s.
func (st *Store) Set(s Settings) {
	c := s.Clamp()
	st.current.Store(&c)
}

// SetRadius replaces only the marker radius.
func (st *Store) SetRadius(r float64) {
	s := st.Get()
	s.Marker.Radius = r
	st.Set(s)
}

// Radius returns the current marker radius.
func (st *Store) Radius() float64 {
	return st.Get().Marker.Radius
}
