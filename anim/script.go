package anim

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	frameVar = "frame"
	valueVar = "value"
)

var ErrEmptyChannel = errors.New("anim: channel has no keyframes or script")

// Runtime evaluates channels. Scripts are compiled once per source and re-run
// with the frame bound; a Runtime must only be used from one goroutine.
type Runtime struct {
	compiled map[string]*tengo.Compiled
}

func NewRuntime() *Runtime {
	return &Runtime{compiled: make(map[string]*tengo.Compiled)}
}

// Evaluate returns the channel value at frame.
func (rt *Runtime) Evaluate(c *Channel, frame int) (r3.Vec, error) {
	if c == nil {
		return r3.Vec{}, ErrEmptyChannel
	}
	if c.IsScripted() {
		v, err := rt.run(c.Script, frame)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("anim: channel %q frame %d: %w", c.Name, frame, err)
		}
		return v, nil
	}
	v, ok := Interpolate(c.Keyframes, float64(frame))
	if !ok {
		return r3.Vec{}, fmt.Errorf("anim: channel %q: %w", c.Name, ErrEmptyChannel)
	}
	return v, nil
}

func (rt *Runtime) compile(src string) (*tengo.Compiled, error) {
	if rt.compiled == nil {
		rt.compiled = make(map[string]*tengo.Compiled)
	}
	if compiled, ok := rt.compiled[src]; ok {
		return compiled, nil
	}

	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add(frameVar, 0); err != nil {
		return nil, err
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	rt.compiled[src] = compiled
	return compiled, nil
}

func (rt *Runtime) run(src string, frame int) (r3.Vec, error) {
	compiled, err := rt.compile(src)
	if err != nil {
		return r3.Vec{}, err
	}
	if err := compiled.Set(frameVar, frame); err != nil {
		return r3.Vec{}, err
	}
	if err := compiled.Run(); err != nil {
		return r3.Vec{}, err
	}
	if !compiled.IsDefined(valueVar) {
		return r3.Vec{}, fmt.Errorf("script does not define %q", valueVar)
	}
	return vecFromValue(compiled.Get(valueVar).Value())
}

func vecFromValue(v any) (r3.Vec, error) {
	items, ok := v.([]any)
	if !ok || len(items) != 3 {
		return r3.Vec{}, fmt.Errorf("%q must be an array of 3 numbers, got %T", valueVar, v)
	}
	var xyz [3]float64
	for i, item := range items {
		switch n := item.(type) {
		case int64:
			xyz[i] = float64(n)
		case float64:
			xyz[i] = n
		default:
			return r3.Vec{}, fmt.Errorf("%q[%d] must be a number, got %T", valueVar, i, item)
		}
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
