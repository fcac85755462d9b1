package spriter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrExpectation is wrapped by errors from failed "expect" steps.
var ErrExpectation = errors.New("expectation failed")

// scriptStep represents a single action in a playback script.
type scriptStep struct {
	Action    string  `json:"action"`
	Label     string  `json:"label,omitempty"`
	Animation string  `json:"animation,omitempty"`
	StopAtEnd *bool   `json:"stopAtEnd,omitempty"`
	DT        float64 `json:"dt,omitempty"`
	Frames    int     `json:"frames,omitempty"`
	Time      float64 `json:"time,omitempty"`
	Speed     float64 `json:"speed,omitempty"`

	// expect
	Element   string   `json:"element,omitempty"`
	Bone      *int     `json:"bone,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Angle     *float64 `json:"angle,omitempty"` // degrees
	ScaleX    *float64 `json:"scaleX,omitempty"`
	ScaleY    *float64 `json:"scaleY,omitempty"`
	Alpha     *float64 `json:"alpha,omitempty"`
	Tolerance float64  `json:"tolerance,omitempty"`
	State     string   `json:"state,omitempty"`
	AtTime    *float64 `json:"atTime,omitempty"`
	Loops     *int     `json:"loops,omitempty"`
	Ends      *int     `json:"ends,omitempty"`
}

// scriptFile is the top-level JSON structure for a playback script.
type scriptFile struct {
	Entity string       `json:"entity"`
	Steps  []scriptStep `json:"steps"`
}

// ScriptRunner sequences playback commands and pose expectations across
// frames, either a step per frame from a game loop (Step) or all at once
// (Run), which is how tests and the sconinspect tool use it.
//
// While a script runs, the runner counts events by wrapping the event sink of
// the entity it is stepping. Stepping a different entity moves the wrapper to
// it, and finishing the script restores the original sink.
type ScriptRunner struct {
	// Entity names the entity definition the script was written for. Empty
	// means any.
	Entity string
	// OnSnapshot is called for "snapshot" steps with the step label.
	OnSnapshot func(label string, e *Entity)

	steps     []scriptStep
	cursor    int
	waitCount int
	waitDT    float64
	done      bool

	sink  *countingSink
	bound *Entity
}

// countingSink counts playback events and forwards them.
type countingSink struct {
	next        EventSink
	loops, ends int
}

func (c *countingSink) EmitEvent(ev PlaybackEvent) {
	switch ev.Type {
	case EventLoop:
		c.loops++
	case EventEnd:
		c.ends++
	}
	if c.next != nil {
		c.next.EmitEvent(ev)
	}
}

// LoadScript parses a JSON playback script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script scriptFile
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("spriter: parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("spriter: parse script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "play", "tick", "set_time", "set_speed", "sample", "expect", "snapshot":
		default:
			return nil, fmt.Errorf("spriter: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{Entity: script.Entity, steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Loops returns the loop events observed since the runner first stepped,
// across every entity it drove.
func (r *ScriptRunner) Loops() int {
	if r.sink == nil {
		return 0
	}
	return r.sink.loops
}

// Ends returns the end events observed since the runner first stepped,
// across every entity it drove.
func (r *ScriptRunner) Ends() int {
	if r.sink == nil {
		return 0
	}
	return r.sink.ends
}

// Run executes the remaining steps against e and returns the first error.
func (r *ScriptRunner) Run(e *Entity) error {
	for !r.done {
		if err := r.Step(e); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the runner by one frame. A "tick" step with Frames > 1
// spans that many calls.
func (r *ScriptRunner) Step(e *Entity) error {
	if r.done {
		return nil
	}
	r.bind(e)
	if r.waitCount > 0 {
		r.waitCount--
		e.Update(r.waitDT)
		r.checkDone()
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.finish()
		return nil
	}

	i := r.cursor
	st := r.steps[i]
	r.cursor++

	var err error
	switch st.Action {
	case "play":
		if st.StopAtEnd != nil {
			err = e.Play(st.Animation, *st.StopAtEnd)
		} else {
			err = e.PlayAuthored(st.Animation)
		}
	case "tick":
		e.Update(st.DT)
		if st.Frames > 1 {
			r.waitCount = st.Frames - 1 // this frame counts as one
			r.waitDT = st.DT
		}
	case "set_time":
		e.SetTime(st.Time)
	case "set_speed":
		e.Speed = st.Speed
	case "sample":
		err = e.Sample()
	case "expect":
		if err = e.Sample(); err == nil {
			err = r.expect(e, st)
		}
	case "snapshot":
		if r.OnSnapshot != nil {
			r.OnSnapshot(st.Label, e)
		}
	}
	if err != nil {
		r.finish()
		return fmt.Errorf("spriter: script step %d (%s%s): %w", i, st.Action, labelSuffix(st.Label), err)
	}
	r.checkDone()
	return nil
}

func (r *ScriptRunner) checkDone() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.finish()
	}
}

func (r *ScriptRunner) finish() {
	r.done = true
	r.unbind()
}

// bind routes e's events through the runner's counter.
func (r *ScriptRunner) bind(e *Entity) {
	if r.bound == e {
		return
	}
	r.unbind()
	if r.sink == nil {
		r.sink = &countingSink{}
	}
	r.sink.next = e.sink
	e.SetEventSink(r.sink)
	r.bound = e
}

// unbind gives the bound entity its own sink back, unless the caller has
// replaced it since.
func (r *ScriptRunner) unbind() {
	if e := r.bound; e != nil && e.sink == r.sink {
		e.SetEventSink(r.sink.next)
	}
	r.bound = nil
}

func labelSuffix(label string) string {
	if label == "" {
		return ""
	}
	return " " + label
}

func (r *ScriptRunner) expect(e *Entity, st scriptStep) error {
	tol := st.Tolerance
	if tol == 0 {
		tol = 1e-3
	}
	check := func(what string, want *float64, got float64) error {
		if want != nil && math.Abs(*want-got) > tol {
			return fmt.Errorf("%s = %g, want %g: %w", what, got, *want, ErrExpectation)
		}
		return nil
	}
	checkInt := func(what string, want *int, got int) error {
		if want != nil && *want != got {
			return fmt.Errorf("%s = %d, want %d: %w", what, got, *want, ErrExpectation)
		}
		return nil
	}

	if st.State != "" && st.State != e.State().String() {
		return fmt.Errorf("state = %s, want %s: %w", e.State(), st.State, ErrExpectation)
	}
	if err := errors.Join(
		check("time", st.AtTime, e.Time()),
		checkInt("loops", st.Loops, r.Loops()),
		checkInt("ends", st.Ends, r.Ends()),
	); err != nil {
		return err
	}

	var w Transform
	var alpha float64
	switch {
	case st.Element != "":
		el, ok := e.Pose().Element(st.Element)
		if !ok {
			return fmt.Errorf("element %q not in pose: %w", st.Element, ErrExpectation)
		}
		w, alpha = el.World, el.Alpha
	case st.Bone != nil:
		b, ok := e.Pose().Bone(*st.Bone)
		if !ok {
			return fmt.Errorf("bone %d not in pose: %w", *st.Bone, ErrExpectation)
		}
		w, alpha = b.World, 1
	default:
		return nil
	}
	if st.Angle != nil {
		// Compare wrapped angles so 360 and 0 agree.
		if d := Rad2Deg(WrapAngle(Deg2Rad(*st.Angle) - w.Rotation)); math.Abs(d) > tol {
			return fmt.Errorf("angle = %g, want %g: %w", Rad2Deg(w.Rotation), *st.Angle, ErrExpectation)
		}
	}
	return errors.Join(
		check("x", st.X, w.Position.X),
		check("y", st.Y, w.Position.Y),
		check("scaleX", st.ScaleX, w.Scale.X),
		check("scaleY", st.ScaleY, w.Scale.Y),
		check("alpha", st.Alpha, alpha),
	)
}
