package spell

import "github.com/go-gl/mathgl/mgl32"

// Target is anything a spell can aim at.
type Target interface {
	ID() string
	Position() mgl32.Vec3
}

// Data is the scratch state shared by every action of one cast.
//
// Every field stays nil until something is written to it, and Clear sets
// every field back to nil. A nil field means "no data of this kind yet",
// which consumers must tell apart from a populated one.
type Data struct {
	Targets         []Target
	PreviousTargets []Target
	Positions       []mgl32.Vec3
	Forwards        []mgl32.Vec3
	FloatValues     []float32
}

// AddTarget appends a target. Nil targets are ignored.
func (d *Data) AddTarget(t Target) {
	if t == nil {
		return
	}
	d.Targets = append(d.Targets, t)
}

// SetTargets replaces the targets. An empty list leaves the field nil.
func (d *Data) SetTargets(ts []Target) {
	d.Targets = nil
	for _, t := range ts {
		d.AddTarget(t)
	}
}

// AddPreviousTarget appends a previous target. Nil targets are ignored.
func (d *Data) AddPreviousTarget(t Target) {
	if t == nil {
		return
	}
	d.PreviousTargets = append(d.PreviousTargets, t)
}

// ShiftTargets moves the current targets to the end of PreviousTargets and
// leaves Targets nil. Chained effects use it to avoid hitting the same actor
// twice.
func (d *Data) ShiftTargets() {
	for _, t := range d.Targets {
		d.AddPreviousTarget(t)
	}
	d.Targets = nil
}

// WasTargeted reports whether t appears in Targets or PreviousTargets.
func (d *Data) WasTargeted(t Target) bool {
	if t == nil {
		return false
	}
	for _, list := range [][]Target{d.Targets, d.PreviousTargets} {
		for _, x := range list {
			if x.ID() == t.ID() {
				return true
			}
		}
	}
	return false
}

func (d *Data) AddPosition(p mgl32.Vec3) {
	d.Positions = append(d.Positions, p)
}

func (d *Data) AddForward(f mgl32.Vec3) {
	d.Forwards = append(d.Forwards, f)
}

func (d *Data) AddFloat(v float32) {
	d.FloatValues = append(d.FloatValues, v)
}

// Clear releases every backing slice. It is safe to call repeatedly.
func (d *Data) Clear() {
	d.Targets = nil
	d.PreviousTargets = nil
	d.Positions = nil
	d.Forwards = nil
	d.FloatValues = nil
}
