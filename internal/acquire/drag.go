package acquire

// DragState is the drop-zone state.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// DragEvent is an event delivered to the drop zone.
type DragEvent int

const (
	DragEnter DragEvent = iota
	DragOver
	DragLeave
	DragDrop
)

// DragTracker is the drop-zone state machine.
type DragTracker struct {
	state DragState
}

// State returns the current state.
func (d *DragTracker) State() DragState {
	return d.state
}

// Dragging reports whether a drag is over the drop zone.
func (d *DragTracker) Dragging() bool {
	return d.state == Dragging
}

// Handle applies a drag event that carries no file.
func (d *DragTracker) Handle(ev DragEvent) {
	switch ev {
	case DragEnter, DragOver:
		d.state = Dragging
	case DragLeave, DragDrop:
		d.state = DragIdle
	}
}

// Drop validates the dropped source. The tracker returns to idle whatever
// the outcome.
func (d *DragTracker) Drop(src Source) (*CandidateFile, error) {
	defer d.Handle(DragDrop)
	return Acquire(src)
}
