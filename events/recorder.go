package events

// Recorder collects the events of the block being built. A nil Recorder discards them.
type Recorder struct {
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(events ...Event) {
	if r == nil {
		return
	}
	r.events = append(r.events, events...)
}

// Checkpoint marks the current position so a failed step can drop what it emitted
func (r *Recorder) Checkpoint() int {
	if r == nil {
		return 0
	}
	return len(r.events)
}

// Rewind drops the events emitted after the checkpoint
func (r *Recorder) Rewind(checkpoint int) {
	if r == nil || checkpoint > len(r.events) {
		return
	}
	for i := checkpoint; i < len(r.events); i++ {
		r.events[i] = nil
	}
	r.events = r.events[:checkpoint]
}

func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns the recorded events of the given kind
func (r *Recorder) Filter(kind Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}
