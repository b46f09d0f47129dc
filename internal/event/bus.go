package event

// Handler receives published events.
type Handler func(Event)

// Bus dispatches events synchronously, in subscription order.
// Handlers must not publish on the bus they are called from.
type Bus struct {
	all    []Handler
	byKind map[Kind][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{byKind: make(map[Kind][]Handler)}
}

// Subscribe registers h for every event.
func (b *Bus) Subscribe(h Handler) {
	b.all = append(b.all, h)
}

// On registers h for one event kind.
func (b *Bus) On(k Kind, h Handler) {
	b.byKind[k] = append(b.byKind[k], h)
}

// Publish hands e to every matching handler.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	for _, h := range b.byKind[e.Kind()] {
		h(e)
	}
	for _, h := range b.all {
		h(e)
	}
}

// Recorder collects events, for tests and battle logs.
type Recorder struct {
	Events []Event
}

// Record appends e. Pass it to Bus.Subscribe.
func (r *Recorder) Record(e Event) {
	r.Events = append(r.Events, e)
}

// OfKind returns the recorded events of kind k.
func (r *Recorder) OfKind(k Kind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	return len(r.OfKind(k))
}
